//go:build unit
// +build unit

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCtx_DefaultLogger(t *testing.T) {
	l := Ctx(context.Background())
	assert.NotNil(t, l)
	assert.Equal(t, Log, l)
}

func TestCtx_LoggerFromContext(t *testing.T) {
	custom := zap.NewNop().Sugar()
	ctx := context.WithValue(context.Background(), LoggerCtxKey, custom)
	assert.Equal(t, custom, Ctx(ctx))
}

func TestWithContext_Fields(t *testing.T) {
	ctx := context.WithValue(context.Background(), "runID", "r-1")
	l := WithContext(ctx, []string{"runID"})
	assert.NotNil(t, l)
	assert.NotEqual(t, Log, l)
}

func TestMapToSliceOfKV(t *testing.T) {
	s := MapToSliceOfKV(map[string]interface{}{"appEnv": "dev"})
	assert.Equal(t, []interface{}{"appEnv", "dev"}, s)
	assert.Empty(t, MapToSliceOfKV(nil))
}

func BenchmarkCtx(b *testing.B) {
	l := Ctx(context.Background()).With("key1", "value1")
	for n := 0; n < b.N; n++ {
		l.Debugw("I have the default values for Key1 and Value1")
	}
}
