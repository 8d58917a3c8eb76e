//go:build unit
// +build unit

package sentry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitSentry(t *testing.T) {
	tests := []struct {
		name    string
		conf    *Config
		wantNop bool
		wantErr bool
	}{
		{
			name:    "nil config",
			conf:    nil,
			wantNop: true,
		},
		{
			name:    "mock",
			conf:    &Config{AppName: "kafkabench", Mock: true},
			wantNop: true,
		},
		{
			name:    "Invalid sentry DSN",
			conf:    &Config{AppName: "kafkabench", DSN: "https://<invalid>@sentry.io/123"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InitSentry(tt.conf, "test")
			if tt.wantErr {
				assert.NotNil(t, err)
				assert.Nil(t, got)
				return
			}
			assert.Nil(t, err)
			if tt.wantNop {
				assert.Equal(t, zapcore.NewNopCore(), got)
			}
		})
	}
}

func Test_core_Write(t *testing.T) {
	var events []*sentry.Event
	c := newCore(zapcore.WarnLevel, "perf", "kafkabench", func(e *sentry.Event) {
		events = append(events, e)
	})

	withTopic := c.With([]zapcore.Field{zap.String("topic", "ycsb")})
	err := withTopic.Write(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "failed to deliver message"},
		[]zapcore.Field{zap.String("messageID", "abc")})
	assert.Nil(t, err)

	assert.Len(t, events, 1)
	assert.Equal(t, "failed to deliver message", events[0].Message)
	assert.Equal(t, sentry.LevelError, events[0].Level)
	assert.Equal(t, "perf", events[0].Environment)
	assert.Equal(t, "kafkabench", events[0].ServerName)
	assert.Equal(t, "ycsb", events[0].Extra["topic"])
	assert.Equal(t, "abc", events[0].Extra["messageID"])

	// fields added through With do not leak into the parent core
	assert.Empty(t, c.fields)
}

func Test_core_Check(t *testing.T) {
	c := newCore(zapcore.WarnLevel, "test", "kafkabench", func(*sentry.Event) {})

	assert.Nil(t, c.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
	assert.NotNil(t, c.Check(zapcore.Entry{Level: zapcore.WarnLevel}, nil))
	assert.NotNil(t, c.Check(zapcore.Entry{Level: zapcore.ErrorLevel}, nil))

	errorsOnly := newCore(zapcore.ErrorLevel, "test", "kafkabench", func(*sentry.Event) {})
	assert.Nil(t, errorsOnly.Check(zapcore.Entry{Level: zapcore.WarnLevel}, nil))
}

func Test_sentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelWarning, sentryLevel(zapcore.WarnLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(zapcore.PanicLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(zapcore.DebugLevel))
}
