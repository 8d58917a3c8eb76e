//go:build unit
// +build unit

package server

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/razorpay/kafkabench/pkg/health"
	"github.com/stretchr/testify/assert"
)

func TestNewHTTPServer_Routes(t *testing.T) {
	srv := NewHTTPServer(":0", health.NewCore(), "abc123")

	tests := []struct {
		path string
		code int
		body string
	}{
		{path: "/health", code: http.StatusOK, body: "ok"},
		{path: "/commit.txt", code: http.StatusOK, body: "abc123"},
		{path: "/metrics", code: http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.code, rec.Code, tt.path)
		if tt.body != "" {
			body, _ := ioutil.ReadAll(rec.Body)
			assert.Equal(t, tt.body, string(body))
		}
	}
}

func TestServe_StopsOnContextDone(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", health.NewCore(), "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, time.Second) }()

	cancel()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_BadAddress(t *testing.T) {
	srv := NewHTTPServer("not-an-address", health.NewCore(), "")
	assert.NotNil(t, Serve(context.Background(), srv, time.Second))
}
