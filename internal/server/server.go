package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/razorpay/kafkabench/pkg/health"
)

const readHeaderTimeout = 10 * time.Second

// NewHTTPServer returns a server exposing /metrics, /health and /commit.txt
func NewHTTPServer(address string, healthCore *health.Core, gitCommitHash string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", health.NewHandler(healthCore))
	mux.HandleFunc("/commit.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, gitCommitHash)
	})

	return &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Serve listens on the server's address and blocks until ctx is done, then shuts
// the server down within timeout.
func Serve(ctx context.Context, httpServer *http.Server, timeout time.Duration) error {
	listener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
