package health

import (
	"net/http"

	"github.com/razorpay/kafkabench/pkg/logger"
)

// Handler serves the health check over http: 200 when healthy, 503 otherwise.
type Handler struct {
	core *Core
}

// NewHandler returns a handler.
func NewHandler(core *Core) *Handler {
	return &Handler{core: core}
}

// ServeHTTP ...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.core.RunHealthCheck(r.Context()); err != nil {
		logger.Ctx(r.Context()).Warnw("health check failed", "error", err.Error())
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
