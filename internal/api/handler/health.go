package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/middleware"
	"github.com/shinonomekazan/akashic-game-drive/internal/api/response"
)

// Pinger checks connectivity with the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// SystemHandler handles the root and health endpoints.
type SystemHandler struct {
	store   Pinger
	version string
	now     func() time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(store Pinger, version string) *SystemHandler {
	return &SystemHandler{store: store, version: version, now: time.Now}
}

type indexData struct {
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

type healthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Index handles GET /.
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	response.Success(w, http.StatusOK, indexData{Version: h.version, Time: h.now().UTC()}, requestID)
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := "healthy"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			slog.Warn("store ping failed", "error", err, "requestId", requestID)
			status = "degraded"
		}
	}

	response.Success(w, http.StatusOK, healthData{Status: status, Version: h.version}, requestID)
}
