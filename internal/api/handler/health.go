package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/onewordstory/internal/api/response"
	"github.com/mcoot/onewordstory/internal/dependencies/clock"
)

// HealthHandler reports whether the service can reach its database
type HealthHandler struct {
	ping   func(ctx context.Context) error
	clock  clock.Clock
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ping func(ctx context.Context) error, clock clock.Clock, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, clock: clock, logger: logger}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		response.JSON(w, http.StatusServiceUnavailable, response.HealthResponse{Status: "unavailable", Timestamp: h.clock.Now()})
		return
	}
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok", Timestamp: h.clock.Now()})
}
