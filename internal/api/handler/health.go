package handler

import (
	"context"
	"net/http"

	"github.com/fluxuro/uro-client-template-api/internal/api/response"
)

// Pinger reports liveness of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
func NewHealthHandler(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"database": "ok", "cache": "ok"}
		healthy := true

		if err := db.Ping(r.Context()); err != nil {
			status["database"] = "unreachable"
			healthy = false
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				status["cache"] = "unreachable"
				healthy = false
			}
		}

		if !healthy {
			response.Error(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
				"One or more dependencies are unavailable", status)
			return
		}
		response.JSON(w, status)
	}
}
