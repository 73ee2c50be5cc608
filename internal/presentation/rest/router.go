package rest

import (
	"log/slog"
	"net/http"
)

// NewRouter mounts the analysis, health and metrics endpoints behind the
// recovery and logging middleware. metrics may be nil.
func NewRouter(scam *ScamHandler, health *HealthHandler, metrics http.Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	scam.RegisterRoutes(mux)
	health.RegisterRoutes(mux)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	var handler http.Handler = mux
	handler = RecoveryMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	return handler
}
