package rest

import (
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// HealthHandler provides HTTP health check endpoints for the scam service.
type HealthHandler struct {
	logger     *slog.Logger
	startTime  time.Time
	configured map[string]bool
}

// NewHealthHandler creates a new health check handler. configured lists each
// collaborator and whether it is wired.
func NewHealthHandler(configured map[string]bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:     logger,
		startTime:  time.Now(),
		configured: configured,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Checks       map[string]string `json:"checks"`
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Unconfigured []string          `json:"unconfigured"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Uptime:  time.Since(h.startTime).String(),
	})
}

// Readyz handles readiness probe requests. The service is always ready: an
// unconfigured collaborator only degrades its signal.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	checks := make(map[string]string, len(h.configured))
	unconfigured := make([]string, 0)
	for name, ok := range h.configured {
		if ok {
			checks[name] = "configured"
			continue
		}
		checks[name] = "not_configured"
		unconfigured = append(unconfigured, name)
	}
	sort.Strings(unconfigured)

	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status:       "ready",
		Service:      serviceName,
		Checks:       checks,
		Unconfigured: unconfigured,
	})
}
