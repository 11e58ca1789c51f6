package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hoopsline/wnba-updates/pkg/logger"
)

// Response is the /healthz body
type Response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Jobs      []string  `json:"jobs"`
}

// Handler handles health check requests
type Handler struct {
	jobs   func() []string
	logger *logger.Logger
}

// NewHandler creates a health handler reporting the names jobs returns
func NewHandler(jobs func() []string, log *logger.Logger) *Handler {
	return &Handler{
		jobs:   jobs,
		logger: log,
	}
}

// HealthCheck handles the /healthz endpoint
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	response := Response{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Jobs:      h.jobs(),
	}
	if len(response.Jobs) == 0 {
		response.Status = "no_jobs"
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "health_check_failed").
			Str("endpoint", "/healthz").
			Msg("Failed to encode health response")
		return
	}

	h.logger.Debug().
		Str("action", "health_check").
		Str("endpoint", "/healthz").
		Str("method", r.Method).
		Str("remote_addr", r.RemoteAddr).
		Dur("duration", time.Since(start)).
		Msg("Health check completed")
}
