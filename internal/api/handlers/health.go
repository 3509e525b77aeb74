package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/linkflow-ai/mathnodes/internal/api/dto"
)

// HealthCheck pings a backing service.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	service string
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  make(map[string]HealthCheck),
		timeout: 2 * time.Second,
	}
}

// AddCheck registers a dependency probed by Health and Ready.
func (h *HealthHandler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := h.run(r.Context(), check); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	dto.JSON(w, statusCode, map[string]interface{}{
		"status":  status,
		"service": h.service,
		"checks":  checks,
	})
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	dto.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.run(r.Context(), h.checks[name]); err != nil {
			dto.ErrorResponse(w, http.StatusServiceUnavailable, name+" not ready: "+err.Error())
			return
		}
	}

	dto.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) run(ctx context.Context, check HealthCheck) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return check(ctx)
}
