package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck проверяет доступность одной зависимости
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	serviceName string
	checks      map[string]HealthCheck
	timeout     time.Duration
}

func NewHealthHandler(serviceName string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		checks:      checks,
		timeout:     5 * time.Second,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.serviceName,
	})
}

// Readiness опрашивает все зависимости; хотя бы одна недоступна - 503
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(h.checks))
	overallStatus := "healthy"
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			overallStatus = "unhealthy"
		} else {
			checks[name] = "healthy"
		}
	}

	status := http.StatusOK
	if overallStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "alive")
}
