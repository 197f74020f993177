package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Gin Middleware
// =============================================================================

// GinPrometheusMiddleware возвращает Gin middleware,
// который собирает метрики http_requests_total и http_request_duration_seconds
func GinPrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Пропускаем служебные endpoints
		if skipPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()

		HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
		defer HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := normalizePath(c.FullPath(), c.Request.URL.Path)

		HttpRequestsTotal.WithLabelValues(serviceName, c.Request.Method, path, status).Inc()
		HttpRequestDuration.WithLabelValues(serviceName, c.Request.Method, path).Observe(duration)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func skipPath(path string) bool {
	switch path {
	case "/metrics", "/health", "/health/readiness", "/health/liveness":
		return true
	}
	return false
}

// normalizePath возвращает шаблон маршрута (/api/properties/:slug) вместо
// реального пути, чтобы slug и ID не раздували кардинальность метрик
func normalizePath(route, path string) string {
	if route != "" {
		return route
	}

	// Маршрут не найден (404) - ограничиваем длину сырого пути
	if len(path) > 100 {
		path = path[:100]
	}

	return path
}
