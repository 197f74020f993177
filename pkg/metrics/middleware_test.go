package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/properties/:slug", normalizePath("/api/properties/:slug", "/api/properties/camden"))
	assert.Equal(t, "/unknown", normalizePath("", "/unknown"))
	assert.Len(t, normalizePath("", "/"+strings.Repeat("a", 200)), 100)
}

func TestGinPrometheusMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-test"))
	router.GET("/api/properties/:slug", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, slug := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/properties/"+slug, nil)
		router.ServeHTTP(w, req)
	}

	counter := HttpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "/api/properties/:slug", "200")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}

func TestGinPrometheusMiddleware_SkipsHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-skip-test"))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	counter := HttpRequestsTotal.WithLabelValues("metrics-skip-test", http.MethodGet, "/health", "200")
	assert.Equal(t, float64(0), testutil.ToFloat64(counter))
}

func TestRecordApprovalChange(t *testing.T) {
	before := testutil.ToFloat64(ReviewApprovalChanges.WithLabelValues("approved"))
	RecordApprovalChange(true)
	assert.Equal(t, before+1, testutil.ToFloat64(ReviewApprovalChanges.WithLabelValues("approved")))
}
