package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouteArea(t *testing.T) {
	tests := map[string]string{
		"/api/v1/fridges/:id/stock":  "fridges",
		"/api/v1/products":           "products",
		"/employee/time-tracking":    "employee",
		"/timeclock/qr":              "timeclock",
		"/api/v1/:weird":             "",
		"":                           "",
		"/swagger/*any":              "swagger",
	}
	for route, want := range tests {
		assert.Equal(t, want, routeArea(route), route)
	}
}

func TestProfiling_AddsLabels(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(DefaultProfilingConfig()))

	labels := map[string]string{}
	record := func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			labels[k] = v
			return true
		})
		c.Status(http.StatusOK)
	}
	router.GET("/api/v1/orders/:id", record)
	router.GET("/health", record)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/123", nil))
	assert.Equal(t, "/api/v1/orders/:id", labels["route"])
	assert.Equal(t, "GET", labels["method"])
	assert.Equal(t, "orders", labels["area"])

	clear(labels)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, labels, "probes are skipped")
}

func TestProfiling_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(ProfilingConfig{}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
