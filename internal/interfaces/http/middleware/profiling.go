package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ramenshop/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips probes and swagger
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/ready"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling attaches route, method and area pprof labels to the request,
// so Pyroscope flame graphs can be split per endpoint.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if slices.Contains(cfg.SkipPaths, path) || slices.ContainsFunc(cfg.SkipPathPrefixes, func(p string) bool {
			return strings.HasPrefix(path, p)
		}) {
			c.Next()
			return
		}

		route := c.FullPath()
		labels := map[string]string{
			telemetry.LabelMethod: c.Request.Method,
			telemetry.LabelRoute:  route,
			telemetry.LabelArea:   routeArea(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// routeArea returns the first meaningful segment of a route pattern:
// "/api/v1/fridges/:id/stock" is "fridges", "/timeclock/qr" is "timeclock".
func routeArea(route string) string {
	route = strings.TrimPrefix(route, "/api/v1")
	for seg := range strings.SplitSeq(route, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		return seg
	}
	return ""
}
