package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ramenshop/backend/internal/infrastructure/logger"
	"github.com/ramenshop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger is a dependency whose liveness /health reports
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// PingContext calls f
func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

// SystemHandler serves health, readiness and build information
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	db        Pinger
	cache     Pinger
}

// NewSystemHandler creates a new SystemHandler. cache may be nil.
func NewSystemHandler(name, version string, db, cache Pinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		db:        db,
		cache:     cache,
	}
}

// HealthResponse reports each dependency as ok or error
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Time     string `json:"time" example:"2026-03-14T12:00:00Z"`
	Database string `json:"database" example:"ok"`
	Cache    string `json:"cache,omitempty" example:"ok"`
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Ramen Shop API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @ID           health
// @Summary      Liveness with dependency checks
// @Description  503 when the database does not answer. A failing cache only degrades the status.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	log := logger.GetGinLogger(c)

	resp := HealthResponse{Status: "healthy", Time: time.Now().UTC().Format(time.RFC3339), Database: "ok"}
	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Warn("Health check failed", zap.String("dependency", "database"), zap.Error(err))
		resp.Status, resp.Database = "unhealthy", "error"
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.PingContext(ctx); err != nil {
			log.Warn("Health check failed", zap.String("dependency", "cache"), zap.Error(err))
			resp.Cache = "error"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}
	c.JSON(status, resp)
}

// Ready godoc
// @ID           ready
// @Summary      Readiness
// @Description  Answers as soon as the server accepts requests
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Info godoc
// @ID           getSystemInfo
// @Summary      Build information
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}
