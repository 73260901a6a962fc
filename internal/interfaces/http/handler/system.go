package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencrm/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and liveness endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.Ping)
}

// HealthStatus represents the health check response payload
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Health godoc
// @ID           healthCheck
// @Summary      Health check
// @Description  Report service and database health
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthStatus
// @Failure      503 {object} HealthStatus
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.db.Ping(); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Ping godoc
// @ID           ping
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
