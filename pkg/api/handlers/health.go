package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/singingbell/pkg/api/types"
)

// Connector reports whether the mallet driver is connected.
type Connector interface {
	IsConnected() bool
}

// Liveness reports whether the request loop is polling.
type Liveness interface {
	Alive() bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	actuator Connector
	loop     Liveness
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(actuator Connector, loop Liveness) *HealthHandler {
	return &HealthHandler{actuator: actuator, loop: loop}
}

// Health handles GET /health. It is answered directly, without waiting for the request loop.
// @Summary      Health check
// @Description  Reports actuator connectivity and whether the request loop is polling
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	actuatorStatus := "disconnected"
	if h.actuator.IsConnected() {
		actuatorStatus = "connected"
	}

	loopStatus := "stalled"
	if h.loop.Alive() {
		loopStatus = "running"
	}

	status := "healthy"
	httpStatus := http.StatusOK

	if actuatorStatus != "connected" || loopStatus != "running" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Actuator:  actuatorStatus,
		Loop:      loopStatus,
		Timestamp: time.Now(),
	})
}
