package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger  *zap.Logger
	engines map[string]bool
}

// NewHealthHandler creates a new HealthHandler. engines maps engine names
// to their readiness at startup.
func NewHealthHandler(logger *zap.Logger, engines map[string]bool) *HealthHandler {
	return &HealthHandler{logger: logger, engines: engines}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	engines := gin.H{}
	for name, ready := range h.engines {
		state := "ok"
		if !ready {
			state = "unavailable"
		}
		engines[name] = state
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"engines": engines,
	})
}
