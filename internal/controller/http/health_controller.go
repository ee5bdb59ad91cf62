package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fithub/fithub-onboarding/internal/dto/response"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthController serves liveness and readiness probes
type HealthController struct {
	checks []HealthCheck
}

// NewHealthController creates a new HealthController instance
func NewHealthController(checks ...HealthCheck) *HealthController {
	return &HealthController{checks: checks}
}

// RegisterRoutes registers the probe routes at the router root
func (c *HealthController) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", c.Health)
	router.GET("/ready", c.Ready)
}

// Health reports that the process is serving
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.HealthResponse{Status: response.HealthUp})
}

// Ready runs every dependency check and reports 503 if any fails
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Failure 503 {object} response.HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(ctx *gin.Context) {
	resp := response.HealthResponse{
		Status: response.HealthUp,
		Checks: make(map[string]string, len(c.checks)),
	}

	for _, check := range c.checks {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
		err := check.Check(checkCtx)
		cancel()

		if err != nil {
			resp.Status = response.HealthDown
			resp.Checks[check.Name] = err.Error()
			continue
		}
		resp.Checks[check.Name] = response.HealthUp
	}

	status := http.StatusOK
	if resp.Status != response.HealthUp {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, resp)
}
