package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	embedder Pinger
	provider Pinger
	logger   *zap.Logger
}

func NewHealthHandler(embedder, provider Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		embedder: embedder,
		provider: provider,
		logger:   logger,
	}
}

// Healthz serves GET /healthz. Any failing dependency degrades the whole
// service to 503 so load balancers stop routing to it.
func (h *HealthHandler) Healthz(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	deps := map[string]Pinger{
		"embedder": h.embedder,
		"provider": h.provider,
	}
	for name, dep := range deps {
		if dep == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := dep.Ping(ctx)
		cancel()

		if err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
