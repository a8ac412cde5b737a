package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db     Pinger
	cache  Pinger
	logger *zap.Logger
}

// NewHealthController takes a nil cache when Redis is not configured.
func NewHealthController(db, cache Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, cache: cache, logger: logger}
}

func (c *HealthController) Check(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "ok", "database": "ok", "cache": "disabled"}

	if err := c.db.Ping(reqCtx); err != nil {
		c.logger.Warn("health check: database unreachable", zap.Error(err))
		body["database"] = "unreachable"
		body["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	if c.cache != nil {
		body["cache"] = "ok"
		if err := c.cache.Ping(reqCtx); err != nil {
			c.logger.Warn("health check: cache unreachable", zap.Error(err))
			body["cache"] = "unreachable"
			body["status"] = "degraded"
		}
	}
	return ctx.JSON(status, body)
}
