package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eatery/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandlerParams holds dependencies for HealthHandler, injected by Fx.
type HealthHandlerParams struct {
	fx.In

	DB     *gorm.DB
	Logger *slog.Logger
}

// HealthHandler reports whether the service can reach its database
type HealthHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{
		db:     params.DB,
		logger: params.Logger,
	}
}

// Health is a public liveness and readiness probe
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logger.Warn("Health check failed", slog.Any("error", err))

		return response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable", nil)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

