package middleware

import (
	"log/slog"

	"eatery/internal/delivery/api/response"
	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/policy"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PermissionMiddlewareParams holds dependencies for PermissionMiddleware, injected by Fx.
type PermissionMiddlewareParams struct {
	fx.In

	Guard  *policy.Guard
	Logger *slog.Logger
}

// PermissionMiddleware rejects requests whose role lacks a capability before any handler work.
type PermissionMiddleware struct {
	guard  *policy.Guard
	logger *slog.Logger
}

// NewPermissionMiddleware creates a new permission middleware.
func NewPermissionMiddleware(params PermissionMiddlewareParams) *PermissionMiddleware {
	return &PermissionMiddleware{
		guard:  params.Guard,
		logger: params.Logger,
	}
}

// Require passes when the principal's role holds at least one of actions on res.
// It must run after Authenticate.
func (m *PermissionMiddleware) Require(res policy.Resource, actions ...policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := deliverycontext.GetPrincipal(c)
			if err := m.guard.AuthorizeAny(p, res, actions...); err != nil {
				deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Debug("Permission denied",
					slog.String("resource", string(res)),
					slog.String("path", c.Path()),
				)

				return response.HandleAppError(c, err)
			}

			return next(c)
		}
	}
}
