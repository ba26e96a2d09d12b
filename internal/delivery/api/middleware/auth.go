package middleware

import (
	"log/slog"
	"strings"

	"eatery/internal/delivery/api/response"
	deliverycontext "eatery/internal/delivery/context"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddlewareParams defines the dependencies for AuthMiddleware
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	UserRepo     repository.UserRepository
	Logger       *slog.Logger
}

// AuthMiddleware turns a bearer token into the principal of the request.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: params.TokenService,
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

// Authenticate validates the access token and loads the account it names.
// Role and activation come from storage, never from the token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.HandleAppError(c, domainerrors.ErrUnauthenticated)
		}

		tokenString, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || tokenString == "" {
			return response.HandleAppError(c, domainerrors.ErrInvalidToken)
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.HandleAppError(c, domainerrors.ErrInvalidToken)
		}

		ctx := c.Request().Context()
		user, err := m.userRepo.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return response.HandleAppError(c, domainerrors.ErrInvalidToken)
			}

			return errors.Wrap(err, "failed to load principal")
		}
		if !user.IsActive {
			return response.HandleAppError(c, domainerrors.ErrAccountInactive)
		}

		principal := user.Principal()
		deliverycontext.SetPrincipal(c, principal)

		logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger).With(slog.String("user_id", principal.ID.String()))
		c.SetRequest(c.Request().WithContext(deliverycontext.WithLogger(ctx, logger)))

		return next(c)
	}
}
