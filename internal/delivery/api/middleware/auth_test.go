package middleware

import (
	"net/http"
	"testing"

	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/domain/service"
	mockRepo "eatery/internal/mocks/repository"
	mockSvc "eatery/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixtures struct {
	e            *echo.Echo
	tokenService *mockSvc.MockTokenService
	userRepo     *mockRepo.MockUserRepository
	seen         *entity.Principal
}

func newAuthFixtures(t *testing.T) *authFixtures {
	fx := &authFixtures{
		e:            newTestEcho(testConfig()),
		tokenService: mockSvc.NewMockTokenService(t),
		userRepo:     mockRepo.NewMockUserRepository(t),
	}

	auth := NewAuthMiddleware(AuthMiddlewareParams{
		TokenService: fx.tokenService,
		UserRepo:     fx.userRepo,
		Logger:       discardLogger(),
	})
	fx.e.GET("/me", func(c echo.Context) error {
		p, ok := deliverycontext.GetPrincipal(c)
		require.True(t, ok)
		fx.seen = p

		return c.NoContent(http.StatusOK)
	}, auth.Authenticate)

	return fx
}

func TestAuthMiddleware_Authenticate_LoadsPrincipalFromStorage(t *testing.T) {
	fx := newAuthFixtures(t)
	restaurantID := uuid.New()
	user := &entity.User{ID: uuid.New(), Role: entity.RoleAdmin, OwnedRestaurantID: &restaurantID, IsActive: true}

	// The token claims a stale role; the stored one wins.
	fx.tokenService.EXPECT().ValidateToken("good.token").Return(&service.Claims{UserID: user.ID, Role: "user"}, nil)
	fx.userRepo.EXPECT().FindByID(mock.Anything, user.ID).Return(user, nil)

	rec := doRequest(t, fx.e, http.MethodGet, "/me", "", map[string]string{echo.HeaderAuthorization: "Bearer good.token"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fx.seen)
	assert.Equal(t, user.ID, fx.seen.ID)
	assert.Equal(t, entity.RoleAdmin, fx.seen.Role)
	require.NotNil(t, fx.seen.OwnedRestaurantID)
	assert.Equal(t, restaurantID, *fx.seen.OwnedRestaurantID)
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		header   string
		setup    func(fx *authFixtures)
		wantCode string
	}{
		{
			name:     "missing header",
			wantCode: domainerrors.ErrUnauthenticated.ErrorCode(),
		},
		{
			name:     "not a bearer token",
			header:   "Basic dXNlcjpwYXNz",
			wantCode: domainerrors.ErrInvalidToken.ErrorCode(),
		},
		{
			name:   "invalid token",
			header: "Bearer expired",
			setup: func(fx *authFixtures) {
				fx.tokenService.EXPECT().ValidateToken("expired").Return(nil, errors.New("token is expired"))
			},
			wantCode: domainerrors.ErrInvalidToken.ErrorCode(),
		},
		{
			name:   "deleted account",
			header: "Bearer orphan",
			setup: func(fx *authFixtures) {
				fx.tokenService.EXPECT().ValidateToken("orphan").Return(&service.Claims{UserID: userID}, nil)
				fx.userRepo.EXPECT().FindByID(mock.Anything, userID).Return(nil, repository.ErrUserNotFound)
			},
			wantCode: domainerrors.ErrInvalidToken.ErrorCode(),
		},
		{
			name:   "deactivated account",
			header: "Bearer inactive",
			setup: func(fx *authFixtures) {
				fx.tokenService.EXPECT().ValidateToken("inactive").Return(&service.Claims{UserID: userID}, nil)
				fx.userRepo.EXPECT().FindByID(mock.Anything, userID).Return(&entity.User{ID: userID, Role: entity.RoleUser}, nil)
			},
			wantCode: domainerrors.ErrAccountInactive.ErrorCode(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := newAuthFixtures(t)
			if tc.setup != nil {
				tc.setup(fx)
			}

			headers := map[string]string{}
			if tc.header != "" {
				headers[echo.HeaderAuthorization] = tc.header
			}
			rec := doRequest(t, fx.e, http.MethodGet, "/me", "", headers)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantCode)
			assert.Nil(t, fx.seen)
		})
	}
}

func TestAuthMiddleware_Authenticate_StorageFailure(t *testing.T) {
	fx := newAuthFixtures(t)
	userID := uuid.New()

	fx.tokenService.EXPECT().ValidateToken("good.token").Return(&service.Claims{UserID: userID}, nil)
	fx.userRepo.EXPECT().FindByID(mock.Anything, userID).Return(nil, errors.New("connection refused"))

	rec := doRequest(t, fx.e, http.MethodGet, "/me", "", map[string]string{echo.HeaderAuthorization: "Bearer good.token"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
