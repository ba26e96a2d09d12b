package middleware

import (
	"net/http"
	"testing"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/policy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPermissionMiddleware_Require(t *testing.T) {
	gate := NewPermissionMiddleware(PermissionMiddlewareParams{
		Guard:  policy.NewGuard(policy.DefaultTable()),
		Logger: discardLogger(),
	})

	tests := []struct {
		name       string
		principal  *entity.Principal
		actions    []policy.Action
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "anonymous",
			actions:    []policy.Action{policy.ActionCreate},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "diner creating a restaurant",
			principal:  &entity.Principal{ID: uuid.New(), Role: entity.RoleUser, IsActive: true},
			actions:    []policy.Action{policy.ActionCreate},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin creating a restaurant",
			principal:  &entity.Principal{ID: uuid.New(), Role: entity.RoleAdmin, IsActive: true},
			actions:    []policy.Action{policy.ActionCreate},
			wantStatus: http.StatusCreated,
			wantCalled: true,
		},
		{
			name:       "admin hard deleting",
			principal:  &entity.Principal{ID: uuid.New(), Role: entity.RoleAdmin, IsActive: true},
			actions:    []policy.Action{policy.ActionHardDelete},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "any of several actions",
			principal:  &entity.Principal{ID: uuid.New(), Role: entity.RoleAdmin, IsActive: true},
			actions:    []policy.Action{policy.ActionHardDelete, policy.ActionUpdate},
			wantStatus: http.StatusCreated,
			wantCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(testConfig())
			called := false
			e.POST("/restaurants", func(c echo.Context) error {
				called = true

				return c.NoContent(http.StatusCreated)
			}, asPrincipal(tc.principal), gate.Require(policy.ResourceRestaurant, tc.actions...))

			rec := doRequest(t, e, http.MethodPost, "/restaurants", `{}`, nil)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, called)
		})
	}
}

func TestPermissionMiddleware_ForbiddenIsNotCached(t *testing.T) {
	cfg := testConfig()
	gate := NewPermissionMiddleware(PermissionMiddlewareParams{
		Guard:  policy.NewGuard(policy.DefaultTable()),
		Logger: discardLogger(),
	})
	idem := newTestIdempotency(cfg)

	principalID := uuid.New()
	role := entity.RoleUser
	switchable := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return asPrincipal(&entity.Principal{ID: principalID, Role: role, IsActive: true})(next)(c)
		}
	}

	e := newTestEcho(cfg)
	e.POST("/restaurants", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]string{"ok": "yes"})
	}, switchable, gate.Require(policy.ResourceRestaurant, policy.ActionCreate), idem.Handle)

	headers := map[string]string{HeaderIdempotencyKey: "key-0123456789"}

	rec := doRequest(t, e, http.MethodPost, "/restaurants", `{}`, headers)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	role = entity.RoleAdmin
	rec = doRequest(t, e, http.MethodPost, "/restaurants", `{}`, headers)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get(HeaderIdempotentReplayed))
}
