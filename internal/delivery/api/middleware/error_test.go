package middleware

import (
	"encoding/json"
	"net/http"
	"testing"

	"eatery/internal/delivery/api/response"
	domainerrors "eatery/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedBody struct {
	Name string `json:"name" validate:"required"`
}

func decodeError(t *testing.T, body []byte) *response.ErrorInfo {
	t.Helper()

	var payload response.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NotNil(t, payload.Error)

	return payload.Error
}

func TestErrorMiddleware_MapsKindsToStatus(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantKind    string
		wantDetails bool
	}{
		{name: "not found", err: domainerrors.ErrMenuNotFound, wantStatus: http.StatusNotFound, wantCode: "MENU_NOT_FOUND", wantKind: "NOT_FOUND"},
		{name: "conflict", err: errors.WithStack(domainerrors.ErrVersionConflict), wantStatus: http.StatusConflict, wantCode: "VERSION_CONFLICT", wantKind: "CONFLICT"},
		{name: "invalid input keeps details", err: domainerrors.ErrInvalidInput.WithDetails("name is required"), wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT", wantKind: "INVALID_INPUT", wantDetails: true},
		{name: "forbidden hides details", err: domainerrors.ErrForbidden.WithDetails("owner mismatch"), wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN", wantKind: "FORBIDDEN"},
		{name: "unauthenticated", err: domainerrors.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN", wantKind: "UNAUTHENTICATED"},
		{name: "unclassified", err: errors.New("dial tcp: refused"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR", wantKind: "INTERNAL"},
		{name: "echo error", err: echo.ErrMethodNotAllowed, wantStatus: http.StatusMethodNotAllowed, wantCode: "HTTP_ERROR", wantKind: "INTERNAL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(testConfig())
			e.GET("/fail", func(echo.Context) error { return tc.err })

			rec := doRequest(t, e, http.MethodGet, "/fail", "", nil)
			require.Equal(t, tc.wantStatus, rec.Code)

			info := decodeError(t, rec.Body.Bytes())
			assert.Equal(t, tc.wantCode, info.Code)
			assert.Equal(t, tc.wantKind, info.Kind)
			if tc.wantDetails {
				assert.NotNil(t, info.Details)
			} else {
				assert.Nil(t, info.Details)
			}
			assert.NotContains(t, info.Message, "dial tcp")
		})
	}
}

func TestErrorMiddleware_DebugExposesInternalMessage(t *testing.T) {
	cfg := testConfig()
	cfg.Env.Debug = true
	e := newTestEcho(cfg)
	e.GET("/fail", func(echo.Context) error { return errors.New("dial tcp: refused") })

	rec := doRequest(t, e, http.MethodGet, "/fail", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec.Body.Bytes()).Message, "dial tcp")
}

func TestErrorMiddleware_ValidationListsFields(t *testing.T) {
	e := newTestEcho(testConfig())
	e.POST("/things", func(c echo.Context) error {
		var body validatedBody
		if err := c.Bind(&body); err != nil {
			return err
		}

		return c.Validate(&body)
	})

	rec := doRequest(t, e, http.MethodPost, "/things", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	info := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "INVALID_INPUT", info.Code)
	assert.Equal(t, map[string]any{"name": "required"}, info.Details)
}
