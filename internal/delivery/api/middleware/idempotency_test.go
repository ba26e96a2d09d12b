package middleware

import (
	"net/http"
	"sync/atomic"
	"testing"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "create-restaurant-0001"

// countingHandler creates a resource per call and reports the call number.
func countingHandler(calls *atomic.Int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		n := calls.Add(1)

		return c.JSON(http.StatusCreated, map[string]any{"call": n, "id": uuid.NewString()})
	}
}

func TestIdempotencyMiddleware_ReplaysCapturedResponse(t *testing.T) {
	cfg := testConfig()
	e := newTestEcho(cfg)
	idem := newTestIdempotency(cfg)
	p := &entity.Principal{ID: uuid.New(), Role: entity.RoleAdmin, IsActive: true}

	var calls atomic.Int32
	e.POST("/restaurants", countingHandler(&calls), asPrincipal(p), idem.Handle)

	headers := map[string]string{HeaderIdempotencyKey: testKey}
	first := doRequest(t, e, http.MethodPost, "/restaurants", `{}`, headers)
	second := doRequest(t, e, http.MethodPost, "/restaurants", `{}`, headers)

	assert.EqualValues(t, 1, calls.Load(), "side effect happens once")
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get(echo.HeaderContentType), second.Header().Get(echo.HeaderContentType))
	assert.Empty(t, first.Header().Get(HeaderIdempotentReplayed))
	assert.Equal(t, "true", second.Header().Get(HeaderIdempotentReplayed))
}

func TestIdempotencyMiddleware_ScopesKeys(t *testing.T) {
	cfg := testConfig()
	e := newTestEcho(cfg)
	idem := newTestIdempotency(cfg)
	alice := &entity.Principal{ID: uuid.New(), Role: entity.RoleUser, IsActive: true}
	bob := &entity.Principal{ID: uuid.New(), Role: entity.RoleUser, IsActive: true}

	var calls atomic.Int32
	e.POST("/alice/reviews", countingHandler(&calls), asPrincipal(alice), idem.Handle)
	e.POST("/alice/other", countingHandler(&calls), asPrincipal(alice), idem.Handle)
	e.POST("/bob/reviews", countingHandler(&calls), asPrincipal(bob), idem.Handle)

	headers := map[string]string{HeaderIdempotencyKey: testKey}
	doRequest(t, e, http.MethodPost, "/alice/reviews", `{}`, headers)
	doRequest(t, e, http.MethodPost, "/alice/other", `{}`, headers)
	doRequest(t, e, http.MethodPost, "/bob/reviews", `{}`, headers)

	assert.EqualValues(t, 3, calls.Load(), "same key under another path or principal executes")
}

func TestIdempotencyMiddleware_FailuresAreNotStored(t *testing.T) {
	cfg := testConfig()
	e := newTestEcho(cfg)
	idem := newTestIdempotency(cfg)

	var calls atomic.Int32
	e.POST("/reviews", func(c echo.Context) error {
		if calls.Add(1) == 1 {
			return domainerrors.ErrDuplicateReview
		}

		return c.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}, idem.Handle)

	headers := map[string]string{HeaderIdempotencyKey: testKey}
	first := doRequest(t, e, http.MethodPost, "/reviews", `{}`, headers)
	require.Equal(t, http.StatusConflict, first.Code)
	assert.Contains(t, first.Body.String(), domainerrors.ErrDuplicateReview.ErrorCode())

	second := doRequest(t, e, http.MethodPost, "/reviews", `{}`, headers)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get(HeaderIdempotentReplayed))

	third := doRequest(t, e, http.MethodPost, "/reviews", `{}`, headers)
	assert.Equal(t, "true", third.Header().Get(HeaderIdempotentReplayed))
	assert.EqualValues(t, 2, calls.Load())
}

func TestIdempotencyMiddleware_Passthrough(t *testing.T) {
	tests := []struct {
		name      string
		disabled  bool
		method    string
		headers   map[string]string
		wantCalls int32
	}{
		{name: "no key", method: http.MethodPost, wantCalls: 2},
		{name: "safe method", method: http.MethodGet, headers: map[string]string{HeaderIdempotencyKey: testKey}, wantCalls: 2},
		{name: "disabled", disabled: true, method: http.MethodPatch, headers: map[string]string{HeaderIdempotencyKey: testKey}, wantCalls: 2},
		{name: "deduplicated", method: http.MethodDelete, headers: map[string]string{HeaderIdempotencyKey: testKey}, wantCalls: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Idempotency.Enabled = !tc.disabled
			e := newTestEcho(cfg)
			idem := newTestIdempotency(cfg)

			var calls atomic.Int32
			e.Add(tc.method, "/menus/1", func(c echo.Context) error {
				calls.Add(1)

				return c.NoContent(http.StatusNoContent)
			}, idem.Handle)

			for range 2 {
				rec := doRequest(t, e, tc.method, "/menus/1", "", tc.headers)
				require.Equal(t, http.StatusNoContent, rec.Code)
			}
			assert.Equal(t, tc.wantCalls, calls.Load())
		})
	}
}

func TestIdempotencyMiddleware_RejectsShortKey(t *testing.T) {
	cfg := testConfig()
	e := newTestEcho(cfg)
	idem := newTestIdempotency(cfg)

	var calls atomic.Int32
	e.POST("/restaurants", countingHandler(&calls), idem.Handle)

	rec := doRequest(t, e, http.MethodPost, "/restaurants", `{}`, map[string]string{HeaderIdempotencyKey: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), domainerrors.ErrInvalidIdempotencyKey.ErrorCode())
	assert.Zero(t, calls.Load())
}
