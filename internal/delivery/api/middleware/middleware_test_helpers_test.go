package middleware

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eatery/config"
	"eatery/internal/delivery/api/validator"
	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	"eatery/internal/infra/idempotency"

	"github.com/labstack/echo/v4"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Idempotency: &config.IdempotencyConfig{
			Enabled:      true,
			TTL:          time.Hour,
			MinKeyLength: 8,
			MaxEntries:   100,
		},
	}
}

// newTestEcho wires the error handler and validator used in production.
func newTestEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(discardLogger(), cfg).HandleHTTPError
	e.Validator = validator.New()

	return e
}

func newTestIdempotency(cfg *config.Config) *IdempotencyMiddleware {
	store := idempotency.NewMemoryStore(cfg.Idempotency.MaxEntries, cfg.Idempotency.TTL)

	return NewIdempotencyMiddleware(IdempotencyMiddlewareParams{
		Cache:  idempotency.NewCache(store, cfg.Idempotency.TTL, discardLogger()),
		Config: cfg,
		Logger: discardLogger(),
	})
}

// asPrincipal stands in for Authenticate.
func asPrincipal(p *entity.Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p != nil {
				deliverycontext.SetPrincipal(c, p)
			}

			return next(c)
		}
	}
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

