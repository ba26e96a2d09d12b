package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"

	"eatery/config"
	"eatery/internal/delivery/api/response"
	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/constants"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/infra/idempotency"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	// HeaderIdempotencyKey carries the client supplied deduplication key.
	HeaderIdempotencyKey = constants.HeaderIdempotencyKey
	// HeaderIdempotentReplayed marks a response served from the cache.
	HeaderIdempotentReplayed = constants.HeaderIdempotentReplayed

	anonymousScope = "anonymous"
)

// IdempotencyMiddlewareParams defines the dependencies for IdempotencyMiddleware
type IdempotencyMiddlewareParams struct {
	fx.In

	Cache  *idempotency.Cache
	Config *config.Config
	Logger *slog.Logger
}

// IdempotencyMiddleware replays the captured response of a repeated mutating request.
type IdempotencyMiddleware struct {
	cache        *idempotency.Cache
	enabled      bool
	minKeyLength int
	logger       *slog.Logger
}

// NewIdempotencyMiddleware creates a new idempotency middleware
func NewIdempotencyMiddleware(params IdempotencyMiddlewareParams) *IdempotencyMiddleware {
	cfg := params.Config.Idempotency

	return &IdempotencyMiddleware{
		cache:        params.Cache,
		enabled:      cfg.Enabled,
		minKeyLength: cfg.MinKeyLength,
		logger:       params.Logger,
	}
}

// Handle deduplicates POST, PUT, PATCH and DELETE requests carrying an Idempotency-Key.
// Keys are scoped to the principal, method and path so two callers never share a replay.
func (m *IdempotencyMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if !m.enabled || !isMutating(req.Method) {
			return next(c)
		}

		key := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
		if key == "" {
			return next(c)
		}
		if len(key) < m.minKeyLength {
			return response.HandleAppError(c, domainerrors.ErrInvalidIdempotencyKey.WithDetails("key is too short"))
		}

		record, replayed, err := m.cache.Dedupe(req.Context(), m.scopedKey(c, key), func(_ context.Context) (*entity.IdempotencyRecord, error) {
			return m.capture(c, next), nil
		})
		if err != nil {
			return errors.Wrap(err, "idempotent execution failed")
		}
		if !replayed {
			return nil
		}

		deliverycontext.GetLoggerOrDefault(req.Context(), m.logger).Debug("Replaying idempotent response",
			slog.String("key", key),
			slog.Int("status", record.StatusCode),
		)
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")

		return c.Blob(record.StatusCode, record.ContentType, record.Body)
	}
}

// capture runs next while teeing the response into a record. Handler errors are
// rendered here so their status is captured and the cache can decide not to store it.
func (m *IdempotencyMiddleware) capture(c echo.Context, next echo.HandlerFunc) *entity.IdempotencyRecord {
	res := c.Response()
	writer := &captureWriter{ResponseWriter: res.Writer}
	res.Writer = writer
	defer func() { res.Writer = writer.ResponseWriter }()

	if err := next(c); err != nil {
		c.Error(err)
	}

	return &entity.IdempotencyRecord{
		StatusCode:  res.Status,
		ContentType: res.Header().Get(echo.HeaderContentType),
		Body:        writer.body.Bytes(),
	}
}

func (m *IdempotencyMiddleware) scopedKey(c echo.Context, key string) string {
	scope := anonymousScope
	if p, ok := deliverycontext.GetPrincipal(c); ok {
		scope = p.ID.String()
	}

	return strings.Join([]string{scope, c.Request().Method, c.Request().URL.Path, key}, "|")
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// captureWriter copies everything written to the client.
type captureWriter struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)

	return w.ResponseWriter.Write(b)
}
