package middleware

import (
	"log/slog"
	"net/http"

	"eatery/config"
	"eatery/internal/delivery/api/response"
	"eatery/internal/delivery/api/validator"
	deliverycontext "eatery/internal/delivery/context"
	domainerrors "eatery/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
		debug:  cfg.Env.Debug,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Kind() == domainerrors.KindInternal {
			logger.Error("Request failed", slog.Any("error", err), slog.String("code", appErr.ErrorCode()))
		}

		var details any
		if d := appErr.Details(); d != "" {
			details = d
		}
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details)

		return
	}

	if fields := validator.FieldErrors(err); fields != nil {
		_ = response.BadRequestWithDetails(c, domainerrors.ErrInvalidInput.ErrorCode(), domainerrors.ErrInvalidInput.Message(), fields)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	message := domainerrors.ErrInternal.Message()
	if m.debug {
		message = err.Error()
	}
	_ = response.InternalServerError(c, domainerrors.ErrInternal.ErrorCode(), message)
}
