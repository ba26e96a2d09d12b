package handler

import (
	"log/slog"
	"time"

	"eatery/internal/delivery/api/response"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuditHandlerParams holds dependencies for AuditHandler, injected by Fx.
type AuditHandlerParams struct {
	fx.In

	AuditUC usecase.AuditUsecase
	Logger  *slog.Logger
}

// AuditHandler exposes the audit trail
type AuditHandler struct {
	auditUC usecase.AuditUsecase
	logger  *slog.Logger
}

// NewAuditHandler is the constructor for AuditHandler
func NewAuditHandler(params AuditHandlerParams) *AuditHandler {
	return &AuditHandler{
		auditUC: params.AuditUC,
		logger:  params.Logger,
	}
}

// Query handles audit trail searches. from and to are RFC 3339 timestamps.
func (h *AuditHandler) Query(c echo.Context) error {
	var (
		input              usecase.AuditQueryInput
		entityType, action string
		entityID, actorID  string
	)
	err := echo.QueryParamsBinder(c).
		String("entity_type", &entityType).
		String("entity_id", &entityID).
		String("actor_id", &actorID).
		String("action", &action).
		Time("from", &input.From, time.RFC3339).
		Time("to", &input.To, time.RFC3339).
		Int("page", &input.Page).
		Int("page_size", &input.PageSize).
		BindError()
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("invalid query parameters"))
	}

	input.EntityType = entity.EntityType(entityType)
	input.Action = entity.AuditAction(action)
	if input.EntityID, err = optionalUUID(entityID); err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("invalid entity_id"))
	}
	if input.ActorID, err = optionalUUID(actorID); err != nil {
		return response.HandleAppError(c, domainerrors.ErrInvalidInput.WithDetails("invalid actor_id"))
	}

	page, err := h.auditUC.Query(c.Request().Context(), principal(c), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, page.Items, page.Page, page.PageSize, page.Total)
}

func optionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}

	return &id, nil
}
