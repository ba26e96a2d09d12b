package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/policy"
	"eatery/internal/domain/repository"
	"eatery/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// auditService implements the AuditUsecase interface.
type auditService struct {
	auditRepo repository.AuditRepository
	guard     *policy.Guard
	logger    *slog.Logger
	now       func() time.Time
}

// AuditServiceParams holds dependencies for AuditService, injected by Fx.
type AuditServiceParams struct {
	fx.In

	AuditRepo repository.AuditRepository
	Guard     *policy.Guard
	Logger    *slog.Logger
}

// NewAuditService is the constructor for auditService.
func NewAuditService(params AuditServiceParams) usecase.AuditUsecase {
	return &auditService{
		auditRepo: params.AuditRepo,
		guard:     params.Guard,
		logger:    params.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Query returns one page of the audit trail, newest first.
func (srv *auditService) Query(ctx context.Context, p *entity.Principal, input usecase.AuditQueryInput) (*entity.AuditPage, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceAudit); err != nil {
		return nil, err
	}
	if !input.From.IsZero() && !input.To.IsZero() && input.To.Before(input.From) {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("to must not be before from"))
	}

	page := repository.Pagination{Page: input.Page, PageSize: input.PageSize}.Normalize()
	items, total, err := srv.auditRepo.Query(ctx, repository.AuditFilter{
		Pagination: page,
		Span:       repository.Span{From: input.From, To: input.To},
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		ActorID:    input.ActorID,
		Action:     input.Action,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to query audit entries")
	}

	return &entity.AuditPage{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

// PurgeExpired removes entries whose retention has passed.
func (srv *auditService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := srv.auditRepo.DeleteExpired(ctx, srv.now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge expired audit entries")
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Purged expired audit entries", slog.Int64("deleted", deleted))

	return deleted, nil
}
