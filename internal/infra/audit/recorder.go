// Package audit records best-effort audit entries and fans them out as domain events.
package audit

import (
	"context"
	"log/slog"
	"time"

	"eatery/config"
	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	"eatery/internal/domain/repository"
	"eatery/internal/domain/service"
	"eatery/internal/util"

	"go.uber.org/fx"
)

// RecorderParams holds dependencies for Recorder, injected by Fx
type RecorderParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Repo      repository.AuditRepository
	Publisher service.EventPublisher
}

// Recorder implements service.AuditRecorder. It never fails its caller: write and
// publish errors are logged at WARN and dropped.
type Recorder struct {
	repo      repository.AuditRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time
}

// NewRecorder creates the audit recorder.
func NewRecorder(params RecorderParams) service.AuditRecorder {
	retention := entity.AuditRetention
	if params.Config != nil && params.Config.Audit != nil && params.Config.Audit.Retention > 0 {
		retention = params.Config.Audit.Retention
	}

	return &Recorder{
		repo:      params.Repo,
		publisher: params.Publisher,
		logger:    params.Logger,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record stores entry through tx when it is non-nil, otherwise through the standalone
// repository. Events for transactional writes are published only after commit.
func (r *Recorder) Record(ctx context.Context, tx repository.RepositoryFactory, entry *entity.AuditEntry) {
	if entry == nil {
		return
	}
	logger := deliverycontext.GetLoggerOrDefault(ctx, r.logger)

	r.prepare(ctx, entry)

	repo := r.repo
	if tx != nil {
		repo = tx.NewAuditRepository()
	}

	if err := repo.Append(ctx, entry); err != nil {
		logger.Warn("Failed to record audit entry",
			slog.String("entity_type", string(entry.EntityType)),
			slog.String("action", string(entry.Action)),
			slog.Any("error", err),
		)

		return
	}

	event := entity.NewAuditEvent(entry)
	if tx != nil {
		// The request context may be gone by the time the hook runs.
		publishCtx := context.WithoutCancel(ctx)
		tx.OnCommit(func() { r.publish(publishCtx, logger, event) })

		return
	}
	r.publish(ctx, logger, event)
}

// prepare sanitizes the snapshots, derives the field diff and stamps request metadata.
func (r *Recorder) prepare(ctx context.Context, entry *entity.AuditEntry) {
	entry.Before = util.Sanitize(entry.Before)
	entry.After = util.Sanitize(entry.After)
	if entry.Changes == nil && entry.Before != nil && entry.After != nil {
		entry.Changes = util.Diff(entry.Before, entry.After)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	entry.ExpiresAt = entry.CreatedAt.Add(r.retention)

	if entry.RequestID == "" {
		entry.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}
	if entry.IPAddress == "" {
		entry.IPAddress = deliverycontext.GetClientIPFromContext(ctx)
	}
}

func (r *Recorder) publish(ctx context.Context, logger *slog.Logger, event *entity.AuditEvent) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishAuditEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish audit event",
			slog.String("entry_id", event.EntryID.String()),
			slog.Any("error", err),
		)
	}
}
