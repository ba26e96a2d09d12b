// Package janitor runs scheduled maintenance jobs.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"eatery/config"
	"eatery/internal/delivery"
	"eatery/internal/usecase"
	"eatery/internal/util"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// purgeTimeout bounds one purge run.
const purgeTimeout = 5 * time.Minute

type janitor struct {
	schedule string
	auditUC  usecase.AuditUsecase
	logger   *slog.Logger
	cron     *cron.Cron
	done     chan struct{}
}

// Params holds dependencies for the janitor, injected by Fx
type Params struct {
	fx.In

	Lc      fx.Lifecycle
	Cfg     *config.Config
	Logger  *slog.Logger
	AuditUC usecase.AuditUsecase
}

// New creates the janitor that purges expired audit entries on audit.purgeSchedule.
func New(params Params) (delivery.Delivery, error) {
	j := &janitor{
		schedule: params.Cfg.Audit.PurgeSchedule,
		auditUC:  params.AuditUC,
		logger:   params.Logger,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		done:     make(chan struct{}),
	}

	if _, err := j.cron.AddFunc(j.schedule, j.purgeAudit); err != nil {
		return nil, errors.Wrapf(err, "invalid audit purge schedule %q", j.schedule)
	}

	params.Lc.Append(fx.Hook{
		OnStop: j.stop,
	})

	return j, nil
}

// Serve starts the scheduler and blocks until the janitor is stopped.
func (j *janitor) Serve(_ context.Context) error {
	j.cron.Start()
	j.logger.Info("Janitor started", slog.String("audit_purge_schedule", j.schedule))

	<-j.done

	return nil
}

func (j *janitor) purgeAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	start := time.Now()
	deleted, err := j.auditUC.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("Audit purge failed", slog.Any("error", err))

		return
	}

	j.logger.Info("Audit purge completed",
		slog.Int64("deleted", deleted),
		slog.String("took", util.FormatDuration(time.Since(start))),
	)
}

func (j *janitor) stop(ctx context.Context) error {
	j.logger.Info("Stopping janitor")
	defer close(j.done)

	// Wait for a running purge to finish, bounded by the stop hook.
	select {
	case <-j.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}
