package postgres

import (
	"context"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// lifecycleTable owns the default read scoping and lifecycle writes of a soft-deletable
// table. Repositories embed it so SaveLifecycle and HardDelete come for free and every
// read goes through scoped.
type lifecycleTable[M any] struct {
	db       *gorm.DB
	notFound error
	// versioned tables bump their version column on every lifecycle write
	versioned bool
}

func newLifecycleTable[M any](db *gorm.DB, notFound error, versioned bool) lifecycleTable[M] {
	return lifecycleTable[M]{db: db, notFound: notFound, versioned: versioned}
}

// scoped starts a query on the table hiding inactive rows unless asked otherwise.
func (t lifecycleTable[M]) scoped(ctx context.Context, opts repository.QueryOptions) *gorm.DB {
	q := t.db.WithContext(ctx).Model(new(M))
	if !opts.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	return q
}

// first loads a row by id under the given scoping.
func (t lifecycleTable[M]) first(ctx context.Context, id uuid.UUID, opts repository.QueryOptions) (*M, error) {
	var m M
	if err := t.scoped(ctx, opts).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, t.notFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find record by id")
	}

	return &m, nil
}

// count counts rows matching the condition under the given scoping.
func (t lifecycleTable[M]) count(ctx context.Context, opts repository.QueryOptions, query string, args ...any) (int64, error) {
	var n int64
	if err := t.scoped(ctx, opts).Where(query, args...).Count(&n).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count records")
	}

	return n, nil
}

// SaveLifecycle writes the lifecycle columns only while the row still holds the expected
// active flag, status and, for versioned tables, version.
func (t lifecycleTable[M]) SaveLifecycle(ctx context.Context, change repository.LifecycleChange) error {
	state := change.State
	updates := map[string]any{
		"is_active":   state.IsActive,
		"status":      string(state.Status),
		"deleted_at":  state.DeletedAt,
		"deleted_by":  state.DeletedBy,
		"restored_at": state.RestoredAt,
		"restored_by": state.RestoredBy,
	}
	if t.versioned {
		updates["version"] = gorm.Expr("version + ?", 1)
	}

	q := t.db.WithContext(ctx).Model(new(M)).
		Where("id = ?", change.ID).
		Where("is_active = ? AND status = ?", change.Expected.IsActive, string(change.Expected.Status))
	if t.versioned {
		q = q.Where("version = ?", change.Version)
	}

	result := q.Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to save lifecycle state")
	}

	if result.RowsAffected == 0 {
		// Tell a missing row apart from one that moved on.
		exists, err := t.count(ctx, repository.QueryOptions{IncludeInactive: true}, "id = ?", change.ID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return t.notFound
		}
		if t.versioned {
			return repository.ErrVersionConflict
		}

		return repository.ErrStaleLifecycle
	}

	return nil
}

// HardDelete removes the row permanently.
func (t lifecycleTable[M]) HardDelete(ctx context.Context, id uuid.UUID) error {
	result := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return errors.WithStack(domainerrors.ErrHasActiveChildren)
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to hard delete record")
	}

	if result.RowsAffected == 0 {
		return t.notFound
	}

	return nil
}

// purgeInactive permanently removes the soft-deleted rows matching the condition.
func (t lifecycleTable[M]) purgeInactive(ctx context.Context, query string, args ...any) (int64, error) {
	result := t.db.WithContext(ctx).Where("is_active = ?", false).Where(query, args...).Delete(new(M))
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to purge inactive records")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toLifecycleDomain(c model.LifecycleColumns) entity.Lifecycle {
	return entity.Lifecycle{
		IsActive:   c.IsActive,
		Status:     entity.Status(c.Status),
		DeletedAt:  c.DeletedAt,
		DeletedBy:  c.DeletedBy,
		RestoredAt: c.RestoredAt,
		RestoredBy: c.RestoredBy,
	}
}

func fromLifecycleDomain(l entity.Lifecycle) model.LifecycleColumns {
	status := l.Status
	if status == "" {
		status = entity.StatusDraft
	}

	return model.LifecycleColumns{
		IsActive:   l.IsActive,
		Status:     string(status),
		DeletedAt:  l.DeletedAt,
		DeletedBy:  l.DeletedBy,
		RestoredAt: l.RestoredAt,
		RestoredBy: l.RestoredBy,
	}
}

// ensureID assigns a time-ordered id when the caller left it empty.
func ensureID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	generated, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "failed to generate id")
	}
	*id = generated

	return nil
}
