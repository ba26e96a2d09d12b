package postgres

import (
	"context"
	"time"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// auditRepository implements the append-only repository.AuditRepository interface.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// Append stores an entry. When db is a transaction the insert runs inside a savepoint,
// so a failed insert is rolled back alone and the surrounding transaction stays usable.
func (repo *auditRepository) Append(ctx context.Context, entry *entity.AuditEntry) error {
	if err := ensureID(&entry.ID); err != nil {
		return err
	}

	entryM := fromAuditDomain(entry)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entryM).Error
	})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append audit entry")
	}

	return nil
}

// Query returns matching entries newest first.
func (repo *auditRepository) Query(ctx context.Context, filter repository.AuditFilter) ([]*entity.AuditEntry, int64, error) {
	q := repo.db.WithContext(ctx).Model(&model.AuditEntryModel{})

	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", string(filter.EntityType))
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.ActorID != nil {
		q = q.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", string(filter.Action))
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at <= ?", filter.To.UTC())
	}

	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count audit entries")
	}

	p := filter.Pagination.Normalize()
	var entryModels []*model.AuditEntryModel
	if err := base.
		Order("created_at DESC").
		Order("id DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&entryModels).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to query audit entries")
	}

	entries := make([]*entity.AuditEntry, 0, len(entryModels))
	for _, entryM := range entryModels {
		entries = append(entries, toAuditDomain(entryM))
	}

	return entries, total, nil
}

// DeleteExpired purges entries whose ExpiresAt is not after now.
func (repo *auditRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&model.AuditEntryModel{})

	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to purge audit entries")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toAuditDomain(data *model.AuditEntryModel) *entity.AuditEntry {
	if data == nil {
		return nil
	}

	return &entity.AuditEntry{
		ID:         data.ID,
		ActorID:    data.ActorID,
		ActorRole:  entity.Role(data.ActorRole),
		EntityType: entity.EntityType(data.EntityType),
		EntityID:   data.EntityID,
		Action:     entity.AuditAction(data.Action),
		Before:     data.Before,
		After:      data.After,
		Changes:    data.Changes,
		IPAddress:  data.IPAddress,
		RequestID:  data.RequestID,
		CreatedAt:  data.CreatedAt,
		ExpiresAt:  data.ExpiresAt,
	}
}

func fromAuditDomain(data *entity.AuditEntry) *model.AuditEntryModel {
	if data == nil {
		return nil
	}

	return &model.AuditEntryModel{
		ID:         data.ID,
		ActorID:    data.ActorID,
		ActorRole:  data.ActorRole.String(),
		EntityType: string(data.EntityType),
		EntityID:   data.EntityID,
		Action:     string(data.Action),
		Before:     data.Before,
		After:      data.After,
		Changes:    data.Changes,
		IPAddress:  data.IPAddress,
		RequestID:  data.RequestID,
		CreatedAt:  data.CreatedAt,
		ExpiresAt:  data.ExpiresAt,
	}
}

