package repository

import (
	"context"
	"time"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
)

// AuditFilter narrows audit queries. Zero values do not filter.
type AuditFilter struct {
	Pagination
	Span
	EntityType entity.EntityType
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	Action     entity.AuditAction
}

// AuditRepository is append-only storage for audit entries.
type AuditRepository interface {
	// Append stores an entry. It never updates existing rows.
	Append(ctx context.Context, entry *entity.AuditEntry) error

	// Query returns matching entries newest first together with the total match count.
	Query(ctx context.Context, filter AuditFilter) ([]*entity.AuditEntry, int64, error)

	// DeleteExpired purges entries whose ExpiresAt is not after now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
