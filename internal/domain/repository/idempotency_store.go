package repository

import (
	"context"

	"eatery/internal/domain/entity"
)

// IdempotencyStore keeps captured responses keyed by idempotency key.
type IdempotencyStore interface {
	// Get returns the stored record or nil when absent.
	Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error)

	// Put stores the record until its ExpiresAt.
	Put(ctx context.Context, record *entity.IdempotencyRecord) error
}
