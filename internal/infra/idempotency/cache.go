// Package idempotency replays captured responses for repeated mutating requests.
package idempotency

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	"eatery/internal/domain/repository"

	"golang.org/x/sync/singleflight"
)

// ExecuteFunc runs the protected operation and returns its captured response.
type ExecuteFunc func(ctx context.Context) (*entity.IdempotencyRecord, error)

// Cache deduplicates executions by key. Only success-class results are stored, so a
// failed attempt can be retried with the same key.
type Cache struct {
	store  repository.IdempotencyStore
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time
}

// NewCache creates a cache over store. Stored records live for ttl.
func NewCache(store repository.IdempotencyStore, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Dedupe executes fn at most once per key while a stored record is live. It returns
// the record and whether it was replayed rather than produced by this call. An empty
// key always executes. Concurrent calls with the same key share one execution; a
// caller that waited on a flight which did not succeed executes again itself.
func (c *Cache) Dedupe(ctx context.Context, key string, fn ExecuteFunc) (*entity.IdempotencyRecord, bool, error) {
	if key == "" {
		record, err := fn(ctx)

		return record, false, err
	}

	if record := c.lookup(ctx, key); record != nil {
		return record, true, nil
	}

	for {
		ran := false
		v, err, _ := c.group.Do(key, func() (any, error) {
			// A flight that finished between lookup and Do has already stored its result.
			if record := c.lookup(ctx, key); record != nil {
				return record, nil
			}

			ran = true
			record, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			c.save(ctx, key, record)

			return record, nil
		})

		record, _ := v.(*entity.IdempotencyRecord)
		if ran {
			return record, false, err
		}
		if err == nil && record != nil && record.IsSuccess() {
			return record, true, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
	}
}

func (c *Cache) lookup(ctx context.Context, key string) *entity.IdempotencyRecord {
	record, err := c.store.Get(ctx, key)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Failed to read idempotency record",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return nil
	}
	if record == nil || record.Expired(c.now()) {
		return nil
	}

	return record
}

func (c *Cache) save(ctx context.Context, key string, record *entity.IdempotencyRecord) {
	if record == nil || !record.IsSuccess() {
		return
	}

	record.Key = key
	record.ExpiresAt = c.now().Add(c.ttl)
	if err := c.store.Put(ctx, record); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Failed to store idempotency record",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
