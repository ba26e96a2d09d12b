package idempotency

import (
	"context"
	"encoding/json"
	"time"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "idempotency:"

// redisStore shares records between instances.
type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a store over an existing redis client.
func NewRedisStore(client redis.UniversalClient) repository.IdempotencyStore {
	return &redisStore{
		client: client,
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (*entity.IdempotencyRecord, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get idempotency record")
	}

	var record entity.IdempotencyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to decode idempotency record")
	}

	return &record, nil
}

// Put stores the record unless another instance stored one first.
func (s *redisStore) Put(ctx context.Context, record *entity.IdempotencyRecord) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to encode idempotency record")
	}

	if err := s.client.SetNX(ctx, redisKeyPrefix+record.Key, data, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to store idempotency record")
	}

	return nil
}
