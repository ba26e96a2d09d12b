package idempotency

import (
	"context"
	"time"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/repository"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryStore keeps records in a process-local LRU. It is the single-instance default.
type memoryStore struct {
	cache *lru.LRU[string, *entity.IdempotencyRecord]
}

// NewMemoryStore creates a store holding at most maxEntries records for ttl each.
func NewMemoryStore(maxEntries int, ttl time.Duration) repository.IdempotencyStore {
	return &memoryStore{
		cache: lru.NewLRU[string, *entity.IdempotencyRecord](maxEntries, nil, ttl),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (*entity.IdempotencyRecord, error) {
	record, ok := s.cache.Get(key)
	if !ok {
		return nil, nil
	}

	return cloneRecord(record), nil
}

func (s *memoryStore) Put(_ context.Context, record *entity.IdempotencyRecord) error {
	s.cache.Add(record.Key, cloneRecord(record))

	return nil
}

func cloneRecord(record *entity.IdempotencyRecord) *entity.IdempotencyRecord {
	clone := *record
	clone.Body = append([]byte(nil), record.Body...)

	return &clone
}
