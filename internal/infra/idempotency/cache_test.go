package idempotency

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"eatery/internal/domain/entity"
	mockRepo "eatery/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(NewMemoryStore(100, 48*time.Hour), 24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	cache.now = clock.Now

	return cache, clock
}

// countingHandler returns a fixed response and counts executions.
func countingHandler(status int, body string, calls *atomic.Int32) ExecuteFunc {
	return func(context.Context) (*entity.IdempotencyRecord, error) {
		calls.Add(1)

		return &entity.IdempotencyRecord{
			StatusCode:  status,
			ContentType: "application/json",
			Body:        []byte(body),
		}, nil
	}
}

func TestCache_Dedupe_ReplaysSuccess(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	var calls atomic.Int32
	fn := countingHandler(http.StatusCreated, `{"id":"1"}`, &calls)

	first, replayed, err := cache.Dedupe(ctx, "key-123456", fn)
	require.NoError(t, err)
	assert.False(t, replayed)

	second, replayed, err := cache.Dedupe(ctx, "key-123456", fn)
	require.NoError(t, err)
	assert.True(t, replayed)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first.StatusCode, second.StatusCode)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, first.ContentType, second.ContentType)
}

func TestCache_Dedupe_DoesNotStoreFailures(t *testing.T) {
	tests := []struct {
		name string
		fn   func(calls *atomic.Int32) ExecuteFunc
	}{
		{
			name: "non-2xx response",
			fn: func(calls *atomic.Int32) ExecuteFunc {
				return countingHandler(http.StatusConflict, `{"error":{}}`, calls)
			},
		},
		{
			name: "error",
			fn: func(calls *atomic.Int32) ExecuteFunc {
				return func(context.Context) (*entity.IdempotencyRecord, error) {
					calls.Add(1)

					return nil, errors.New("boom")
				}
			},
		},
		{
			name: "nil record",
			fn: func(calls *atomic.Int32) ExecuteFunc {
				return func(context.Context) (*entity.IdempotencyRecord, error) {
					calls.Add(1)

					return nil, nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, _ := newTestCache(t)
			var calls atomic.Int32
			fn := tt.fn(&calls)

			for range 2 {
				_, replayed, _ := cache.Dedupe(context.Background(), "key-failing", fn)
				assert.False(t, replayed)
			}
			assert.Equal(t, int32(2), calls.Load())
		})
	}
}

func TestCache_Dedupe_EmptyKeyAlwaysExecutes(t *testing.T) {
	cache, _ := newTestCache(t)
	var calls atomic.Int32
	fn := countingHandler(http.StatusOK, `{}`, &calls)

	for range 3 {
		_, replayed, err := cache.Dedupe(context.Background(), "", fn)
		require.NoError(t, err)
		assert.False(t, replayed)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestCache_Dedupe_ExpiredRecordExecutesAgain(t *testing.T) {
	cache, clock := newTestCache(t)
	var calls atomic.Int32
	fn := countingHandler(http.StatusOK, `{}`, &calls)

	_, _, err := cache.Dedupe(context.Background(), "key-expiring", fn)
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	_, replayed, err := cache.Dedupe(context.Background(), "key-expiring", fn)
	require.NoError(t, err)
	assert.True(t, replayed)

	clock.Advance(time.Hour)
	_, replayed, err = cache.Dedupe(context.Background(), "key-expiring", fn)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCache_Dedupe_RecordsExpiry(t *testing.T) {
	cache, clock := newTestCache(t)
	var calls atomic.Int32

	record, _, err := cache.Dedupe(context.Background(), "key-stamped", countingHandler(http.StatusOK, `{}`, &calls))
	require.NoError(t, err)

	assert.Equal(t, "key-stamped", record.Key)
	assert.Equal(t, clock.Now().Add(24*time.Hour), record.ExpiresAt)
}

func TestCache_Dedupe_ConcurrentDuplicatesExecuteOnce(t *testing.T) {
	cache, _ := newTestCache(t)

	const callers = 16
	var calls atomic.Int32
	var replays atomic.Int32
	release := make(chan struct{})

	fn := func(context.Context) (*entity.IdempotencyRecord, error) {
		calls.Add(1)
		<-release

		return &entity.IdempotencyRecord{StatusCode: http.StatusCreated, Body: []byte(`{"ok":true}`)}, nil
	}

	var wg sync.WaitGroup
	bodies := make([][]byte, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, replayed, err := cache.Dedupe(context.Background(), "key-concurrent", fn)
			assert.NoError(t, err)
			if replayed {
				replays.Add(1)
			}
			if record != nil {
				bodies[i] = record.Body
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(callers-1), replays.Load())
	for _, body := range bodies {
		assert.Equal(t, []byte(`{"ok":true}`), body)
	}
}

func TestCache_Dedupe_StoreErrorsFailOpen(t *testing.T) {
	store := mockRepo.NewMockIdempotencyStore(t)
	cache := NewCache(store, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	store.EXPECT().Get(ctx, "key-unavailable").Return(nil, errors.New("connection refused"))
	store.EXPECT().Put(ctx, mock.AnythingOfType("*entity.IdempotencyRecord")).Return(errors.New("connection refused"))

	var calls atomic.Int32
	record, replayed, err := cache.Dedupe(ctx, "key-unavailable", countingHandler(http.StatusOK, `{}`, &calls))

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, http.StatusOK, record.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore(10, time.Hour)
	ctx := context.Background()

	record := &entity.IdempotencyRecord{Key: "k", StatusCode: http.StatusOK, Body: []byte("abc")}
	require.NoError(t, store.Put(ctx, record))
	record.Body[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got.Body)

	got.Body[0] = 'y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again.Body)

	missing, err := store.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
