package idempotency

import (
	"context"
	"log/slog"

	"eatery/config"
	"eatery/internal/domain/constants"
	"eatery/internal/domain/lifecycle"
	"eatery/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// StoreParams holds dependencies for the idempotency store, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewStore creates the IdempotencyStore selected by idempotency.provider.
func NewStore(params StoreParams) (repository.IdempotencyStore, error) {
	cfg := params.Config.Idempotency
	logger := params.Logger

	switch cfg.Provider {
	case "", constants.IdempotencyProviderMemory:
		logger.Info("Using in-memory idempotency store",
			slog.Int("max_entries", cfg.MaxEntries),
			slog.Duration("ttl", cfg.TTL),
		)

		return NewMemoryStore(cfg.MaxEntries, cfg.TTL), nil

	case constants.IdempotencyProviderRedis:
		if cfg.Redis.Addr == "" {
			return nil, errors.New("redis address is required for redis provider")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("Using redis idempotency store",
			slog.String("addr", cfg.Redis.Addr),
			slog.Int("db", cfg.Redis.DB),
		)

		params.Lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				return errors.Wrap(client.Ping(ctx).Err(), "failed to ping redis")
			},
			OnStop: func(_ context.Context) error {
				logger.Info("Closing redis idempotency store")

				return errors.WithStack(client.Close())
			},
		})

		return NewRedisStore(client), nil

	default:
		return nil, errors.Errorf("unknown idempotency provider: %s", cfg.Provider)
	}
}

// CacheParams holds dependencies for Cache, injected by Fx
type CacheParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Store  repository.IdempotencyStore
}

// ProvideCache creates the Cache over the configured store.
func ProvideCache(params CacheParams) *Cache {
	return NewCache(params.Store, params.Config.Idempotency.TTL, params.Logger)
}

// Module provides the idempotency FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewStore, ProvideCache),
)
