package main

import (
	"context"
	"time"

	"github.com/arnold/habitus-api/internal/config"
	"github.com/arnold/habitus-api/internal/kv"
	"github.com/arnold/habitus-api/internal/logger"
	"github.com/arnold/habitus-api/internal/query"
	"github.com/arnold/habitus-api/internal/store"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sentryFlushTimeout = 2 * time.Second

// openRedis returns nil when REDIS_ADDR is unset or the server does not
// answer; callers then fall back to in-process behaviour.
func openRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Get().Warn("redis unreachable, continuing without it", "addr", cfg.RedisAddr, "error", err)
		rdb.Close()
		return nil
	}
	return rdb
}

func openLocalStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (*store.Local, func() error, error) {
	kvStore, closeKV, err := kv.Open(ctx, cfg, rdb)
	if err != nil {
		return nil, closeKV, err
	}
	local := store.NewLocal(kvStore,
		store.WithKey(cfg.StorageKey),
		store.WithSeed(cfg.MockSeed),
		store.WithLogger(logger.Get()),
	)
	return local, closeKV, nil
}

// openBackend resolves DATA_BACKEND once for the whole process.
func openBackend(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (query.Backend, func() error, error) {
	if cfg.DataBackend == config.BackendMock {
		local, closeKV, err := openLocalStore(ctx, cfg, rdb)
		if err != nil {
			return nil, closeKV, err
		}
		logger.Get().Info("goal backend: mock", "key", local.Key(), "latency", cfg.MockLatency)
		return query.Instrument(query.NewMock(local, query.WithLatency(cfg.MockLatency))), closeKV, nil
	}

	logger.Get().Info("goal backend: database")
	return query.Instrument(query.NewDatabase(db)), func() error { return nil }, nil
}
