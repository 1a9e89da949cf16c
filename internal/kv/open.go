package kv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arnold/habitus-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// Open builds the store selected by cfg.KVDriver. rdb may be nil unless the
// redis driver is selected. The returned close func is never nil.
func Open(ctx context.Context, cfg *config.Config, rdb *redis.Client) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.KVDriver {
	case config.KVMemory:
		slog.Warn("kv: memory driver selected, goals are lost on restart")
		return NewMemory(), noop, nil
	case config.KVFile:
		store, err := NewFile(cfg.KVPath)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("kv: file driver", "path", cfg.KVPath)
		return store, noop, nil
	case config.KVRedis:
		if rdb == nil {
			return nil, noop, fmt.Errorf("kv: redis driver selected but no redis client configured")
		}
		slog.Info("kv: redis driver", "addr", cfg.RedisAddr)
		return NewRedis(rdb, "habitus:"), noop, nil
	case config.KVFirestore:
		store, err := NewFirestore(ctx, cfg.FirestoreProject, cfg.FirestoreCollection)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("kv: firestore driver", "project", cfg.FirestoreProject, "collection", cfg.FirestoreCollection)
		return store, store.Close, nil
	case config.KVS3:
		store, err := NewS3(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    "habitus/",
		})
		if err != nil {
			return nil, noop, err
		}
		slog.Info("kv: s3 driver", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return store, noop, nil
	default:
		return nil, noop, fmt.Errorf("kv: unknown driver %q", cfg.KVDriver)
	}
}
