package main

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/workspace-sessions/internal/catalog"
	"github.com/iliyamo/workspace-sessions/internal/config"
	"github.com/iliyamo/workspace-sessions/internal/database"
	"github.com/iliyamo/workspace-sessions/internal/store"
)

// openStore picks the configured backend. An unreachable backend degrades
// to in-process state so the service still starts.
func openStore(ctx context.Context, cfg config.Config, rdb *redis.Client, version string, logger *log.Logger) *store.StateStore {
	var kv store.KV
	switch cfg.Store.Backend {
	case config.BackendRedis:
		if rdb != nil {
			kv = store.NewRedisKV(rdb, cfg.Store.Prefix)
		}
	case config.BackendMySQL:
		db, err := database.Open(ctx, cfg.DB)
		if err != nil {
			logger.Warnf("mysql at %s:%s unreachable: %v", cfg.DB.Host, cfg.DB.Port, err)
			break
		}
		sqlkv := store.NewSQLKV(db)
		if err := sqlkv.EnsureSchema(ctx); err != nil {
			logger.Warnf("mysql schema: %v", err)
			_ = sqlkv.Close()
			break
		}
		kv = sqlkv
	}
	if kv == nil {
		if cfg.Store.Backend != config.BackendMemory {
			logger.Warnf("store %s unavailable; state will not survive a restart", cfg.Store.Backend)
		}
		kv = store.NewMemoryKV()
	}
	return store.NewStateStore(kv, version, catalog.Seed)
}
