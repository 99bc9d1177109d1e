package app

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Tysek64/DrugiTinder/internal/cache"
	"github.com/Tysek64/DrugiTinder/internal/config"
	"github.com/Tysek64/DrugiTinder/internal/db"
	"github.com/Tysek64/DrugiTinder/internal/loader"
	"github.com/Tysek64/DrugiTinder/internal/logger"
	"github.com/Tysek64/DrugiTinder/internal/sink"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache // nil when no redis is configured
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
	}
}

// Open connects to the configured store and, when REDIS_ADDR is set, to redis.
// An unreachable redis is logged and skipped; it only backs observational
// features.
func Open(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	logger.InitFromConfig(cfg)
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, err
	}

	var rdb *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rdb = cache.NewRedisCache(cfg)
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("redis unavailable, continuing without it", "addr", cfg.Redis.Addr, "err", err)
			_ = rdb.Close()
			rdb = nil
		}
	}

	return New(cfg, database, rdb, log), nil
}

// Sink returns the storage sink for the configured provider: binary COPY
// through pgx for postgres, batched statements through gorm otherwise.
// The returned func releases whatever the sink opened.
func (a *AppContext) Sink(ctx context.Context) (loader.Sink, func(), error) {
	if a.Config.DB.Provider == "postgres" {
		maxConns := int32(max(a.Config.Population.WorkerCount(), 4))
		pg, err := sink.NewPostgres(ctx, a.Config.DB.DSN, maxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres sink: %w", err)
		}
		return pg, pg.Close, nil
	}
	return sink.NewGorm(a.DB), func() {}, nil
}

// Close releases the database and redis connections.
func (a *AppContext) Close() {
	if a.RedisCache != nil {
		_ = a.RedisCache.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
