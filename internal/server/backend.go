package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Tafitantsu/Transport-cost/internal/config"
	"github.com/Tafitantsu/Transport-cost/pkg/cache"
	"github.com/Tafitantsu/Transport-cost/pkg/service"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
)

// OpenService builds a service from the store and cache settings in cfg.
// The returned close function releases both backends.
func OpenService(ctx context.Context, cfg config.Config, logger *log.Logger) (*service.Service, func() error, error) {
	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	c, err := openCache(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if prefix := cfg.Cache.Prefix; prefix != "" {
		if !strings.HasSuffix(prefix, ":") {
			prefix += ":"
		}
		keyer = cache.NewScopedKeyer(keyer, prefix)
	}

	svc := service.New(store, c, keyer, logger)
	svc.MaxRounds = cfg.Solver.MaxRounds
	svc.TTL = cfg.Cache.TTL.Duration

	logger.Info("backends ready", "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	closeFn := func() error {
		return errors.Join(c.Close(), store.Close())
	}
	return svc, closeFn, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (task.Store, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return task.NewMemoryStore(), nil
	case config.StoreFile:
		return task.NewFileStore(cfg.Dir)
	case config.StoreMongo:
		s, err := task.NewMongoStore(ctx, task.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, fmt.Errorf("open task store: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheFile:
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}
