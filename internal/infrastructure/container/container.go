// Package container wires the application together. Construction order
// follows the dependency direction: config, logging, storage, cache,
// gateway, then the application services.
package container

import (
	"context"
	"fmt"

	inventorysvc "github.com/frigozen/v1/internal/application/inventory"
	"github.com/frigozen/v1/internal/application/kitchen"
	"github.com/frigozen/v1/internal/application/preferences"
	"github.com/frigozen/v1/internal/infrastructure/ai/gemini"
	"github.com/frigozen/v1/internal/infrastructure/cache"
	"github.com/frigozen/v1/internal/infrastructure/config"
	"github.com/frigozen/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/frigozen/v1/internal/infrastructure/persistence/gorm"
	"github.com/frigozen/v1/internal/infrastructure/persistence/memory"
	redisRepo "github.com/frigozen/v1/internal/infrastructure/persistence/redis"
	"github.com/frigozen/v1/internal/infrastructure/persistence/sqlite"
	"github.com/frigozen/v1/internal/ports/inbound"
	"github.com/frigozen/v1/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

// Container holds the wired application. Services are exposed through their
// inbound ports so callers depend on the use-case contracts, not the
// implementations.
type Container struct {
	Config      *config.Config
	Logger      *monitoring.Logger
	Metrics     *monitoring.Metrics
	Inventory   inbound.InventoryService
	Kitchen     inbound.KitchenService
	Preferences inbound.PreferenceService

	redisCache *redisRepo.CacheRepository
	memCache   *memory.CacheRepository
}

// New builds the full dependency graph and restores persisted state.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := monitoring.NewLogger(monitoring.LogConfig{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
		Version:     cfg.App.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	gormLogLevel := gormLogger.Silent
	if cfg.App.Debug {
		gormLogLevel = gormLogger.Info
	}

	db, err := sqlite.SetupDatabase(cfg.Storage.Path, gormLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	logger.Info("Connected to SQLite database", zap.String("path", cfg.Storage.Path))

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}

	inventoryRepo := gormRepo.NewInventoryRepository(db)
	preferenceRepo := gormRepo.NewPreferenceRepository(db)

	var aiCache *cache.AICache
	if cfg.AI.EnableCache {
		aiCache = cache.NewAICache(c.cacheRepository(cfg, logger.Logger), cfg.AI.CacheTTL, logger.Logger)
	}

	gateway := gemini.NewClient(cfg.AI, cfg.RateLimit, metrics, logger)

	inventoryService := inventorysvc.NewService(inventoryRepo, logger.Logger)
	if err := inventoryService.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore inventory: %w", err)
	}
	metrics.SetInventorySize(len(inventoryService.Items(ctx)))

	preferenceService := preferences.NewService(preferenceRepo, logger.Logger)
	if err := preferenceService.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore preferences: %w", err)
	}

	kitchenService := kitchen.NewService(
		inventoryService,
		gateway,
		aiCache,
		metrics,
		preferenceService,
		kitchen.Features{
			RecipeImages: cfg.Features.EnableRecipeImages,
			Translation:  cfg.Features.EnableTranslation,
		},
		preferenceService.Language(),
		logger,
	)

	// A persisted language change re-labels the existing inventory.
	preferenceService.OnLanguageChange(func(ctx context.Context, language string) {
		if err := kitchenService.ApplyLanguage(ctx, language); err != nil {
			logger.Warn("Language change did not translate inventory",
				zap.String("language", language),
				zap.Error(err),
			)
		}
	})

	c.Inventory = inventoryService
	c.Kitchen = kitchenService
	c.Preferences = preferenceService
	return c, nil
}

// cacheRepository picks the Redis cache when configured and reachable,
// falling back to the in-memory cache.
func (c *Container) cacheRepository(cfg *config.Config, logger *zap.Logger) outbound.CacheRepository {
	if cfg.Redis.Enable {
		repo, err := redisRepo.NewCacheRepository(cfg.Redis, logger)
		if err == nil {
			c.redisCache = repo
			return repo
		}
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
	}
	c.memCache = memory.NewCacheRepository()
	return c.memCache
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			return err
		}
	}
	if c.memCache != nil {
		_ = c.memCache.Close()
	}
	_ = c.Logger.Sync()
	return nil
}
