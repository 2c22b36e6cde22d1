package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ldap-seeder/internal/adapter/cache"
	ginhandler "ldap-seeder/internal/adapter/gin/handler"
	ginmiddleware "ldap-seeder/internal/adapter/gin/middleware"
	"ldap-seeder/internal/adapter/ldaptool"
	"ldap-seeder/internal/adapter/repository/cached"
	"ldap-seeder/internal/config"
	"ldap-seeder/internal/usecase/directory"
	redisclient "ldap-seeder/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RedisClient *redisclient.Client
	Tool        *ldaptool.Client
	DirectoryUC *directory.Usecase
	RateLimiter *ginmiddleware.RateLimiter
	GinHandler  *ginhandler.DirectoryHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	c.Tool = ldaptool.NewClient(ldaptool.NewExecRunner(), cfg.LDAP.Tool(), l)
	l.Info("directory client configured",
		zap.String("url", c.Tool.Config().URL()),
		zap.String("search_base", c.Tool.Config().SearchBase),
	)

	var searcher directory.Searcher = c.Tool
	if cfg.Redis.Enabled {
		rdb, err := redisclient.NewClient(ctx, cfg.Redis.Client(), l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb

		searchCache := cache.NewRedisSearchCache(rdb.Client, cfg.Redis.CacheTTL(), l)
		// Results cached before a reseed would otherwise outlive it by up to the TTL.
		if err := searchCache.Flush(ctx); err != nil {
			l.Warn("failed to flush search cache", zap.Error(err))
		}
		searcher = cached.NewSearcher(c.Tool, searchCache, l)
		c.RateLimiter = ginmiddleware.NewRateLimiter(rdb.Client, cfg.RateLimit.Limiter(), l)
	} else {
		l.Info("Redis disabled; search cache and rate limiter are off")
	}

	c.DirectoryUC = directory.New(searcher, l)
	c.GinHandler = ginhandler.NewDirectoryHandler(c.DirectoryUC, l)

	return c, nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}
