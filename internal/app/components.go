package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkbot/internal/categorize"
	"github.com/MrSnakeDoc/linkbot/internal/config"
	"github.com/MrSnakeDoc/linkbot/internal/index"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/redis"
	"github.com/MrSnakeDoc/linkbot/internal/search"
	"github.com/MrSnakeDoc/linkbot/internal/store"
	badgerstore "github.com/MrSnakeDoc/linkbot/internal/store/badger"
	"github.com/MrSnakeDoc/linkbot/internal/store/file"
	redisstore "github.com/MrSnakeDoc/linkbot/internal/store/redis"
	"github.com/MrSnakeDoc/linkbot/internal/utils"
)

// Components are the long-lived services shared by the server and the CLI.
type Components struct {
	Store       *store.Store
	Categorizer *categorize.Categorizer
	Search      *search.Engine
	RedisClient *goredis.Client    // nil unless LINKBOT_REDIS_ADDR is set
	MemoryIndex *index.MemoryIndex // nil when the search cache lives in redis

	logger logger.Logger
}

// Open builds the categorizer, store and search engine for cfg.
// Redis is connected first (with retries) when configured.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Components, error) {
	table := categorize.DefaultTermTable()
	if cfg.TermsFile != "" {
		t, err := categorize.LoadTermTable(cfg.TermsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load term table: %w", err)
		}
		table = t
		log.Info("term table loaded",
			logger.String("file", cfg.TermsFile),
			logger.Int("terms", table.Len()))
	}
	c := &Components{
		Categorizer: categorize.New(table),
		logger:      log,
	}

	if cfg.RedisEnabled() {
		client, err := redis.Connect(ctx, redisOptions(cfg), log.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.RedisClient = client
	}

	coll, err := openCollection(cfg, c.RedisClient, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store.New(coll, c.Categorizer, log.Named("store"))
	if err := c.Store.Init(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialise store: %w", err)
	}

	var cache search.Cache
	if c.RedisClient != nil {
		cache = redisstore.NewSearchCache(c.RedisClient, cfg.SearchCacheTTL)
	} else {
		idx, err := index.NewMemoryIndex(cfg.SearchCacheSize, cfg.SearchCacheTTL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create search cache: %w", err)
		}
		c.MemoryIndex = idx
		cache = idx
	}

	c.Search = search.NewEngine(c.Store, c.Categorizer, cache, log.Named("search"))
	c.Store.OnChange(c.Search.Invalidate)

	log.Info("components ready",
		logger.String("backend", cfg.StoreBackend),
		logger.Bool("redis", c.RedisClient != nil))
	return c, nil
}

func openCollection(cfg *config.Config, client *goredis.Client, log logger.Logger) (store.Collection, error) {
	switch cfg.StoreBackend {
	case config.BackendBadger:
		coll, err := badgerstore.Open(cfg.BadgerDir, false, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return coll, nil
	case config.BackendRedis:
		return redisstore.NewCollection(client), nil
	default:
		coll, err := file.New(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return coll, nil
	}
}

func redisOptions(cfg *config.Config) redis.ConnectOptions {
	return redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

// Close releases the store, the in-process cache and the redis client.
func (c *Components) Close() {
	if c.Store != nil {
		utils.CloseLogged(c.Store, c.logger, "store")
	}
	if c.MemoryIndex != nil {
		c.MemoryIndex.Close()
	}
	if c.RedisClient != nil {
		utils.CloseLogged(c.RedisClient, c.logger, "redis")
	}
}
