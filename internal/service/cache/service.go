package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kapu/osint-footprint-go/internal/constants"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/util"
	"github.com/kapu/osint-footprint-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type CacheConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	ResultTTL time.Duration
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	logger = util.OrNop(logger)
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	svc := &CacheService{
		client: client,
		ttl:    cfg.ResultTTL,
		logger: logger,
	}
	if svc.ttl <= 0 {
		svc.ttl = constants.CacheTTL.PlatformResult
	}

	if err := svc.WaitUntilReady(context.Background(), constants.RedisConfig.ReadyTimeout); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return svc, nil
}

// Get decodes the JSON value at key into dest. A missing key is not an error; found
// reports whether it existed.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

// ResultKey is the cache key of one platform check for a handle.
func ResultKey(platform, handle string) string {
	return fmt.Sprintf("%s:%s:%s",
		constants.CacheKeys.ResultPrefix,
		strings.ToLower(platform),
		util.NormalizeHandle(handle))
}

// GetResult returns the cached result of a platform check, if any.
func (c *CacheService) GetResult(ctx context.Context, platform, handle string) (*domain.PlatformResult, bool) {
	if handle == "" {
		return nil, false
	}
	var result domain.PlatformResult
	found, err := c.Get(ctx, ResultKey(platform, handle), &result)
	if err != nil || !found {
		c.logger.Debug("Result cache miss", zap.String("platform", platform), zap.Bool("error", err != nil))
		return nil, false
	}
	return &result, true
}

// SetResult caches a successful platform check. Results carrying an error are not
// cached so the next run retries them.
func (c *CacheService) SetResult(ctx context.Context, handle string, result domain.PlatformResult) {
	if handle == "" || !result.Found || result.Error != domain.ErrorNone {
		return
	}
	if err := c.Set(ctx, ResultKey(result.Platform, handle), result, c.ttl); err != nil {
		c.logger.Warn("Failed to cache platform result",
			zap.String("platform", result.Platform),
			zap.Error(err))
	}
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// WaitUntilReady polls Redis until it answers a PING or timeout elapses.
func (c *CacheService) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(constants.RedisConfig.PollInterval)
	defer ticker.Stop()

	err := c.ping(ctx)
	for err != nil {
		select {
		case <-ctx.Done():
			return errors.NewCacheError("Redis not ready", "ping", "", err)
		case <-ticker.C:
			err = c.ping(ctx)
		}
	}
	return nil
}
