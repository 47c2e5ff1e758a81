package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache - общий L2 между инстансами. Ошибки redis не пробрасываются:
// кеш деградирует до промахов, запрос продолжает работать.
type Cache struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger
}

// Connect разбирает URL и проверяет соединение
func Connect(ctx context.Context, redisURL string, logger *zap.Logger) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return New(rdb, logger), nil
}

func New(rdb *redis.Client, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, prefix: "multisearch:", logger: logger}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.logger.Debug("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
