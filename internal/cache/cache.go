// Package cache 缓存渲染首页所需的内容快照。
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pageKey = "folio:page"

// PageCache 保存首页内容快照（已序列化的字节）。
// Get 在未命中时返回 nil, false, nil。
type PageCache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, data []byte) error
	Invalidate(ctx context.Context) error
}

// RedisPageCache 使用 Redis 保存快照
type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisPageCache 连接 Redis 并校验可用性
func NewRedisPageCache(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisPageCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPageCacheWithClient(client, ttl, logger), nil
}

// NewRedisPageCacheWithClient 使用已有客户端构造缓存，调用方负责关闭客户端
func NewRedisPageCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPageCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPageCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisPageCache) Get(ctx context.Context) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, pageKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get page from cache: %w", err)
	}
	return data, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, data []byte) error {
	if err := c.client.Set(ctx, pageKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set page cache: %w", err)
	}
	return nil
}

func (c *RedisPageCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, pageKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate page cache: %w", err)
	}
	c.logger.Debug("Page cache invalidated")
	return nil
}

// Close 关闭 Redis 连接
func (c *RedisPageCache) Close() error {
	return c.client.Close()
}

// MemoryPageCache 是进程内缓存，用于未配置 Redis 的单实例部署。
type MemoryPageCache struct {
	mu      sync.RWMutex
	data    []byte
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryPageCache 构造 MemoryPageCache，ttl<=0 表示不过期
func NewMemoryPageCache(ttl time.Duration) *MemoryPageCache {
	return &MemoryPageCache{ttl: ttl, now: time.Now}
}

func (c *MemoryPageCache) Get(_ context.Context) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return nil, false, nil
	}
	if c.ttl > 0 && !c.now().Before(c.expires) {
		return nil, false, nil
	}
	return c.data, true, nil
}

func (c *MemoryPageCache) Set(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append([]byte(nil), data...)
	c.expires = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryPageCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	return nil
}

// Noop 不缓存任何内容
type Noop struct{}

func (Noop) Get(context.Context) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, []byte) error         { return nil }
func (Noop) Invalidate(context.Context) error          { return nil }
