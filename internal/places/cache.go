package places

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores resolved photo URLs by query.
type Cache interface {
	Get(ctx context.Context, query string) (string, bool)
	Set(ctx context.Context, query, url string, ttl time.Duration)
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache returns a cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 10*time.Minute)}
}

func (m *MemoryCache) Get(_ context.Context, query string) (string, bool) {
	v, ok := m.c.Get(query)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryCache) Set(_ context.Context, query, url string, ttl time.Duration) {
	m.c.Set(query, url, ttl)
}

// RedisCache shares resolved photos across processes.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps client. Keys are stored under "geomingle:photo:".
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "geomingle:photo:"}
}

// Get treats every Redis error, including a miss, as a cache miss.
func (c *RedisCache) Get(ctx context.Context, query string) (string, bool) {
	v, err := c.client.Get(ctx, c.prefix+query).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (c *RedisCache) Set(ctx context.Context, query, url string, ttl time.Duration) {
	c.client.Set(ctx, c.prefix+query, url, ttl)
}

// DialRedis connects to addr and pings it, giving up after five seconds.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
