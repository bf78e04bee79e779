// Package cache holds read-through caching of list responses in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "portfolio:list:" // portfolio:list:{resource}
	versionPrefix = "portfolio:ver:"  // portfolio:ver:{resource}, bumped on every invalidation
)

// setIfVersion writes KEYS[1] only while KEYS[2] still holds the version
// the loader started from.
var setIfVersion = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if not v then v = '0' end
if v ~= ARGV[1] then return 0 end
if ARGV[3] == '0' then
  redis.call('SET', KEYS[1], ARGV[2])
else
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return 1
`)

// ListCache stores serialized lists under a per-resource key. A nil
// *ListCache is valid and caches nothing.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(client *redis.Client, ttl time.Duration, log *zap.Logger) *ListCache {
	if client == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ListCache{client: client, ttl: ttl, log: log}
}

func (c *ListCache) key(resource string) string {
	return keyPrefix + resource
}

func (c *ListCache) versionKey(resource string) string {
	return versionPrefix + resource
}

// version reads the invalidation counter of resource; "0" when unset.
func (c *ListCache) version(ctx context.Context, resource string) (string, error) {
	v, err := c.client.Get(ctx, c.versionKey(resource)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read version of %s: %w", resource, err)
	}
	return v, nil
}

// setAt caches v unless resource was invalidated after version was read.
func (c *ListCache) setAt(ctx context.Context, resource, version string, v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s: %w", resource, err)
	}
	keys := []string{c.key(resource), c.versionKey(resource)}
	n, err := setIfVersion.Run(ctx, c.client, keys, version, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to cache %s: %w", resource, err)
	}
	return n == 1, nil
}

// Get decodes the cached value for resource into dst.
func (c *ListCache) Get(ctx context.Context, resource string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, c.key(resource)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached %s: %w", resource, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached %s: %w", resource, err)
	}
	return true, nil
}

func (c *ListCache) Set(ctx context.Context, resource string, v any) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", resource, err)
	}
	if err := c.client.Set(ctx, c.key(resource), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", resource, err)
	}
	return nil
}

// Invalidate drops the cached lists of the given resources and bumps their
// versions so loads already in flight cannot write them back.
func (c *ListCache) Invalidate(ctx context.Context, resources ...string) error {
	if c == nil || len(resources) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, r := range resources {
		pipe.Incr(ctx, c.versionKey(r))
		pipe.Del(ctx, c.key(r))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate %v: %w", resources, err)
	}
	return nil
}

// Ping reports Redis reachability; a nil cache reports nil.
func (c *ListCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Fetch returns the cached value for resource, or calls load and caches
// its result. The result is dropped if resource was invalidated while
// load ran. Cache failures are logged and never fail the call.
func Fetch[T any](ctx context.Context, c *ListCache, resource string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	var cached T
	hit, err := c.Get(ctx, resource, &cached)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("resource", resource), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	version, verr := c.version(ctx, resource)
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if verr != nil {
		c.log.Warn("cache write skipped", zap.String("resource", resource), zap.Error(verr))
		return v, nil
	}
	stored, err := c.setAt(ctx, resource, version, v)
	if err != nil {
		c.log.Warn("cache write failed", zap.String("resource", resource), zap.Error(err))
	} else if !stored {
		c.log.Debug("stale load not cached", zap.String("resource", resource))
	}
	return v, nil
}

// Drop invalidates resources and logs instead of failing.
func (c *ListCache) Drop(ctx context.Context, resources ...string) {
	if err := c.Invalidate(ctx, resources...); err != nil {
		c.log.Warn("cache invalidation failed", zap.Error(err))
	}
}
