package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BumpChannel carries invalidation events between instances.
const BumpChannel = "backoffice.bump"

// Result labels reported to an Observer.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultBypass = "bypass"
	ResultError  = "error"
)

// Observer receives one result label per Fetch.
type Observer func(namespace, result string)

// ListCache is a versioned JSON cache scoped to one namespace, usually a
// resource name. Bump invalidates every key of the namespace at once.
type ListCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	group     singleflight.Group
	observe   Observer
}

// NewListCache builds a cache. A nil client disables caching; loaders then
// run on every Fetch.
func NewListCache(client *redis.Client, namespace string, ttl time.Duration, observe Observer) *ListCache {
	return &ListCache{client: client, namespace: namespace, ttl: ttl, observe: observe}
}

func (c *ListCache) versionKey() string {
	return "backoffice:" + c.namespace + ":version"
}

// Version returns the namespace version, initialising it when missing.
func (c *ListCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, c.versionKey(), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, c.versionKey()).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes a versioned key from parts.
func (c *ListCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	if c == nil {
		return strings.Join(parts, ":"), nil
	}
	joined := strings.Join(append([]string{"backoffice", c.namespace}, parts...), ":")
	if c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// Bump invalidates the namespace and announces the new version.
func (c *ListCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, c.versionKey()).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, BumpChannel, c.namespace+":"+strconv.FormatInt(ver, 10)).Err()
}

func (c *ListCache) report(result string) {
	if c != nil && c.observe != nil {
		c.observe(c.namespace, result)
	}
}

// Fetch returns the cached value under parts or populates it with loader.
// Concurrent misses on one key share a single loader call.
func Fetch[T any](ctx context.Context, c *ListCache, loader func(context.Context) (T, error), parts ...string) (T, error) {
	var zero T
	if c == nil || c.client == nil {
		c.report(ResultBypass)
		return loader(ctx)
	}
	key, err := c.BuildKey(ctx, parts...)
	if err != nil {
		c.report(ResultError)
		return loader(ctx)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var out T
		if err := json.Unmarshal(payload, &out); err == nil {
			c.report(ResultHit)
			return out, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.report(ResultError)
		return loader(ctx)
	}

	c.report(ResultMiss)
	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return value.(T), nil
}

// ListenForInvalidation delivers version bumps announced by any instance to
// onBump until ctx ends. Versions live in Redis, so lookups never depend on
// the listener; the server feeds it into its bump metrics.
func ListenForInvalidation(ctx context.Context, client *redis.Client, onBump func(namespace string, version int64)) error {
	if client == nil {
		return nil
	}
	pubsub := client.Subscribe(ctx, BumpChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("platform/cache: subscribe: %w", err)
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ns, raw, found := strings.Cut(msg.Payload, ":")
				if !found {
					continue
				}
				if ver, err := strconv.ParseInt(raw, 10, 64); err == nil && onBump != nil {
					onBump(ns, ver)
				}
			}
		}
	}()
	return nil
}
