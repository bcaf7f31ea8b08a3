package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is the key-value surface the response cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Add(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// ReadCache serves resource reads through a TTL cache. Concurrent identical
// reads share one upstream fetch; a store outage degrades to fetching every
// time rather than failing the read.
type ReadCache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewReadCache builds a cache over store with the given entry lifetime.
func NewReadCache(store Store, ttl time.Duration, logger *zap.Logger) *ReadCache {
	return &ReadCache{store: store, ttl: ttl, logger: logger}
}

// GetOrFetch returns the cached payload for key, fetching and storing it on a
// miss. A fetch failure is returned to every waiting caller and nothing is
// cached.
func (c *ReadCache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	val, err, _ := c.group.Do(key, func() (any, error) {
		payload, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return val.([]byte), nil
}

// Invalidate drops every cached read under the given resource prefix so the
// next read refetches.
func (c *ReadCache) Invalidate(ctx context.Context, prefix string) {
	if err := c.store.DeletePrefix(ctx, prefix); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}
