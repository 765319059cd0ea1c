// Package redis provides a read-through cache for the state catalog. Every
// orchestration batch loads the catalog, and state definitions change at
// provisioning time, not at runtime, so a short TTL removes one store
// round-trip per batch without risking stale transitions for long.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"pizzatools/internal/core/domain/model/state"
	"pizzatools/internal/core/ports"
)

const (
	catalogKey = "pizzatools:states:catalog"

	// DefaultCatalogTTL keeps the catalog warm across a burst of batches
	// while picking up provisioning changes within half a minute.
	DefaultCatalogTTL = 30 * time.Second
)

// StateCache decorates a StateStore with a redis-backed TTL cache. Cache
// failures degrade to the inner store; an unreachable redis never takes the
// pipeline down.
type StateCache struct {
	inner  ports.StateStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStateCache creates the cache decorator. A non-positive ttl falls back
// to DefaultCatalogTTL.
func NewStateCache(inner ports.StateStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *StateCache {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StateCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Load returns the cached catalog when fresh, otherwise loads from the inner
// store and caches a non-empty result.
func (c *StateCache) Load(ctx context.Context) (state.Catalog, error) {
	payload, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == nil {
		var definitions []state.State
		if err := json.Unmarshal(payload, &definitions); err == nil {
			return state.NewCatalog(definitions), nil
		}
		c.logger.Warn("dropping undecodable state catalog cache entry")
		_ = c.client.Del(ctx, catalogKey).Err()
	} else if err != redis.Nil {
		c.logger.Warn("state catalog cache read failed", "error", err)
	}

	catalog, err := c.inner.Load(ctx)
	if err != nil {
		return state.EmptyCatalog(), err
	}
	// an empty catalog means a degraded fetch, not worth pinning for a TTL
	if catalog.IsEmpty() {
		return catalog, nil
	}

	payload, err = json.Marshal(catalog.States())
	if err == nil {
		if err := c.client.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("state catalog cache write failed", "error", err)
		}
	}

	return catalog, nil
}
