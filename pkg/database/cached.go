package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mhelland/seqheat/pkg/cache"
	"github.com/mhelland/seqheat/pkg/observability"
)

const cacheKeyType = "annotations"

// Cached wraps a Database with a lookup cache. Writes go straight through
// and invalidate the cached entries for the affected features, so a session
// sees its own annotations immediately.
type Cached struct {
	inner Database
	cache cache.Cache
	ttl   time.Duration
}

// NewCached wraps db with c. A non-positive ttl caches entries for an hour.
func NewCached(db Database, c cache.Cache, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cached{inner: db, cache: c, ttl: ttl}
}

func (c *Cached) DatabaseName() string { return c.inner.DatabaseName() }

func (c *Cached) Annotatable() bool { return c.inner.Annotatable() }

func (c *Cached) Annotations(ctx context.Context, featureID string) ([]Annotation, error) {
	key := c.key(featureID)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var out []Annotation
		if err := json.Unmarshal(data, &out); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return out, nil
		}
		// Corrupt entry: drop it and fall through to the backend.
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	out, err := c.inner.Annotations(ctx, featureID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return out, nil
}

func (c *Cached) AddAnnotation(ctx context.Context, featureIDs []string, ann Annotation) error {
	if err := c.inner.AddAnnotation(ctx, featureIDs, ann); err != nil {
		return err
	}
	for _, id := range featureIDs {
		_ = c.cache.Delete(ctx, c.key(id))
	}
	return nil
}

func (c *Cached) key(featureID string) string {
	return cache.Key(cacheKeyType, c.inner.DatabaseName(), featureID)
}
