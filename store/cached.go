package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached wraps a Store with an in-memory read-through cache. Writes go to the
// backing store first and refresh the cached copy.
type Cached struct {
	next  Store
	cache *cache.Cache
}

// NewCached caches documents of next for ttl.
func NewCached(next Store, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Cached) Save(ctx context.Context, doc Document) error {
	if err := c.next.Save(ctx, doc); err != nil {
		c.cache.Delete(doc.Key)
		return err
	}
	c.cache.Set(doc.Key, doc, cache.DefaultExpiration)
	return nil
}

func (c *Cached) Load(ctx context.Context, key string) (*Document, error) {
	if v, ok := c.cache.Get(key); ok {
		doc := v.(Document)
		return &doc, nil
	}
	doc, err := c.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, *doc, cache.DefaultExpiration)
	return doc, nil
}

func (c *Cached) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return c.next.Delete(ctx, key)
}

// Close flushes the cache and closes the backing store.
func (c *Cached) Close() error {
	c.cache.Flush()
	return c.next.Close()
}
