package store

import (
	"context"
	"io"
	"sync/atomic"

	"planner/internal/cache"
	"planner/internal/core"
)

// Cached keeps the last successful snapshot of a store. Appends through the
// wrapper and Invalidate drop it; writes made by other processes are only
// seen after Invalidate or TTL expiry.
type Cached struct {
	next  Store
	cache cache.Cache[Snapshot]
	key   string

	// gen changes on every Append and Invalidate. A load only fills the
	// cache when no change happened while it was reading.
	gen atomic.Uint64
}

var _ Store = (*Cached)(nil)

// NewCached wraps next. key identifies the store inside a shared cache.
func NewCached(next Store, c cache.Cache[Snapshot], key string) *Cached {
	return &Cached{next: next, cache: c, key: key}
}

func (c *Cached) Load(ctx context.Context) (Snapshot, error) {
	if snap, ok := c.cache.Get(c.key); ok {
		return snap.clone(), nil
	}
	gen := c.gen.Load()
	snap, err := c.next.Load(ctx)
	if err == nil && !snap.NotInitialized && c.gen.Load() == gen {
		c.cache.Set(c.key, snap.clone())
		// An Append that finished between the check and Set must not leave
		// this snapshot behind.
		if c.gen.Load() != gen {
			c.cache.Delete(c.key)
		}
	}
	return snap, err
}

func (c *Cached) Append(ctx context.Context, e core.Event) error {
	// A failed append may still have written part of the row.
	defer c.Invalidate()
	return c.next.Append(ctx, e)
}

// Invalidate drops the cached snapshot.
func (c *Cached) Invalidate() {
	c.gen.Add(1)
	c.cache.Delete(c.key)
}

// Close closes the wrapped store when it holds resources.
func (c *Cached) Close() error {
	if closer, ok := c.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Events = append([]core.Event(nil), s.Events...)
	return out
}
