package source

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cached memoizes a loader for a fixed TTL. Within the TTL Get returns the
// stored snapshot without I/O; concurrent misses share one load; failed
// loads are never stored.
type Cached[T any] struct {
	name string
	ttl  time.Duration
	load func(context.Context) (T, error)
	obs  Observer
	now  func() time.Time

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	ok        bool

	group singleflight.Group
}

type cacheResult[T any] struct {
	value T
	at    time.Time
}

func NewCached[T any](name string, ttl time.Duration, load func(context.Context) (T, error), obs Observer) *Cached[T] {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Cached[T]{name: name, ttl: ttl, load: load, obs: obs, now: time.Now}
}

func (c *Cached[T]) Name() string       { return c.name }
func (c *Cached[T]) TTL() time.Duration { return c.ttl }

// Get returns the cached value and when it was fetched, loading it first
// when missing or expired.
func (c *Cached[T]) Get(ctx context.Context) (T, time.Time, error) {
	c.mu.RLock()
	v, at, ok := c.value, c.fetchedAt, c.ok
	c.mu.RUnlock()
	if ok && c.now().Sub(at) < c.ttl {
		c.obs.CacheHit(c.name)
		return v, at, nil
	}
	c.obs.CacheMiss(c.name)
	return c.Refresh(ctx)
}

// Refresh loads unconditionally and stores the result on success.
func (c *Cached[T]) Refresh(ctx context.Context) (T, time.Time, error) {
	r, err, _ := c.group.Do(c.name, func() (interface{}, error) {
		start := c.now()
		v, err := c.load(ctx)
		c.obs.FetchDone(c.name, c.now().Sub(start), err)
		if err != nil {
			return nil, err
		}
		at := c.now()
		c.mu.Lock()
		c.value, c.fetchedAt, c.ok = v, at, true
		c.mu.Unlock()
		return cacheResult[T]{value: v, at: at}, nil
	})
	if err != nil {
		var zero T
		return zero, time.Time{}, err
	}
	res := r.(cacheResult[T])
	return res.value, res.at, nil
}
