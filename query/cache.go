package query

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"backoffice-console/logger"
)

const DefaultGCTime = 10 * time.Minute

type Options struct {
	// GCTime is how long an entry survives after its last fetch before Sweep
	// removes it.
	GCTime  time.Duration
	Logger  logrus.FieldLogger
	Metrics *Metrics
	Now     func() time.Time
}

type entry struct {
	namespace   string
	value       any
	fetchedAt   time.Time
	invalidated bool
}

// Cache holds decoded responses by key. It is safe for concurrent use.
//
// Every namespace carries a generation that Invalidate bumps. A fetch that
// started before an invalidation still answers its callers, but its result is
// stored already invalidated and later reads start a new fetch instead of
// joining the old one.
type Cache struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	generations map[string]uint64
	epoch       uint64
	flight      singleflight.Group

	gcTime  time.Duration
	log     *logrus.Entry
	metrics *Metrics
	now     func() time.Time
}

func NewCache(opts Options) *Cache {
	gc := opts.GCTime
	if gc <= 0 {
		gc = DefaultGCTime
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries:     make(map[string]*entry),
		generations: make(map[string]uint64),
		gcTime:      gc,
		log:         logger.Component(opts.Logger, "query"),
		metrics:     opts.Metrics,
		now:         now,
	}
}

// Fetcher loads the value of one key from the backend.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Fetch returns the cached value for key when it is younger than staleTime
// and has not been invalidated. Otherwise it calls fn, sharing one call
// between every concurrent reader of the same key. Errors are returned to
// every waiting caller and never cached.
//
// The shared call does not inherit the caller's cancellation: a caller whose
// ctx ends stops waiting and gets ctx.Err(), while the call completes for the
// others and still fills the cache.
func Fetch[T any](ctx context.Context, c *Cache, key Key, staleTime time.Duration, fn Fetcher[T]) (T, error) {
	id := key.String()
	if v, ok := c.fresh(id, staleTime); ok {
		if typed, ok := v.(T); ok {
			c.metrics.hit(key.Namespace)
			return typed, nil
		}
	}
	c.metrics.miss(key.Namespace)

	gen := c.generation(key.Namespace)
	flightKey := id + "#" + strconv.FormatUint(gen, 10)
	fetchCtx := context.WithoutCancel(ctx)

	ch := c.flight.DoChan(flightKey, func() (any, error) {
		v, err := fn(fetchCtx)
		c.metrics.fetched(key.Namespace, err)
		if err != nil {
			c.log.WithError(err).WithField("key", id).Debug("fetch failed")
			return nil, err
		}
		c.store(key.Namespace, id, v, gen)
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("query %s: cached value is %T", key.Namespace, res.Val)
		}
		return typed, nil
	}
}

// Peek returns whatever is cached for key, fresh or not.
func Peek[T any](c *Cache, key Key) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	e, ok := c.entries[key.String()]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Set writes a value directly, used after a mutation that returned the
// updated resource.
func Set[T any](c *Cache, key Key, value T) {
	c.store(key.Namespace, key.String(), value, c.generation(key.Namespace))
}

func (c *Cache) fresh(id string, staleTime time.Duration) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || e.invalidated {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= staleTime {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) generation(namespace string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch + c.generations[namespace]
}

func (c *Cache) store(namespace, id string, v any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	outdated := c.epoch+c.generations[namespace] != gen
	if _, exists := c.entries[id]; exists && outdated {
		return
	}
	c.entries[id] = &entry{
		namespace:   namespace,
		value:       v,
		fetchedAt:   c.now(),
		invalidated: outdated,
	}
}

// Invalidate marks every entry of the given namespaces stale so the next read
// refetches. Entries stay readable through Peek until swept.
func (c *Cache) Invalidate(namespaces ...string) {
	if len(namespaces) == 0 {
		return
	}
	set := make(map[string]struct{}, len(namespaces))
	c.mu.Lock()
	for _, ns := range namespaces {
		set[ns] = struct{}{}
		c.generations[ns]++
	}
	marked := 0
	for _, e := range c.entries {
		if _, ok := set[e.namespace]; ok && !e.invalidated {
			e.invalidated = true
			marked++
		}
	}
	c.mu.Unlock()

	for ns := range set {
		c.metrics.invalidated(ns)
	}
	c.log.WithFields(logrus.Fields{"namespaces": namespaces, "entries": marked}).Debug("invalidated")
}

// Clear drops everything, used at logout. Fetches still in flight finish
// without leaving their results behind as fresh entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.epoch++
	n := len(c.entries)
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
	c.log.WithField("entries", n).Debug("cache cleared")
}

// Sweep removes entries not fetched within the GC window and returns how many
// were removed.
func (c *Cache) Sweep() int {
	cutoff := c.now().Add(-c.gcTime)
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, e := range c.entries {
		if e.fetchedAt.Before(cutoff) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
