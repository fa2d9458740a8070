// Package memo provides a read-through cache that computes each key at most once.
//
// Concurrent first requests for the same key collapse into a single computation;
// requests for different keys never wait on each other. Successful results are kept
// for the lifetime of the cache, errors are returned to every waiter but not stored.
package memo

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Recorder receives cache events, typically to export them as metrics
type Recorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
	ObserveCompute(cache string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)                      {}
func (nopRecorder) CacheMiss(string)                     {}
func (nopRecorder) ObserveCompute(string, time.Duration) {}

// Option configures a Cache
type Option func(*options)

type options struct {
	recorder Recorder
}

// WithRecorder reports hits, misses and compute durations to r
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// Cache memoizes the results of an expensive computation per key
type Cache[K comparable, V any] struct {
	name     string
	compute  func(K) (V, error)
	recorder Recorder

	mu      sync.RWMutex
	entries map[K]V
	group   singleflight.Group
}

// New creates a Cache named name backed by compute
func New[K comparable, V any](name string, compute func(K) (V, error), opts ...Option) *Cache[K, V] {
	o := options{recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[K, V]{
		name:     name,
		compute:  compute,
		recorder: o.recorder,
		entries:  make(map[K]V),
	}
}

// Get returns the value for key, computing it on first use
func (c *Cache[K, V]) Get(key K) (V, error) {
	if v, ok := c.lookup(key); ok {
		c.recorder.CacheHit(c.name)
		return v, nil
	}

	res, err, _ := c.group.Do(flightKey(key), func() (interface{}, error) {
		// Another flight may have stored the key between lookup and Do
		if v, ok := c.lookup(key); ok {
			c.recorder.CacheHit(c.name)
			return v, nil
		}

		c.recorder.CacheMiss(c.name)
		start := time.Now()
		v, err := c.compute(key)
		c.recorder.ObserveCompute(c.name, time.Since(start))
		if err != nil {
			return v, err
		}

		// Store before the flight ends so later callers hit the map
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	v, _ := res.(V)
	return v, nil
}

// Len returns the number of memoized keys
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[K, V]) lookup(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// flightKey maps a comparable key onto singleflight's string key space
// The dynamic type is part of the key so int(1) and int64(1) stay apart when K is an interface.
// K's %#v rendering must be injective: keys that print alike share one flight.
func flightKey[K comparable](key K) string {
	return fmt.Sprintf("%T:%#v", key, key)
}
