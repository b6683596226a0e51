// Package cache keeps recently enriched draws in memory.
//
// Published draws never change, so an entry stays valid until it expires or
// is evicted by newer lookups.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/screwyprof/lotto/lotto"
)

// Observer receives cache lookup telemetry
type Observer interface {
	ObserveCacheLookup(hit bool)
}

type nopObserver struct{}

func (nopObserver) ObserveCacheLookup(bool) {}

// Option configures Results
type Option func(*Results)

// WithObserver reports every lookup to o
func WithObserver(o Observer) Option {
	return func(c *Results) { c.observer = o }
}

// Results is a size-bounded TTL cache of enriched draws keyed by draw number.
// A nil *Results is a disabled cache.
type Results struct {
	lru      *expirable.LRU[int, lotto.EnrichedResult]
	observer Observer
}

// New creates a cache holding at most size draws for ttl each.
// A size of 0 or less disables caching and returns nil.
func New(size int, ttl time.Duration, opts ...Option) *Results {
	if size <= 0 {
		return nil
	}

	c := &Results{
		lru:      expirable.NewLRU[int, lotto.EnrichedResult](size, nil, ttl),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached draw, if present and not expired.
func (c *Results) Get(drwNo int) (lotto.EnrichedResult, bool) {
	if c == nil {
		return lotto.EnrichedResult{}, false
	}

	res, ok := c.lru.Get(drwNo)
	c.observer.ObserveCacheLookup(ok)
	return res, ok
}

// Add stores a draw, replacing any previous entry.
func (c *Results) Add(res lotto.EnrichedResult) {
	if c == nil {
		return
	}
	c.lru.Add(res.DrwNo, res)
}

// Len returns the number of cached draws.
func (c *Results) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
