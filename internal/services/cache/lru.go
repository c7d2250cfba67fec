package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"loan-affordability-engine/internal/models"
)

type cachedQuote struct {
	Quote    models.MaxLoanQuote
	CachedAt time.Time
}

// LRU is an in-process QuoteCache with size-bounded eviction and
// time-based expiration.
type LRU struct {
	lru *expirable.LRU[string, *cachedQuote]
}

// NewLRU creates an LRU holding at most size quotes, each for at most ttl.
func NewLRU(size int, ttl time.Duration) *LRU {
	return &LRU{
		lru: expirable.NewLRU[string, *cachedQuote](size, nil, ttl),
	}
}

// Get returns the cached quote for key, if present and not expired.
func (c *LRU) Get(_ context.Context, key string) (models.MaxLoanQuote, bool) {
	entry, found := c.lru.Get(key)
	if !found {
		return models.MaxLoanQuote{}, false
	}
	return entry.Quote, true
}

// Set stores a quote.
func (c *LRU) Set(_ context.Context, key string, quote models.MaxLoanQuote) {
	c.lru.Add(key, &cachedQuote{Quote: quote, CachedAt: time.Now()})
}

// Len returns the number of cached quotes.
func (c *LRU) Len() int {
	return c.lru.Len()
}

// Clear removes all entries from the cache.
func (c *LRU) Clear() {
	c.lru.Purge()
}
