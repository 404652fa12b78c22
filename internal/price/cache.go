package price

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/shopspring/decimal"
)

// Cache holds recent USD prices keyed by token symbol.
type Cache struct {
	store *ristretto.Cache
	ttl   time.Duration
}

// NewCache creates a price cache whose entries expire after ttl. A non-positive ttl keeps entries
// until they are evicted.
func NewCache(ttl time.Duration) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1_000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating price cache: %w", err)
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// Get returns the cached price for symbol.
func (c *Cache) Get(symbol string) (decimal.Decimal, bool) {
	v, ok := c.store.Get(symbol)
	if !ok {
		return decimal.Zero, false
	}
	p, ok := v.(decimal.Decimal)
	return p, ok
}

// Set stores a price. Writes are buffered; call Wait to make them visible to Get.
func (c *Cache) Set(symbol string, price decimal.Decimal) {
	if c.ttl > 0 {
		c.store.SetWithTTL(symbol, price, 1, c.ttl)
		return
	}
	c.store.Set(symbol, price, 1)
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	c.store.Wait()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.store.Close()
}
