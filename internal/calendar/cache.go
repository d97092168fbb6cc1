package calendar

import (
	"sync"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
)

type cacheKey struct {
	day    string
	period domain.PeriodType
}

// Cache memoizes grids by reference date and period.
// Grids are immutable once generated, so cached values are shared.
// It is safe for concurrent use.
type Cache struct {
	grids map[cacheKey]*Grid
	mu    sync.RWMutex
}

// NewCache creates an empty grid cache.
func NewCache() *Cache {
	return &Cache{grids: make(map[cacheKey]*Grid)}
}

// Get returns the grid for (reference, period), generating it on first use.
func (c *Cache) Get(reference time.Time, period domain.PeriodType) (*Grid, error) {
	key := cacheKey{day: domain.DayKey(domain.DateOf(reference)), period: period}

	c.mu.RLock()
	g, ok := c.grids[key]
	c.mu.RUnlock()
	if ok {
		return g, nil
	}

	g, err := Generate(reference, period)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.grids[key]; ok {
		return existing, nil
	}
	c.grids[key] = g
	return g, nil
}

// Len returns the number of cached grids.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}
