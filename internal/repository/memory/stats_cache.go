package memory

import (
	"context"
	"sync"

	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
)

// StatsCache is an attendance.StatsCache that never expires and counts
// invalidations.
type StatsCache struct {
	mu            sync.Mutex
	stats         *attendance.Stats
	invalidations int
}

func (c *StatsCache) Get(context.Context) (attendance.Stats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return attendance.Stats{}, false, nil
	}
	return *c.stats, true, nil
}

func (c *StatsCache) Set(_ context.Context, s attendance.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = &s
	return nil
}

func (c *StatsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	c.invalidations++
	return nil
}

// Cached reports whether stats are currently held.
func (c *StatsCache) Cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats != nil
}

func (c *StatsCache) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}
