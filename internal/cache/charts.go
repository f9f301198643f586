// Package cache holds the two in-process caches: birth charts keyed by user
// and revision with no expiry, and the shared transit snapshot with an hourly
// TTL. Both are plain read-through maps; the computations they front are pure
// and cheap enough that redundant recomputation on concurrent misses is fine.
package cache

import (
	"sync"

	"github.com/astrovia/engine/models"
)

type chartKey struct {
	userID   int64
	revision int
}

// ChartCache caches birth charts indefinitely. The key includes the birth
// data revision, so a corrected birth time can never serve a stale chart.
type ChartCache struct {
	mu     sync.RWMutex
	charts map[chartKey]*models.BirthChart
}

// NewChartCache creates an empty chart cache.
func NewChartCache() *ChartCache {
	return &ChartCache{charts: make(map[chartKey]*models.BirthChart)}
}

// Get returns the cached chart for a user at a specific birth-data revision.
func (c *ChartCache) Get(userID int64, revision int) (*models.BirthChart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	chart, ok := c.charts[chartKey{userID, revision}]
	return chart, ok
}

// Put stores a computed chart. A concurrent write-after-read overwrite is
// harmless: chart computation is pure given the birth data.
func (c *ChartCache) Put(chart *models.BirthChart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.charts[chartKey{chart.UserID, chart.Revision}] = chart
}

// Invalidate drops every cached revision for a user, called when their birth
// data changes.
func (c *ChartCache) Invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.charts {
		if key.userID == userID {
			delete(c.charts, key)
		}
	}
}
