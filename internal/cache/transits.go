package cache

import (
	"sync"
	"time"

	"github.com/astrovia/engine/models"
)

// TransitTTL bounds how long a shared transit snapshot may be served.
const TransitTTL = time.Hour

type transitEntry struct {
	snapshot *models.TransitSnapshot
	storedAt time.Time
}

// TransitCache caches the per-date transit snapshot shared by every user.
// Expiry is checked on read so a stale snapshot is never served past its TTL.
type TransitCache struct {
	mu      sync.RWMutex
	entries map[string]transitEntry
	now     func() time.Time
}

// NewTransitCache creates an empty transit cache.
func NewTransitCache() *TransitCache {
	return &TransitCache{
		entries: make(map[string]transitEntry),
		now:     time.Now,
	}
}

// Get returns the snapshot for a date key if present and within TTL.
func (c *TransitCache) Get(date string) (*models.TransitSnapshot, bool) {
	c.mu.RLock()
	entry, ok := c.entries[date]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) >= TransitTTL {
		return nil, false
	}
	return entry.snapshot, true
}

// Put stores a snapshot under its date key, resetting the TTL.
func (c *TransitCache) Put(snapshot *models.TransitSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[snapshot.Date] = transitEntry{snapshot: snapshot, storedAt: c.now()}

	// Opportunistically drop entries for past dates.
	for date := range c.entries {
		if date != snapshot.Date {
			delete(c.entries, date)
		}
	}
}
