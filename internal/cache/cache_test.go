package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovia/engine/models"
)

func TestChartCache(t *testing.T) {
	c := NewChartCache()

	chart := &models.BirthChart{UserID: 1, Revision: 1}
	c.Put(chart)

	got, ok := c.Get(1, 1)
	require.True(t, ok)
	assert.Same(t, chart, got)

	t.Run("revision miss", func(t *testing.T) {
		_, ok := c.Get(1, 2)
		assert.False(t, ok, "a corrected birth time must never serve the old chart")
	})

	t.Run("invalidate drops every revision", func(t *testing.T) {
		c.Put(&models.BirthChart{UserID: 1, Revision: 2})
		c.Put(&models.BirthChart{UserID: 2, Revision: 1})

		c.Invalidate(1)
		_, ok := c.Get(1, 1)
		assert.False(t, ok)
		_, ok = c.Get(1, 2)
		assert.False(t, ok)
		_, ok = c.Get(2, 1)
		assert.True(t, ok, "other users keep their charts")
	})
}

func TestTransitCache(t *testing.T) {
	now := time.Date(2026, time.August, 28, 9, 0, 0, 0, time.UTC)
	c := NewTransitCache()
	c.now = func() time.Time { return now }

	snap := &models.TransitSnapshot{Date: "2026-08-28"}
	c.Put(snap)

	t.Run("serves within TTL", func(t *testing.T) {
		now = now.Add(59 * time.Minute)
		got, ok := c.Get("2026-08-28")
		require.True(t, ok)
		assert.Same(t, snap, got)
	})

	t.Run("expires at TTL", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		_, ok := c.Get("2026-08-28")
		assert.False(t, ok, "stale snapshots must never be served past the TTL")
	})

	t.Run("unknown date misses", func(t *testing.T) {
		_, ok := c.Get("2026-08-29")
		assert.False(t, ok)
	})
}
