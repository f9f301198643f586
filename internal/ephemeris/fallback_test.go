package ephemeris

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovia/engine/models"
)

func TestFallbackPositions(t *testing.T) {
	f := NewFallback()

	t.Run("J2000 epoch returns mean longitudes", func(t *testing.T) {
		set, err := f.Positions(context.Background(), j2000, models.TrackedBodies)
		require.NoError(t, err)

		assert.True(t, set.Approximate)
		assert.Len(t, set.Positions, len(models.TrackedBodies))
		assert.InDelta(t, 280.460, set.Positions[models.Sun].Longitude, 1e-9)
		assert.InDelta(t, 125.045, set.Positions[models.NorthNode].Longitude, 1e-9)
	})

	t.Run("propagation wraps at 360", func(t *testing.T) {
		// One year of solar motion lands close to the starting longitude.
		set, err := f.Positions(context.Background(), j2000+365.25, []models.Body{models.Sun})
		require.NoError(t, err)

		lon := set.Positions[models.Sun].Longitude
		assert.GreaterOrEqual(t, lon, 0.0)
		assert.Less(t, lon, 360.0)
		assert.InDelta(t, 280.460, lon, 1.0)
	})

	t.Run("node regresses", func(t *testing.T) {
		set, err := f.Positions(context.Background(), j2000+100, []models.Body{models.NorthNode})
		require.NoError(t, err)
		assert.Negative(t, set.Positions[models.NorthNode].Speed)
		assert.Less(t, set.Positions[models.NorthNode].Longitude, 125.045)
	})

	t.Run("unknown body is reported failed", func(t *testing.T) {
		set, err := f.Positions(context.Background(), j2000, []models.Body{models.SouthNode})
		require.NoError(t, err)
		assert.Empty(t, set.Positions)
		assert.Contains(t, set.Failed, models.SouthNode)
	})
}

func TestFallbackHouses(t *testing.T) {
	f := NewFallback()

	houses, err := f.Houses(context.Background(), j2000, 40.7128, -74.0060, models.Placidus)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, houses.Ascendant, 0.0)
	assert.Less(t, houses.Ascendant, 360.0)
	assert.Equal(t, houses.Ascendant, houses.Cusps[0])
	for i := 1; i < 12; i++ {
		assert.InDelta(t, wrap360(houses.Ascendant+float64(i)*30), houses.Cusps[i], 1e-9, "cusp %d", i+1)
	}
}

type stubEphemeris struct {
	set    *models.PositionSet
	houses *models.HouseData
	err    error
	calls  int
}

func (s *stubEphemeris) Positions(_ context.Context, _ float64, _ []models.Body) (*models.PositionSet, error) {
	s.calls++
	return s.set, s.err
}

func (s *stubEphemeris) Houses(_ context.Context, _, _, _ float64, _ models.HouseSystem) (*models.HouseData, error) {
	s.calls++
	return s.houses, s.err
}

func TestWithFallback(t *testing.T) {
	healthySet := &models.PositionSet{
		Positions: map[models.Body]models.EphemerisPosition{models.Sun: {Longitude: 84.5}},
	}

	t.Run("primary serves when healthy", func(t *testing.T) {
		fallback := &stubEphemeris{}
		eph := WithFallback(&stubEphemeris{set: healthySet}, fallback)

		set, err := eph.Positions(context.Background(), j2000, []models.Body{models.Sun})
		require.NoError(t, err)
		assert.False(t, set.Approximate)
		assert.Zero(t, fallback.calls)
	})

	t.Run("degrades on unavailability", func(t *testing.T) {
		primary := &stubEphemeris{err: models.ErrEphemerisUnavailable}
		eph := WithFallback(primary, NewFallback())

		set, err := eph.Positions(context.Background(), j2000, []models.Body{models.Sun})
		require.NoError(t, err)
		assert.True(t, set.Approximate)

		houses, err := eph.Houses(context.Background(), j2000, 40.7, -74.0, models.Placidus)
		require.NoError(t, err)
		assert.NotNil(t, houses)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		fallback := &stubEphemeris{}
		eph := WithFallback(&stubEphemeris{err: errors.New("bad request")}, fallback)

		_, err := eph.Positions(context.Background(), j2000, []models.Body{models.Sun})
		assert.Error(t, err)
		assert.Zero(t, fallback.calls)
	})
}
