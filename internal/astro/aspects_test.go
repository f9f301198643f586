package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovia/engine/models"
)

func positionsAt(longitudes map[models.Body]float64) map[models.Body]models.Position {
	result := make(map[models.Body]models.Position, len(longitudes))
	for body, lon := range longitudes {
		result[body] = models.Position{Body: body, Longitude: lon}
	}
	return result
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected float64
	}{
		{"identical", 100, 100, 0},
		{"simple", 10, 100, 90},
		{"wraparound", 350, 10, 20},
		{"opposition", 0, 180, 180},
		{"long way round", 10, 250, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Separation(tt.a, tt.b), 1e-9)
			// Symmetric by definition.
			assert.InDelta(t, Separation(tt.a, tt.b), Separation(tt.b, tt.a), 1e-9)
		})
	}
}

func TestDetectNatalAspects(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("exact conjunction has strength 1", func(t *testing.T) {
		positions := positionsAt(map[models.Body]float64{
			models.Venus: 15,
			models.Moon:  15,
		})
		aspects := DetectNatalAspects(positions, cfg)
		require.Len(t, aspects, 1)

		asp := aspects[0]
		assert.Equal(t, models.Conjunction, asp.Type)
		assert.InDelta(t, 1.0, asp.Strength, 1e-9)
		assert.InDelta(t, 0.0, asp.Orb, 1e-9)
		assert.True(t, asp.Exact)
	})

	t.Run("within orb scales strength linearly", func(t *testing.T) {
		// 94 degrees apart: square with a 4 degree orb against tolerance 6.
		positions := positionsAt(map[models.Body]float64{
			models.Sun:  0,
			models.Mars: 94,
		})
		aspects := DetectNatalAspects(positions, cfg)
		require.Len(t, aspects, 1)

		asp := aspects[0]
		assert.Equal(t, models.Square, asp.Type)
		assert.InDelta(t, 4.0, asp.Orb, 1e-9)
		assert.InDelta(t, (6.0-4.0)/6.0, asp.Strength, 1e-9)
		assert.False(t, asp.Exact)
	})

	t.Run("outside every tolerance records nothing", func(t *testing.T) {
		positions := positionsAt(map[models.Body]float64{
			models.Sun:  0,
			models.Mars: 75,
		})
		assert.Empty(t, DetectNatalAspects(positions, cfg))
	})

	t.Run("strength never leaves the unit interval", func(t *testing.T) {
		positions := positionsAt(map[models.Body]float64{
			models.Sun:     1,
			models.Moon:    62,
			models.Mercury: 118.5,
			models.Venus:   181,
			models.Mars:    272,
		})
		for _, asp := range DetectNatalAspects(positions, cfg) {
			assert.GreaterOrEqual(t, asp.Strength, 0.0)
			assert.LessOrEqual(t, asp.Strength, 1.0)
			assert.LessOrEqual(t, asp.Orb, cfg.Orbs[asp.Type])
		}
	})

	t.Run("sorted by strength descending", func(t *testing.T) {
		positions := positionsAt(map[models.Body]float64{
			models.Sun:   0,
			models.Moon:  120, // exact trine
			models.Venus: 64,  // sextile, 4 degree orb
		})
		aspects := DetectNatalAspects(positions, cfg)
		require.NotEmpty(t, aspects)
		for i := 1; i < len(aspects); i++ {
			assert.GreaterOrEqual(t, aspects[i-1].Strength, aspects[i].Strength)
		}
	})

	t.Run("minor aspects only when enabled", func(t *testing.T) {
		positions := positionsAt(map[models.Body]float64{
			models.Sun:  0,
			models.Moon: 45, // exact semisquare
		})
		assert.Empty(t, DetectNatalAspects(positions, cfg))

		minor := cfg
		minor.IncludeMinorAspects = true
		aspects := DetectNatalAspects(positions, minor)
		require.Len(t, aspects, 1)
		assert.Equal(t, models.Semisquare, aspects[0].Type)
	})
}

func TestDetectTransitAspects(t *testing.T) {
	cfg := DefaultConfig()

	transits := map[models.Body]models.Position{
		models.Venus:  {Body: models.Venus, Longitude: 100, Speed: 1.2},
		models.Saturn: {Body: models.Saturn, Longitude: 305, Speed: -0.05},
	}
	natal := positionsAt(map[models.Body]float64{
		models.Venus: 100, // exact conjunction to transiting venus
		models.Moon:  125, // exact opposition to transiting saturn
	})

	aspects := DetectTransitAspects(transits, natal, cfg)
	require.Len(t, aspects, 2)

	byPair := make(map[models.Body]models.Aspect)
	for _, asp := range aspects {
		byPair[asp.BodyA] = asp
	}

	venus := byPair[models.Venus]
	assert.Equal(t, models.Conjunction, venus.Type)
	assert.InDelta(t, 1.0, venus.Strength, 1e-9)
	assert.True(t, venus.Exact)
	assert.True(t, venus.Applying, "direct motion counts as applying")

	saturn := byPair[models.Saturn]
	assert.Equal(t, models.Opposition, saturn.Type)
	assert.False(t, saturn.Applying, "retrograde motion counts as separating")
}

func TestCustomTolerances(t *testing.T) {
	// The config is a value: alternate orb tables need no global state.
	cfg := DefaultConfig()
	cfg.Orbs[models.Conjunction] = 1 // map share is fine within the test

	positions := positionsAt(map[models.Body]float64{
		models.Sun:  0,
		models.Moon: 3,
	})
	assert.Empty(t, DetectNatalAspects(positions, cfg))
}
