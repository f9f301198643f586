package astro

import (
	"math"

	"github.com/astrovia/engine/models"
)

// phaseBucket is one 45-degree slice of the lunation cycle.
type phaseBucket struct {
	name  string
	boost float64
}

// Eight buckets centered on the cardinal phase angles: New at 0, First
// Quarter at 90, Full at 180, Last Quarter at 270.
var phaseBuckets = [8]phaseBucket{
	{"New Moon", 0.8},
	{"Waxing Crescent", 0.4},
	{"First Quarter", 0.6},
	{"Waxing Gibbous", 0.7},
	{"Full Moon", 0.9},
	{"Waning Gibbous", 0.5},
	{"Last Quarter", 0.6},
	{"Waning Crescent", 0.3},
}

// Phase buckets the moon-sun elongation into one of the eight named phases.
func Phase(moonLongitude, sunLongitude float64) models.LunarPhase {
	angle := normalizeDegrees(moonLongitude - sunLongitude)

	// Shift by half a bucket so each phase is centered on its exact angle.
	idx := int(math.Floor(normalizeDegrees(angle+22.5)/45)) % 8
	b := phaseBuckets[idx]

	return models.LunarPhase{
		Name:  b.name,
		Angle: angle,
		Boost: b.boost,
	}
}
