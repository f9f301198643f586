package ephemeris

import (
	"context"
	"math"

	"github.com/astrovia/engine/models"
)

// meanElement holds J2000 mean longitude and mean daily motion for the
// linear approximation used when the real ephemeris is unreachable.
type meanElement struct {
	longitude float64 // degrees at J2000.0
	motion    float64 // degrees per day
	distance  float64 // AU, rough constant
}

var meanElements = map[models.Body]meanElement{
	models.Sun:       {280.460, 0.98564736, 1.000},
	models.Moon:      {218.316, 13.17639648, 0.00257},
	models.Mercury:   {252.251, 4.09233445, 0.466},
	models.Venus:     {181.980, 1.60213034, 0.728},
	models.Mars:      {355.433, 0.52402068, 1.524},
	models.Jupiter:   {34.351, 0.08308529, 5.203},
	models.Saturn:    {50.077, 0.03344414, 9.537},
	models.Uranus:    {314.055, 0.01172834, 19.191},
	models.Neptune:   {304.348, 0.00598103, 30.069},
	models.Pluto:     {238.929, 0.00397671, 39.482},
	models.NorthNode: {125.045, -0.05295377, 0.00257},
}

const j2000 = 2451545.0

// Fallback approximates positions from mean orbital elements. Results are
// accurate to a few degrees for the slow bodies and worse for the moon, which
// is enough for a degraded-mode transit reading but never for a birth chart a
// user will keep. Every result set is flagged Approximate.
type Fallback struct{}

// NewFallback creates the degraded-mode ephemeris.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Positions returns linearly propagated mean longitudes.
func (f *Fallback) Positions(_ context.Context, julianDay float64, bodies []models.Body) (*models.PositionSet, error) {
	days := julianDay - j2000

	set := &models.PositionSet{
		Positions:   make(map[models.Body]models.EphemerisPosition, len(bodies)),
		Failed:      make(map[models.Body]string),
		Approximate: true,
	}
	for _, body := range bodies {
		el, ok := meanElements[body]
		if !ok {
			set.Failed[body] = "no mean elements"
			continue
		}
		set.Positions[body] = models.EphemerisPosition{
			Longitude: wrap360(el.longitude + el.motion*days),
			Latitude:  0,
			Distance:  el.distance,
			Speed:     el.motion,
		}
	}
	return set, nil
}

// Houses returns equal houses anchored at an approximated ascendant computed
// from local sidereal time. System choice is ignored in degraded mode.
func (f *Fallback) Houses(_ context.Context, julianDay, lat, lon float64, _ models.HouseSystem) (*models.HouseData, error) {
	const obliquity = 23.4393 * math.Pi / 180

	// Local sidereal time in degrees.
	lst := wrap360(280.46061837 + 360.98564736629*(julianDay-j2000) + lon)
	ramc := lst * math.Pi / 180
	latRad := lat * math.Pi / 180

	asc := math.Atan2(
		math.Cos(ramc),
		-(math.Sin(ramc)*math.Cos(obliquity) + math.Tan(latRad)*math.Sin(obliquity)),
	) * 180 / math.Pi
	asc = wrap360(asc)

	mc := math.Atan2(math.Sin(ramc), math.Cos(ramc)*math.Cos(obliquity)) * 180 / math.Pi
	mc = wrap360(mc)

	houses := &models.HouseData{Ascendant: asc, Midheaven: mc}
	for i := 0; i < 12; i++ {
		houses.Cusps[i] = wrap360(asc + float64(i)*30)
	}
	return houses, nil
}

func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
