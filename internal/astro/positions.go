package astro

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/models"
)

// Calculator turns civil instants into annotated position sets. All math is
// pure given the ephemeris outputs; the ephemeris itself is injected.
type Calculator struct {
	cfg    Config
	eph    models.Ephemeris
	logger zerolog.Logger
}

// NewCalculator creates a position calculator over the given ephemeris port.
func NewCalculator(cfg Config, eph models.Ephemeris) *Calculator {
	return &Calculator{
		cfg:    cfg,
		eph:    eph,
		logger: log.With().Str("component", "position_calculator").Logger(),
	}
}

// BirthChart computes every tracked body position, the house cusps and angles
// for the chosen system, and the natal aspects. Bodies the ephemeris fails on
// are omitted with a warning; partial charts are valid.
func (c *Calculator) BirthChart(ctx context.Context, data models.BirthData) (*models.BirthChart, error) {
	if !data.Complete() {
		return nil, models.ErrInsufficientBirthData
	}

	jd := JulianDayFromTime(data.BirthUTC)

	set, err := c.eph.Positions(ctx, jd, models.TrackedBodies)
	if err != nil {
		return nil, fmt.Errorf("natal positions: %w", err)
	}
	for body, reason := range set.Failed {
		c.logger.Warn().Str("body", string(body)).Str("reason", reason).Msg("body omitted from chart")
	}

	chart := &models.BirthChart{
		UserID:      data.UserID,
		Revision:    data.Revision,
		JulianDay:   jd,
		Positions:   make(map[models.Body]models.Position, len(set.Positions)+1),
		Approximate: set.Approximate,
		ComputedAt:  time.Now().UTC(),
	}

	houses, err := c.eph.Houses(ctx, jd, data.Latitude, data.Longitude, data.HouseSystem)
	if err != nil {
		// Degrade to solar houses rather than failing the chart.
		c.logger.Warn().Err(err).Str("system", string(data.HouseSystem)).Msg("house calculation failed, using solar houses")
		houses = nil
	}

	for body, ep := range set.Positions {
		chart.Positions[body] = annotate(body, ep, houses)
	}

	// The south node is always exactly opposite the north node.
	if nn, ok := set.Positions[models.NorthNode]; ok {
		south := models.EphemerisPosition{
			Longitude: normalizeDegrees(nn.Longitude + 180),
			Latitude:  -nn.Latitude,
			Distance:  nn.Distance,
			Speed:     nn.Speed,
		}
		chart.Positions[models.SouthNode] = annotate(models.SouthNode, south, houses)
	}

	if houses != nil {
		chart.Cusps = houses.Cusps
		chart.Ascendant = houses.Ascendant
		chart.Midheaven = houses.Midheaven
		chart.Descendant = normalizeDegrees(houses.Ascendant + 180)
		chart.ImumCoeli = normalizeDegrees(houses.Midheaven + 180)
	}

	chart.Aspects = DetectNatalAspects(chart.Positions, c.cfg)
	return chart, nil
}

// Transits computes the shared snapshot for an instant, with solar house
// annotations and the lunar phase.
func (c *Calculator) Transits(ctx context.Context, at time.Time) (*models.TransitSnapshot, error) {
	at = at.UTC()
	jd := JulianDayFromTime(at)

	set, err := c.eph.Positions(ctx, jd, models.TrackedBodies)
	if err != nil {
		return nil, fmt.Errorf("transit positions: %w", err)
	}
	for body, reason := range set.Failed {
		c.logger.Warn().Str("body", string(body)).Str("reason", reason).Msg("body omitted from transits")
	}

	snap := &models.TransitSnapshot{
		Date:        at.Format("2006-01-02"),
		JulianDay:   jd,
		Positions:   make(map[models.Body]models.Position, len(set.Positions)),
		Approximate: set.Approximate,
		ComputedAt:  time.Now().UTC(),
	}
	for body, ep := range set.Positions {
		snap.Positions[body] = annotate(body, ep, nil)
	}

	sun, sunOK := set.Positions[models.Sun]
	moon, moonOK := set.Positions[models.Moon]
	if sunOK && moonOK {
		snap.LunarPhase = Phase(moon.Longitude, sun.Longitude)
	}

	return snap, nil
}

// annotate derives sign, in-sign degree, retrograde flag and house placement
// from a raw ephemeris position. With no cusps the solar house index
// floor(longitude/30)+1 is used.
func annotate(body models.Body, ep models.EphemerisPosition, houses *models.HouseData) models.Position {
	lon := normalizeDegrees(ep.Longitude)
	signIdx := int(math.Floor(lon/30)) % 12

	pos := models.Position{
		Body:       body,
		Longitude:  lon,
		Latitude:   ep.Latitude,
		Distance:   ep.Distance,
		Speed:      ep.Speed,
		Sign:       models.ZodiacSigns[signIdx],
		Degree:     math.Mod(lon, 30),
		Retrograde: ep.Speed < 0,
		House:      signIdx + 1,
	}
	if houses != nil {
		pos.House = houseOf(lon, houses.Cusps)
	}
	return pos
}

// houseOf places a longitude into one of twelve cusp-bounded houses.
func houseOf(lon float64, cusps [12]float64) int {
	for i := 0; i < 12; i++ {
		start := cusps[i]
		end := cusps[(i+1)%12]
		if inArc(lon, start, end) {
			return i + 1
		}
	}
	// Unreachable with well-formed cusps; fall back to the solar index.
	return int(math.Floor(lon/30))%12 + 1
}

// inArc reports whether lon lies in the zodiacal arc [start, end), handling
// the 360 wraparound.
func inArc(lon, start, end float64) bool {
	if start <= end {
		return lon >= start && lon < end
	}
	return lon >= start || lon < end
}
