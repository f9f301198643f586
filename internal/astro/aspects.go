package astro

import (
	"math"
	"sort"

	"github.com/astrovia/engine/models"
)

// Separation returns the angular distance between two ecliptic longitudes
// as the shorter arc, in [0, 180].
func Separation(a, b float64) float64 {
	diff := math.Abs(normalizeDegrees(a) - normalizeDegrees(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// classify matches an angular separation against the nearest active aspect
// type. Returns ok=false when the orb exceeds the type's tolerance.
func classify(angle float64, cfg Config) (models.AspectType, float64, float64, bool) {
	var (
		best     models.AspectType
		bestDist = math.MaxFloat64
	)
	for _, t := range cfg.ActiveAspects() {
		dist := math.Abs(angle - cfg.Angles[t])
		if dist < bestDist {
			bestDist = dist
			best = t
		}
	}

	tolerance := cfg.Orbs[best]
	if bestDist > tolerance {
		return "", 0, 0, false
	}
	strength := (tolerance - bestDist) / tolerance
	return best, bestDist, strength, true
}

// DetectNatalAspects finds every within-orb aspect between unordered pairs of
// a single position set, strongest first.
func DetectNatalAspects(positions map[models.Body]models.Position, cfg Config) []models.Aspect {
	bodies := orderedBodies(positions)

	var aspects []models.Aspect
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := positions[bodies[i]], positions[bodies[j]]
			angle := Separation(a.Longitude, b.Longitude)
			t, orb, strength, ok := classify(angle, cfg)
			if !ok {
				continue
			}
			aspects = append(aspects, models.Aspect{
				BodyA:    bodies[i],
				BodyB:    bodies[j],
				Type:     t,
				Angle:    angle,
				Orb:      orb,
				Strength: strength,
				Exact:    orb < 1,
			})
		}
	}

	sortAspects(aspects)
	return aspects
}

// DetectTransitAspects finds aspects from each transiting body to each natal
// body. Applying uses the transiting body's speed sign as a coarse proxy:
// a direct-moving body is treated as approaching exactness.
func DetectTransitAspects(transits, natal map[models.Body]models.Position, cfg Config) []models.Aspect {
	transitBodies := orderedBodies(transits)
	natalBodies := orderedBodies(natal)

	var aspects []models.Aspect
	for _, tb := range transitBodies {
		for _, nb := range natalBodies {
			tp, np := transits[tb], natal[nb]
			angle := Separation(tp.Longitude, np.Longitude)
			t, orb, strength, ok := classify(angle, cfg)
			if !ok {
				continue
			}
			aspects = append(aspects, models.Aspect{
				BodyA:    tb,
				BodyB:    nb,
				Type:     t,
				Angle:    angle,
				Orb:      orb,
				Strength: strength,
				Exact:    orb < 1,
				Applying: tp.Speed > 0,
			})
		}
	}

	sortAspects(aspects)
	return aspects
}

// sortAspects orders by strength descending with a stable body-name
// tie-break so output is reproducible.
func sortAspects(aspects []models.Aspect) {
	sort.Slice(aspects, func(i, j int) bool {
		if aspects[i].Strength != aspects[j].Strength {
			return aspects[i].Strength > aspects[j].Strength
		}
		if aspects[i].BodyA != aspects[j].BodyA {
			return aspects[i].BodyA < aspects[j].BodyA
		}
		return aspects[i].BodyB < aspects[j].BodyB
	})
}

// orderedBodies returns the set's bodies in canonical order so map iteration
// never changes results.
func orderedBodies(positions map[models.Body]models.Position) []models.Body {
	canonical := append(append([]models.Body{}, models.TrackedBodies...), models.SouthNode)

	bodies := make([]models.Body, 0, len(positions))
	for _, b := range canonical {
		if _, ok := positions[b]; ok {
			bodies = append(bodies, b)
		}
	}
	return bodies
}
