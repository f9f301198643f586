package ephemeris

import (
	"context"
	"fmt"

	"github.com/astrovia/engine/models"
)

// Fixed is a deterministic ephemeris returning preset positions regardless of
// the requested instant. Used by tests and the demo binary so chart and
// aspect logic can run without the real astronomical backend.
type Fixed struct {
	Bodies map[models.Body]models.EphemerisPosition
	House  models.HouseData
	// FailBodies simulates per-body failures.
	FailBodies map[models.Body]string
	// Err simulates total unavailability.
	Err error
}

func (f *Fixed) Positions(_ context.Context, _ float64, bodies []models.Body) (*models.PositionSet, error) {
	if f.Err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEphemerisUnavailable, f.Err)
	}
	set := &models.PositionSet{
		Positions: make(map[models.Body]models.EphemerisPosition),
		Failed:    make(map[models.Body]string),
	}
	for _, b := range bodies {
		if reason, failed := f.FailBodies[b]; failed {
			set.Failed[b] = reason
			continue
		}
		if pos, ok := f.Bodies[b]; ok {
			set.Positions[b] = pos
		}
	}
	return set, nil
}

func (f *Fixed) Houses(_ context.Context, _, _, _ float64, _ models.HouseSystem) (*models.HouseData, error) {
	if f.Err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEphemerisUnavailable, f.Err)
	}
	h := f.House
	return &h, nil
}
