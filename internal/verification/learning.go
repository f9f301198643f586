package verification

import (
	"math"

	"github.com/astrovia/engine/models"
)

// Bounds and step sizes of the heuristic parameter adjustment. This is
// deliberately not model training: a bounded nudge per resolved batch.
const (
	MultiplierFloor = 0.1
	MultiplierCeil  = 2.0

	expiredNudge  = -0.01
	learningNudge = 0.05
	accuracyBar   = 3.5 // of 5
)

// BatchStats summarizes one learning batch.
type BatchStats struct {
	Samples     int
	AvgAccuracy float64
	Correlation float64 // Pearson between original confidence and accuracy
	Delta       float64 // multiplier nudge to apply
}

// AnalyzeBatch computes the adjustment for a category's accumulated feedback.
// Returns ok=false while the batch is smaller than minSamples.
func AnalyzeBatch(samples []models.FeedbackSample, minSamples int) (BatchStats, bool) {
	if len(samples) < minSamples {
		return BatchStats{}, false
	}

	sum := 0.0
	for _, s := range samples {
		sum += float64(s.Accuracy)
	}
	avg := sum / float64(len(samples))

	delta := learningNudge
	if avg <= accuracyBar {
		delta = -learningNudge
	}

	return BatchStats{
		Samples:     len(samples),
		AvgAccuracy: avg,
		Correlation: pearson(samples),
		Delta:       delta,
	}, true
}

// pearson computes the correlation between predicted confidence and reported
// accuracy. Zero when either side has no variance.
func pearson(samples []models.FeedbackSample) float64 {
	n := float64(len(samples))
	if n < 2 {
		return 0
	}

	var sumX, sumY float64
	for _, s := range samples {
		sumX += s.Confidence
		sumY += float64(s.Accuracy)
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for _, s := range samples {
		dx := s.Confidence - meanX
		dy := float64(s.Accuracy) - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
