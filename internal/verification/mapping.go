// Package verification closes the prediction loop: it maps user feedback to
// terminal statuses, expires overdue predictions, and nudges template
// multipliers from batched outcome correlation.
package verification

import (
	"github.com/astrovia/engine/models"
)

// MapFeedback resolves a feedback submission to the terminal status it
// implies. An explicit accuracy rating wins over the textual type; anything
// ambiguous counts as a plain user confirmation.
func MapFeedback(fb *models.PredictionFeedback) models.VerificationStatus {
	if fb.AccuracyRating >= 1 && fb.AccuracyRating <= 5 {
		switch {
		case fb.AccuracyRating >= 4:
			return models.StatusVerified
		case fb.AccuracyRating == 3:
			return models.StatusPartiallyAccurate
		default:
			return models.StatusUserDenied
		}
	}

	switch fb.FeedbackType {
	case models.FeedbackAccurate:
		return models.StatusVerified
	case models.FeedbackPartiallyAccurate:
		return models.StatusPartiallyAccurate
	case models.FeedbackInaccurate:
		return models.StatusUserDenied
	default:
		return models.StatusUserConfirmed
	}
}
