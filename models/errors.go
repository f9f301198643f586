package models

import "errors"

// Error kinds surfaced to callers. Matched with errors.Is; wrap with %w.
var (
	// ErrEphemerisUnavailable means the astronomical backend is down as a
	// whole. Generation degrades to approximate positions instead of failing.
	ErrEphemerisUnavailable = errors.New("ephemeris unavailable")

	// ErrInsufficientBirthData means no personalized chart can be computed.
	ErrInsufficientBirthData = errors.New("insufficient birth data")

	// ErrInsufficientConditions means confidence stayed below the floor and
	// generation was refused rather than silently downgraded.
	ErrInsufficientConditions = errors.New("insufficient astrological conditions")

	// ErrPredictionLimit means the per-user pending cap was hit.
	ErrPredictionLimit = errors.New("pending prediction limit exceeded")

	// ErrPremiumRequired means the category is gated behind a subscription.
	ErrPremiumRequired = errors.New("premium subscription required")

	// ErrPredictionNotFound means no such prediction for this user.
	ErrPredictionNotFound = errors.New("prediction not found")

	// ErrAlreadyVerified means the prediction already reached a terminal
	// status; the submission was rejected, not double-applied.
	ErrAlreadyVerified = errors.New("prediction already verified")
)
