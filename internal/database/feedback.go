package database

import (
	"context"

	"github.com/lib/pq"

	"github.com/astrovia/engine/models"
)

// InsertFeedback records a user's outcome report.
func (db *DB) InsertFeedback(ctx context.Context, fb *models.PredictionFeedback) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO prediction_feedback (
			prediction_id, accuracy_rating, feedback_type, outcome, helpful_rating, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, fb.PredictionID, fb.AccuracyRating, fb.FeedbackType, fb.Outcome, fb.HelpfulRating, fb.SubmittedAt)
	return err
}

// UnlearnedSamples returns the feedback samples of a category that have not
// yet been consumed by a learning pass, paired with the original confidence.
func (db *DB) UnlearnedSamples(ctx context.Context, category models.Category) ([]models.FeedbackSample, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT f.id, p.confidence, f.accuracy_rating
		FROM prediction_feedback f
		JOIN predictions p ON p.id = f.prediction_id
		WHERE p.category = $1 AND NOT f.learned
		ORDER BY f.id
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.FeedbackSample
	for rows.Next() {
		var s models.FeedbackSample
		if err := rows.Scan(&s.FeedbackID, &s.Confidence, &s.Accuracy); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// MarkLearned flags feedback rows as consumed so a batch is never counted
// twice.
func (db *DB) MarkLearned(ctx context.Context, feedbackIDs []int64) error {
	if len(feedbackIDs) == 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		UPDATE prediction_feedback
		SET learned = TRUE
		WHERE id = ANY($1)
	`, pq.Array(feedbackIDs))
	return err
}
