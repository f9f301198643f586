package database

import (
	"context"

	"github.com/astrovia/engine/models"
)

// RecordGenerated bumps the per-user-per-category counters when a prediction
// is created.
func (db *DB) RecordGenerated(ctx context.Context, userID int64, category models.Category, confidence float64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO prediction_analytics (user_id, category, total, confidence_sum)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id, category)
		DO UPDATE SET
			total = prediction_analytics.total + 1,
			confidence_sum = prediction_analytics.confidence_sum + EXCLUDED.confidence_sum
	`, userID, category, confidence)
	return err
}

// RecordResolved updates the rolling counters on a terminal transition.
// accuracy is the 1-5 rating, or 0 when the resolution carried none (expiry).
func (db *DB) RecordResolved(ctx context.Context, userID int64, category models.Category, accurate bool, accuracy int) error {
	accurateInc := 0
	if accurate {
		accurateInc = 1
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO prediction_analytics (user_id, category, resolved, accurate, accuracy_sum)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (user_id, category)
		DO UPDATE SET
			resolved = prediction_analytics.resolved + 1,
			accurate = prediction_analytics.accurate + $3,
			accuracy_sum = prediction_analytics.accuracy_sum + $4
	`, userID, category, accurateInc, float64(accuracy))
	return err
}

// GetUserAnalytics aggregates a user's rolling counters across categories.
func (db *DB) GetUserAnalytics(ctx context.Context, userID int64) (*models.UserAnalytics, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT category, total, resolved, accurate, confidence_sum, accuracy_sum
		FROM prediction_analytics
		WHERE user_id = $1
		ORDER BY category
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	a := &models.UserAnalytics{UserID: userID}
	var confidenceSum, accuracySum float64
	for rows.Next() {
		var (
			category                  string
			total, resolved, accurate int
			confSum, accSum           float64
		)
		if err := rows.Scan(&category, &total, &resolved, &accurate, &confSum, &accSum); err != nil {
			return nil, err
		}
		a.TotalPredictions += total
		a.Resolved += resolved
		a.Accurate += accurate
		confidenceSum += confSum
		accuracySum += accSum
		if total > 0 {
			a.CategoriesUsed = append(a.CategoriesUsed, category)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if a.Resolved > 0 {
		a.SuccessRate = float64(a.Accurate) / float64(a.Resolved)
		a.AvgAccuracy = accuracySum / float64(a.Resolved)
	}
	if a.TotalPredictions > 0 {
		a.AvgConfidence = confidenceSum / float64(a.TotalPredictions)
	}
	return a, nil
}

// GetCategoryAnalytics aggregates one category's counters across all users.
func (db *DB) GetCategoryAnalytics(ctx context.Context, category models.Category) (*models.CategoryAnalytics, error) {
	a := &models.CategoryAnalytics{Category: category}
	var confidenceSum, accuracySum float64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0), COALESCE(SUM(resolved), 0),
		       COALESCE(SUM(accurate), 0), COALESCE(SUM(confidence_sum), 0),
		       COALESCE(SUM(accuracy_sum), 0)
		FROM prediction_analytics
		WHERE category = $1
	`, category).Scan(&a.Total, &a.Resolved, &a.Accurate, &confidenceSum, &accuracySum)
	if err != nil {
		return nil, err
	}

	if a.Total > 0 {
		a.AvgConfidence = confidenceSum / float64(a.Total)
	}
	if a.Resolved > 0 {
		a.AvgAccuracy = accuracySum / float64(a.Resolved)
	}
	return a, nil
}
