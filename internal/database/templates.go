package database

import (
	"context"

	"github.com/astrovia/engine/models"
)

// CandidatesByCategory returns up to limit templates for a category, best
// success rate first, least used first among equals.
func (db *DB) CandidatesByCategory(ctx context.Context, category models.Category, limit int) ([]models.Template, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, category, content_pattern, confidence_multiplier, success_rate, usage_count
		FROM prediction_templates
		WHERE category = $1
		ORDER BY success_rate DESC, usage_count ASC
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Category, &t.Pattern, &t.ConfidenceMultiplier, &t.SuccessRate, &t.UsageCount); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// IncrementUsage bumps a template's usage counter.
func (db *DB) IncrementUsage(ctx context.Context, templateID int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE prediction_templates
		SET usage_count = usage_count + 1
		WHERE id = $1
	`, templateID)
	return err
}

// NudgeCategoryMultipliers shifts the confidence multiplier of every template
// in a category by delta, clamped into [floor, ceil].
func (db *DB) NudgeCategoryMultipliers(ctx context.Context, category models.Category, delta, floor, ceil float64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE prediction_templates
		SET confidence_multiplier = LEAST($4, GREATEST($3, confidence_multiplier + $2))
		WHERE category = $1
	`, category, delta, floor, ceil)
	return err
}

// RecomputeTemplateSuccessRate resets a template's success rate to the share
// of accurate outcomes among its resolved predictions.
func (db *DB) RecomputeTemplateSuccessRate(ctx context.Context, templateID int64) error {
	_, err := db.ExecContext(ctx, `
		UPDATE prediction_templates t
		SET success_rate = COALESCE((
			SELECT COUNT(*) FILTER (WHERE p.status IN ('verified', 'user_confirmed'))::float
			       / NULLIF(COUNT(*), 0)
			FROM predictions p
			WHERE p.template_id = t.id AND p.status <> 'pending'
		), t.success_rate)
		WHERE t.id = $1
	`, templateID)
	return err
}
