package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/astrovia/engine/models"
)

// InsertPrediction stores a new prediction together with its alert schedule.
func (db *DB) InsertPrediction(ctx context.Context, p *models.Prediction, alerts []models.Alert) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var templateID sql.NullInt64
	if p.TemplateID != 0 {
		templateID = sql.NullInt64{Int64: p.TemplateID, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO predictions (
			id, user_id, category, confidence, content, basis, specificity,
			timeframe_hours, template_id, created_at, expires_at, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		p.ID, p.UserID, p.Category, p.ConfidenceScore, p.Content, pq.Array(p.Basis),
		p.SpecificityScore, p.TimeframeHours, templateID, p.CreatedAt, p.ExpiresAt, p.Status,
	)
	if err != nil {
		return err
	}

	for _, a := range alerts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO prediction_alerts (prediction_id, kind, scheduled_at)
			VALUES ($1, $2, $3)
		`, a.PredictionID, a.Kind, a.ScheduledAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CountPending returns how many unresolved predictions a user has.
func (db *DB) CountPending(ctx context.Context, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM predictions
		WHERE user_id = $1 AND status = 'pending'
	`, userID).Scan(&count)
	return count, err
}

// GetPrediction retrieves one prediction owned by a user.
func (db *DB) GetPrediction(ctx context.Context, predictionID string, userID int64) (*models.Prediction, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, category, confidence, content, basis, specificity,
		       timeframe_hours, template_id, created_at, expires_at, status
		FROM predictions
		WHERE id = $1 AND user_id = $2
	`, predictionID, userID)

	p, err := scanPrediction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPredictionNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListUserPredictions returns a user's predictions, newest first.
func (db *DB) ListUserPredictions(ctx context.Context, userID int64) ([]models.Prediction, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, category, confidence, content, basis, specificity,
		       timeframe_hours, template_id, created_at, expires_at, status
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}
	return predictions, rows.Err()
}

// TransitionStatus moves a pending prediction to a terminal status. The guard
// on status makes concurrent submissions mutually exclusive: the loser sees
// ErrAlreadyVerified (or ErrPredictionNotFound if the row never existed).
func (db *DB) TransitionStatus(ctx context.Context, predictionID string, userID int64, to models.VerificationStatus) error {
	res, err := db.ExecContext(ctx, `
		UPDATE predictions
		SET status = $1
		WHERE id = $2 AND user_id = $3 AND status = 'pending'
	`, to, predictionID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		err = db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM predictions WHERE id = $1 AND user_id = $2)
		`, predictionID, userID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrPredictionNotFound
		}
		return models.ErrAlreadyVerified
	}
	return nil
}

// ExpireOverdue transitions every prediction pending more than the grace
// period past its expiry, returning the affected rows. The status guard makes
// the sweep idempotent and safe to run concurrently with itself.
func (db *DB) ExpireOverdue(ctx context.Context, olderThan time.Time) ([]models.Prediction, error) {
	rows, err := db.QueryContext(ctx, `
		UPDATE predictions
		SET status = 'expired'
		WHERE status = 'pending' AND expires_at < $1
		RETURNING id, user_id, category, confidence, content, basis, specificity,
		          timeframe_hours, template_id, created_at, expires_at, status
	`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *p)
	}
	return expired, rows.Err()
}

// LogGeneration records one accepted generation for observability.
func (db *DB) LogGeneration(ctx context.Context, userID int64, category models.Category, confidence float64, duration time.Duration) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO prediction_generation_log (user_id, category, confidence, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, category, confidence, duration.Milliseconds(), time.Now().UTC())
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPrediction(s scanner) (*models.Prediction, error) {
	var (
		p          models.Prediction
		templateID sql.NullInt64
		basis      pq.StringArray
	)
	err := s.Scan(
		&p.ID, &p.UserID, &p.Category, &p.ConfidenceScore, &p.Content, &basis,
		&p.SpecificityScore, &p.TimeframeHours, &templateID, &p.CreatedAt, &p.ExpiresAt, &p.Status,
	)
	if err != nil {
		return nil, err
	}
	p.Basis = basis
	if templateID.Valid {
		p.TemplateID = templateID.Int64
	}
	return &p, nil
}
