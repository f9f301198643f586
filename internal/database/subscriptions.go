package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/astrovia/engine/models"
)

// GetSubscription retrieves a user's subscription, or nil when none exists.
func (db *DB) GetSubscription(ctx context.Context, userID int64) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := db.QueryRowContext(ctx, `
		SELECT user_id, status, created_at, expires_at
		FROM user_subscriptions
		WHERE user_id = $1
	`, userID).Scan(&sub.UserID, &sub.Status, &sub.CreatedAt, &sub.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// UpsertSubscription writes the subscription status pushed in by the external
// payment collaborator. Only the resulting gate matters to this engine.
func (db *DB) UpsertSubscription(ctx context.Context, sub *models.UserSubscription) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_subscriptions (user_id, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			status = EXCLUDED.status,
			expires_at = EXCLUDED.expires_at
	`, sub.UserID, sub.Status, sub.CreatedAt, sub.ExpiresAt)
	return err
}

// IsPremium reports whether the user currently holds an active subscription.
func (db *DB) IsPremium(ctx context.Context, userID int64) (bool, error) {
	sub, err := db.GetSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.Active(time.Now()), nil
}
