package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/astrovia/engine/models"
)

// GetBirthData retrieves a user's birth data, or ErrInsufficientBirthData
// when none was ever supplied.
func (db *DB) GetBirthData(ctx context.Context, userID int64) (*models.BirthData, error) {
	var data models.BirthData
	err := db.QueryRowContext(ctx, `
		SELECT user_id, birth_utc, time_known, latitude, longitude, timezone, house_system, revision
		FROM birth_data
		WHERE user_id = $1
	`, userID).Scan(
		&data.UserID, &data.BirthUTC, &data.TimeKnown, &data.Latitude,
		&data.Longitude, &data.Timezone, &data.HouseSystem, &data.Revision,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrInsufficientBirthData
		}
		return nil, err
	}
	return &data, nil
}

// UpsertBirthData stores birth data, bumping the revision on every change so
// charts computed from the old values become unreachable in the cache.
// The stored revision is returned.
func (db *DB) UpsertBirthData(ctx context.Context, data *models.BirthData) (int, error) {
	var revision int
	err := db.QueryRowContext(ctx, `
		INSERT INTO birth_data (user_id, birth_utc, time_known, latitude, longitude, timezone, house_system, revision)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		ON CONFLICT (user_id)
		DO UPDATE SET
			birth_utc = EXCLUDED.birth_utc,
			time_known = EXCLUDED.time_known,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			timezone = EXCLUDED.timezone,
			house_system = EXCLUDED.house_system,
			revision = birth_data.revision + 1
		RETURNING revision
	`,
		data.UserID, data.BirthUTC, data.TimeKnown, data.Latitude,
		data.Longitude, data.Timezone, data.HouseSystem,
	).Scan(&revision)
	if err != nil {
		return 0, err
	}
	data.Revision = revision
	return revision, nil
}
