package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/astrovia/engine/internal/templates"
)

// DB represents a database connection.
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters.
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection and bootstraps the schema.
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}
	if err := seedTemplates(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist.
func createTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			category TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			content TEXT NOT NULL,
			basis TEXT[] NOT NULL DEFAULT '{}',
			specificity DOUBLE PRECISION NOT NULL DEFAULT 0,
			timeframe_hours INT NOT NULL,
			template_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user ON predictions (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_pending ON predictions (status, expires_at) WHERE status = 'pending'`,

		`CREATE TABLE IF NOT EXISTS prediction_feedback (
			id BIGSERIAL PRIMARY KEY,
			prediction_id TEXT NOT NULL REFERENCES predictions (id),
			accuracy_rating INT NOT NULL,
			feedback_type TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL DEFAULT '',
			helpful_rating INT NOT NULL DEFAULT 0,
			submitted_at TIMESTAMPTZ NOT NULL,
			learned BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		`CREATE TABLE IF NOT EXISTS prediction_templates (
			id BIGSERIAL PRIMARY KEY,
			category TEXT NOT NULL,
			content_pattern TEXT NOT NULL,
			confidence_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			success_rate DOUBLE PRECISION NOT NULL DEFAULT 0.5,
			usage_count BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_templates_category ON prediction_templates (category)`,

		`CREATE TABLE IF NOT EXISTS prediction_alerts (
			id BIGSERIAL PRIMARY KEY,
			prediction_id TEXT NOT NULL REFERENCES predictions (id),
			kind TEXT NOT NULL,
			scheduled_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS prediction_generation_log (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			category TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			duration_ms BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS prediction_analytics (
			user_id BIGINT NOT NULL,
			category TEXT NOT NULL,
			total INT NOT NULL DEFAULT 0,
			resolved INT NOT NULL DEFAULT 0,
			accurate INT NOT NULL DEFAULT 0,
			confidence_sum DOUBLE PRECISION NOT NULL DEFAULT 0,
			accuracy_sum DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, category)
		)`,

		`CREATE TABLE IF NOT EXISTS birth_data (
			user_id BIGINT PRIMARY KEY,
			birth_utc TIMESTAMPTZ NOT NULL,
			time_known BOOLEAN NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			timezone TEXT NOT NULL DEFAULT '',
			house_system TEXT NOT NULL DEFAULT 'placidus',
			revision INT NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS user_subscriptions (
			user_id BIGINT PRIMARY KEY,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// seedTemplates inserts the default template rows on a fresh database.
func seedTemplates(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM prediction_templates`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, t := range templates.SeedTemplates() {
		_, err := db.Exec(`
			INSERT INTO prediction_templates (category, content_pattern, confidence_multiplier, success_rate)
			VALUES ($1, $2, $3, $4)
		`, t.Category, t.Pattern, t.ConfidenceMultiplier, t.SuccessRate)
		if err != nil {
			return fmt.Errorf("seeding templates: %w", err)
		}
	}
	return nil
}
