package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	// Ephemeris API
	EphemerisBaseURL string
	EphemerisAPIKey  string
	RequestTimeout   int // seconds
	EphemerisRPS     float64

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Scoring
	MinConfidence       float64
	MaxConfidence       float64
	DegradedPenalty     float64
	IncludeMinorAspects bool

	// Generation
	DefaultTimeframeHours int
	MaxPendingPerUser     int

	// Learning
	MinSamplesForLearning int

	// Sweep
	SweepIntervalMinutes int

	LogLevel string
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		EphemerisBaseURL: getEnvWithDefault("EPHEMERIS_BASE_URL", "https://api.ephemeris.dev/v1"),
		EphemerisAPIKey:  os.Getenv("EPHEMERIS_API_KEY"),
		RequestTimeout:   getEnvIntWithDefault("REQUEST_TIMEOUT", 15),
		EphemerisRPS:     getEnvFloatWithDefault("EPHEMERIS_RPS", 5),

		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvWithDefault("DB_NAME", "astrovia"),
		DBSSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),

		MinConfidence:       getEnvFloatWithDefault("MIN_CONFIDENCE", 0.3),
		MaxConfidence:       getEnvFloatWithDefault("MAX_CONFIDENCE", 0.95),
		DegradedPenalty:     getEnvFloatWithDefault("DEGRADED_PENALTY", 0.85),
		IncludeMinorAspects: getEnvBoolWithDefault("INCLUDE_MINOR_ASPECTS", false),

		DefaultTimeframeHours: getEnvIntWithDefault("DEFAULT_TIMEFRAME_HOURS", 48),
		MaxPendingPerUser:     getEnvIntWithDefault("MAX_PENDING_PER_USER", 3),

		MinSamplesForLearning: getEnvIntWithDefault("MIN_SAMPLES_FOR_LEARNING", 10),
		SweepIntervalMinutes:  getEnvIntWithDefault("SWEEP_INTERVAL_MINUTES", 60),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
