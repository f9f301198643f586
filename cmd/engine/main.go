package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/config"
	"github.com/astrovia/engine/internal/astro"
	"github.com/astrovia/engine/internal/database"
	"github.com/astrovia/engine/internal/engine"
	"github.com/astrovia/engine/internal/ephemeris"
	"github.com/astrovia/engine/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	eph := ephemeris.WithFallback(
		ephemeris.NewClient(ephemeris.Options{
			BaseURL:        cfg.EphemerisBaseURL,
			APIKey:         cfg.EphemerisAPIKey,
			RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
			RequestsPerSec: cfg.EphemerisRPS,
		}),
		ephemeris.NewFallback(),
	)

	astroCfg := astro.DefaultConfig()
	astroCfg.MinConfidence = cfg.MinConfidence
	astroCfg.MaxConfidence = cfg.MaxConfidence
	astroCfg.DegradedPenalty = cfg.DegradedPenalty
	astroCfg.IncludeMinorAspects = cfg.IncludeMinorAspects

	svc := engine.New(astroCfg, eph, db, engine.Options{
		MaxPendingPerUser:     cfg.MaxPendingPerUser,
		DefaultTimeframeHours: cfg.DefaultTimeframeHours,
		MinSamplesForLearning: cfg.MinSamplesForLearning,
	})

	ctx := context.Background()

	// Demo run: store sample birth data and generate one prediction.
	const demoUser = int64(1)
	birth := time.Date(1990, time.June, 15, 18, 30, 0, 0, time.UTC) // 14:30 EDT
	if _, err := svc.SetBirthData(ctx, models.BirthData{
		UserID:      demoUser,
		BirthUTC:    birth,
		TimeKnown:   true,
		Latitude:    40.7128,
		Longitude:   -74.0060,
		Timezone:    "America/New_York",
		HouseSystem: models.Placidus,
	}); err != nil {
		log.Fatal().Err(err).Msg("storing birth data failed")
	}

	result, err := svc.GeneratePrediction(ctx, demoUser, models.CategoryLove, engine.GenerateOptions{
		TimeframeHours: cfg.DefaultTimeframeHours,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("generation failed")
	}

	fmt.Printf("Prediction %s (confidence %.2f, %dh window)\n",
		result.PredictionID, result.Confidence, result.TimeframeHours)
	fmt.Println(result.Content)
	fmt.Println("Reasoning:")
	for _, factor := range result.Reasoning {
		fmt.Printf("  - %s\n", factor)
	}
	fmt.Println("Alerts:")
	for _, alert := range result.AlertSchedule {
		fmt.Printf("  - %s at %s\n", alert.Kind, alert.ScheduledAt.Format(time.RFC3339))
	}

	// Close the loop on the demo prediction right away.
	verified, err := svc.VerifyPrediction(ctx, result.PredictionID, demoUser, &models.PredictionFeedback{
		AccuracyRating: 5,
		Outcome:        "demo outcome",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("verification failed")
	}
	fmt.Printf("Verified as %s, rolling success rate %.2f\n", verified.Status, verified.UserSuccessRate)
}
