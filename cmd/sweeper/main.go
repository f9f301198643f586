package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astrovia/engine/config"
	"github.com/astrovia/engine/internal/astro"
	"github.com/astrovia/engine/internal/database"
	"github.com/astrovia/engine/internal/engine"
	"github.com/astrovia/engine/internal/ephemeris"
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

	// The sweeper never computes charts, but the service wiring wants an
	// ephemeris; the degraded approximation costs nothing to construct.
	svc := engine.New(astro.DefaultConfig(), ephemeris.NewFallback(), db, engine.Options{
		MaxPendingPerUser:     cfg.MaxPendingPerUser,
		DefaultTimeframeHours: cfg.DefaultTimeframeHours,
		MinSamplesForLearning: cfg.MinSamplesForLearning,
	})

	interval := time.Duration(cfg.SweepIntervalMinutes) * time.Minute
	log.Info().Dur("interval", interval).Msg("sweeper started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runSweep(ctx, svc)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper stopping")
			return
		case <-ticker.C:
			runSweep(ctx, svc)
		}
	}
}

func runSweep(ctx context.Context, svc *engine.Service) {
	processed, err := svc.RunExpirySweep(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweep failed")
		return
	}
	log.Info().Int("processed", processed).Msg("sweep complete")
}
