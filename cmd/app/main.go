package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	"tripbook/config"
	"tripbook/di"
	"tripbook/helper"
	"tripbook/shared/constant"
	"tripbook/shared/logger"
	"tripbook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const drainTimeout = 30 * time.Second

// @title Trip Booking API
// @version 1.0
// @description Books every component of a trip across providers and reports progress while it runs.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if cfg.Server.Env == constant.ServerEnvProduction {
		logger.UseJSON(cfg)
	}

	timezone.Init(cfg.App.Timezone)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Migrate(cfg, helper.DirectionUp); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	app, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Booking.Start(ctx)

	if cfg.Booking.ResumeOnStart {
		queued, err := app.Booking.ResumeInFlight(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resume in-flight bookings")
		} else {
			log.Info().Int("components", queued).Msg("Resumed in-flight bookings")
		}
	}

	if err := app.HTTP.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped with error")
	}

	shutdown(app)
}

// shutdown drains queued attempts before closing the sinks they publish to.
func shutdown(app *di.App) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := app.Booking.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain booking attempts")
	}

	if err := app.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close kafka writers")
	}

	if err := app.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Shutdown complete.")
}
