package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/fire-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/fire-risk-service/internal/adapter/openweather"
	"github.com/couchcryptid/fire-risk-service/internal/api"
	"github.com/couchcryptid/fire-risk-service/internal/config"
	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/model"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
	"github.com/couchcryptid/fire-risk-service/internal/predictor"
	"github.com/couchcryptid/fire-risk-service/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	scorer := model.NewScorer(cfg.ModelDir, logger)

	// Live weather is feature-flagged via WEATHER_LIVE_ENABLED / OPENWEATHER_API_KEY.
	var source weather.Source
	if cfg.WeatherLiveEnabled {
		source = openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherTimeout, logger)
		logger.Info("live weather enabled", "timeout", cfg.OpenWeatherTimeout)
	} else {
		logger.Info("live weather disabled, simulating all observations")
	}
	provider := weather.NewProvider(source, cfg.OpenWeatherTimeout, logger, metrics)

	var publisher predictor.AlertPublisher
	var alertWriter *kafka.AlertWriter
	if cfg.AlertsEnabled {
		alertWriter = kafka.NewAlertWriter(cfg, logger)
		publisher = alertWriter
		logger.Info("kafka alerting enabled", "topic", cfg.KafkaAlertsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka alerting disabled")
	}

	p := predictor.New(domain.NewCatalog(), provider, scorer, publisher, logger, metrics)
	srv := api.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
