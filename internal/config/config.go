package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather acquisition configuration.
	OpenWeatherAPIKey  string
	OpenWeatherTimeout time.Duration
	WeatherLiveEnabled bool

	// Risk model artifact directory.
	ModelDir string

	// Kafka alert publishing configuration.
	KafkaBrokers     []string
	KafkaAlertsTopic string
	AlertsEnabled    bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first when
// present; real environment variables take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parseDuration("OPENWEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	liveEnabled := apiKey != ""
	if v := os.Getenv("WEATHER_LIVE_ENABLED"); v != "" {
		liveEnabled = v == "true"
	}

	brokers := parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	alertsEnabled := false
	if v := os.Getenv("ALERTS_ENABLED"); v != "" {
		alertsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenWeatherAPIKey:  apiKey,
		OpenWeatherTimeout: weatherTimeout,
		WeatherLiveEnabled: liveEnabled,

		ModelDir: envOrDefault("MODEL_DIR", "models"),

		KafkaBrokers:     brokers,
		KafkaAlertsTopic: envOrDefault("KAFKA_ALERTS_TOPIC", "fire-risk-alerts"),
		AlertsEnabled:    alertsEnabled,
	}

	if cfg.WeatherLiveEnabled && cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("WEATHER_LIVE_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}
	if cfg.AlertsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("ALERTS_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.AlertsEnabled && cfg.KafkaAlertsTopic == "" {
		return nil, errors.New("ALERTS_ENABLED is true but KAFKA_ALERTS_TOPIC is empty")
	}
	if cfg.ModelDir == "" {
		return nil, errors.New("MODEL_DIR must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
