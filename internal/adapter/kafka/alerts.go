package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/fire-risk-service/internal/config"
	"github.com/couchcryptid/fire-risk-service/internal/predictor"
)

// AlertWriter publishes region alerts to a Kafka topic.
// It implements predictor.AlertPublisher.
type AlertWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertWriter creates a Kafka producer for the configured alerts topic.
func NewAlertWriter(cfg *config.Config, logger *slog.Logger) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertWriter{writer: w, logger: logger}
}

// PublishAlert serializes and publishes one region alert. Messages are
// keyed by region id so all alerts for a region land on one partition.
func (w *AlertWriter) PublishAlert(ctx context.Context, alert predictor.Alert) error {
	msg, err := serializeAlert(alert)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

// serializeAlert marshals an Alert into a Kafka message.
func serializeAlert(alert predictor.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.RegionID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_level", Value: []byte(alert.Level)},
			{Key: "generated_at", Value: []byte(alert.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
