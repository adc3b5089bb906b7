package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/events"
)

const (
	kafkaReadTimeout    = 10 * time.Second
	kafkaCommitInterval = time.Second
)

// KafkaConsumer reads raw telemetry relayed onto a Kafka topic as JSON
// RawTelemetry messages.
type KafkaConsumer struct {
	reader  *kafka.Reader
	topic   string
	handler Handler
}

// KafkaConfig holds Kafka connection settings.
type KafkaConfig struct {
	Brokers string // comma-separated
	Topic   string
	GroupID string
}

// NewKafkaConsumer creates a consumer configured for at-least-once delivery.
func NewKafkaConsumer(cfg KafkaConfig, handler Handler) (*KafkaConsumer, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("groupID cannot be empty")
	}

	brokerList := strings.Split(cfg.Brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	slog.Info("Initializing Kafka telemetry consumer",
		"brokers", brokerList,
		"topic", cfg.Topic,
		"group_id", cfg.GroupID,
	)

	// StartOffset only applies when no committed offset exists for the
	// consumer group.
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokerList,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        kafkaReadTimeout,
		CommitInterval: kafkaCommitInterval,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{
		reader:  reader,
		topic:   cfg.Topic,
		handler: handler,
	}, nil
}

// Run consumes telemetry messages until the context is cancelled. Decode
// failures are logged and skipped; handler errors are logged and the message
// is still considered consumed (at-least-once, crash-restart recovery).
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("Failed to read telemetry message", "topic", c.topic, "error", err)
			continue
		}

		var raw events.RawTelemetry
		if err := json.Unmarshal(msg.Value, &raw); err != nil {
			slog.Warn("Failed to decode telemetry message, skipping",
				"topic", c.topic,
				"offset", msg.Offset,
				"error", err,
			)
			continue
		}
		if raw.Timestamp.IsZero() {
			raw.Timestamp = time.Now().UTC()
		}

		if err := c.handler(ctx, &raw); err != nil {
			slog.Error("Failed to process telemetry reading",
				"factory_id", raw.FactoryID,
				"device_id", raw.DeviceID,
				"error", err,
			)
		}
	}
}

// Close gracefully closes the Kafka reader.
func (c *KafkaConsumer) Close() error {
	slog.Info("Closing Kafka telemetry consumer", "topic", c.topic)
	return c.reader.Close()
}
