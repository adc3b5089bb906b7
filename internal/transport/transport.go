// Package transport provides the ingress adapters that deliver raw device
// telemetry to the normalizer. Two adapters exist: MQTT for devices
// publishing directly to a broker, and Kafka for factories relaying through
// an event bus. Exactly one runs per telemetry instance, selected by config.
package transport

import (
	"context"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/events"
)

// Transport kinds accepted by the -transport flag.
const (
	KindMQTT  = "mqtt"
	KindKafka = "kafka"
)

// Handler processes one raw telemetry reading. Errors are logged by the
// transport and never stop consumption.
type Handler func(ctx context.Context, raw *events.RawTelemetry) error

// Transport is a running ingress adapter.
type Transport interface {
	// Run consumes readings until the context is cancelled.
	Run(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
