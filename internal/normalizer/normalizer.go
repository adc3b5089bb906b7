// Package normalizer turns raw device payloads into canonical telemetry
// events: it filters out non-numeric fields, auto-discovers new device
// properties, records measurements, and publishes one event per reading to
// the rule-evaluation queue.
package normalizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/events"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/schema"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/timeseries"
)

// PropertyStore is the subset of store operations the normalizer needs.
type PropertyStore interface {
	InsertDevicePropertyIfAbsent(ctx context.Context, factoryID, deviceID, propertyName, dataType string) (bool, error)
	ListDevicePropertyNames(ctx context.Context, factoryID, deviceID string) ([]string, error)
	TouchDeviceLastSeen(ctx context.Context, factoryID, deviceID string, seenAt time.Time) error
}

// Publisher enqueues canonical telemetry events for rule evaluation.
type Publisher interface {
	Push(ctx context.Context, v any) error
}

// Normalizer validates raw readings and drives property auto-discovery.
type Normalizer struct {
	store PropertyStore
	cache *schema.Cache
	tsdb  timeseries.Writer
	queue Publisher
}

// New creates a normalizer. The cache must be process-scoped and owned by the
// caller; it is an optimization over the store's insert-if-absent, never a
// substitute for it.
func New(store PropertyStore, cache *schema.Cache, tsdb timeseries.Writer, queue Publisher) *Normalizer {
	return &Normalizer{
		store: store,
		cache: cache,
		tsdb:  tsdb,
		queue: queue,
	}
}

// Process handles one raw reading for a device. Non-numeric, non-boolean
// fields are dropped and logged; if nothing survives the filter the reading
// is a no-op. Measurement writes and the device last-seen touch are
// best-effort; only the event publication failure is reported as an error
// (and even that is the caller's to log, not retry).
func (n *Normalizer) Process(ctx context.Context, factoryID, deviceID string, payload map[string]any, timestamp time.Time) error {
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	filtered := filterProperties(deviceID, payload)
	if len(filtered) == 0 {
		return nil
	}

	n.discoverProperties(ctx, factoryID, deviceID, filtered)

	for name, value := range filtered {
		numeric, _ := measurementValue(value)
		if err := n.tsdb.Write(ctx, factoryID, deviceID, name, numeric, timestamp); err != nil {
			slog.Error("Failed to write measurement",
				"factory_id", factoryID,
				"device_id", deviceID,
				"property", name,
				"error", err,
			)
		}
	}

	if err := n.store.TouchDeviceLastSeen(ctx, factoryID, deviceID, timestamp); err != nil {
		slog.Error("Failed to update device last seen",
			"factory_id", factoryID,
			"device_id", deviceID,
			"error", err,
		)
	}

	event := &events.TelemetryEvent{
		FactoryID:  factoryID,
		DeviceID:   deviceID,
		Properties: filtered,
		Timestamp:  timestamp,
	}
	if err := n.queue.Push(ctx, event); err != nil {
		return fmt.Errorf("failed to publish telemetry event: %w", err)
	}

	return nil
}

// discoverProperties diffs the filtered keys against the schema cache and
// registers anything new via the store's idempotent insert. Store failures
// are logged and skipped: a property missed now is discovered again on the
// next reading.
func (n *Normalizer) discoverProperties(ctx context.Context, factoryID, deviceID string, filtered map[string]any) {
	if !n.cache.Loaded(deviceID) {
		names, err := n.store.ListDevicePropertyNames(ctx, factoryID, deviceID)
		if err != nil {
			slog.Error("Failed to load known properties, skipping discovery for this reading",
				"factory_id", factoryID,
				"device_id", deviceID,
				"error", err,
			)
			return
		}
		n.cache.Load(deviceID, names)
	}

	for name, value := range filtered {
		if n.cache.Known(deviceID, name) {
			continue
		}

		created, err := n.store.InsertDevicePropertyIfAbsent(ctx, factoryID, deviceID, name, dataType(value))
		if err != nil {
			slog.Error("Failed to register device property",
				"factory_id", factoryID,
				"device_id", deviceID,
				"property", name,
				"error", err,
			)
			continue
		}
		if created {
			slog.Info("Discovered new device property",
				"factory_id", factoryID,
				"device_id", deviceID,
				"property", name,
				"data_type", dataType(value),
			)
		}
		// Another instance may have created the row first; either way the
		// property is known now.
		n.cache.Add(deviceID, name)
	}
}

// filterProperties keeps only numeric and boolean values, logging dropped
// fields. A bad field never fails the reading.
func filterProperties(deviceID string, payload map[string]any) map[string]any {
	filtered := make(map[string]any, len(payload))
	for name, value := range payload {
		switch value.(type) {
		case float64, float32, int, int64, bool:
			filtered[name] = value
		default:
			slog.Warn("Dropping non-numeric telemetry field",
				"device_id", deviceID,
				"property", name,
				"type", fmt.Sprintf("%T", value),
			)
		}
	}
	return filtered
}

// measurementValue converts a filtered property value for storage; booleans
// become 1/0.
func measurementValue(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// dataType tags a discovered property for the store.
func dataType(v any) string {
	if _, ok := v.(bool); ok {
		return "boolean"
	}
	return "float"
}
