// Package events defines the JSON message structures exchanged over the
// events_queue and notifications_queue pipelines.
package events

import "time"

// RawTelemetry is the payload delivered by the telemetry transport (MQTT or
// Kafka) before normalization. The payload map is untyped on purpose: devices
// send arbitrary fields and the normalizer decides what survives.
type RawTelemetry struct {
	FactoryID string         `json:"factory_id"`
	DeviceID  string         `json:"device_id"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// TelemetryEvent is the canonical event published to events_queue after
// normalization. Properties contains only numeric and boolean values.
type TelemetryEvent struct {
	FactoryID  string         `json:"factory_id"`
	DeviceID   string         `json:"device_id"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

// RuleSummary carries the subset of a rule that notification rendering needs.
type RuleSummary struct {
	Name string `json:"name"`
}

// DispatchJob is the message published to notifications_queue when an alert
// is created. It decouples alert creation latency from delivery latency: the
// dispatcher re-reads nothing about the rule beyond what is carried here.
type DispatchJob struct {
	AlertID       string         `json:"alert_id"`
	Rule          RuleSummary    `json:"rule"`
	FactoryID     string         `json:"factory_id"`
	DeviceID      string         `json:"device_id"`
	TriggeredAt   time.Time      `json:"triggered_at"`
	TriggerValues map[string]any `json:"trigger_values"`
}
