// Package lifecycle implements the alert state machine driven by telemetry
// events: cooldown deduplication, alert creation, auto-resolution, and
// hand-off to the notification queue.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/database"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/evaluator"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/events"
)

// AlertStore is the subset of store operations the lifecycle manager needs.
type AlertStore interface {
	ActiveRulesForDevice(ctx context.Context, factoryID, deviceID string) ([]*database.Rule, error)
	OpenAlertCountSince(ctx context.Context, ruleID string, since time.Time) (int, error)
	CreateAlert(ctx context.Context, factoryID, ruleID, deviceID string, triggeredAt time.Time, triggerValues map[string]any) (*database.Alert, error)
	ResolveLatestOpenAlert(ctx context.Context, ruleID string, resolvedAt time.Time) (string, error)
}

// JobPublisher enqueues dispatch jobs for the notifier.
type JobPublisher interface {
	Push(ctx context.Context, v any) error
}

// Manager evaluates each event against the device's active rules and applies
// the resulting alert transitions.
type Manager struct {
	store AlertStore
	queue JobPublisher
	now   func() time.Time
}

// NewManager creates a lifecycle manager.
func NewManager(store AlertStore, queue JobPublisher) *Manager {
	return &Manager{
		store: store,
		queue: queue,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the manager's clock. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// HandleEvent evaluates one telemetry event against every active rule of its
// device. A failure on one rule is logged and never aborts evaluation of the
// device's other rules.
func (m *Manager) HandleEvent(ctx context.Context, event *events.TelemetryEvent) error {
	rules, err := m.store.ActiveRulesForDevice(ctx, event.FactoryID, event.DeviceID)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if err := m.applyRule(ctx, rule, event); err != nil {
			slog.Error("Failed to apply rule",
				"rule_id", rule.RuleID,
				"device_id", event.DeviceID,
				"error", err,
			)
		}
	}

	return nil
}

// applyRule runs one rule through the transition table:
//
//	triggered, no open alert within cooldown  -> create open alert, enqueue job
//	triggered, open alert within cooldown     -> no-op (dedup)
//	not triggered, auto_resolve               -> resolve latest open alert
//	not triggered, manual resolve             -> no-op
//
// Acknowledged alerts are invisible to all of these: every query is
// open-only, so human-owned alerts are never touched.
func (m *Manager) applyRule(ctx context.Context, rule *database.Rule, event *events.TelemetryEvent) error {
	now := m.now()

	if evaluator.Evaluate(rule, event.Properties, now) {
		return m.trigger(ctx, rule, event, now)
	}

	if rule.AutoResolve {
		return m.autoResolve(ctx, rule, now)
	}

	return nil
}

// trigger creates an alert unless an open alert already exists within the
// rule's cooldown window. The probe is a single read; under a true race two
// evaluations may both pass it and create two alerts. That duplicate is
// tolerated as best-effort dedup (the store has no conditional-insert guard
// for this) and the cooldown suppresses any storm that would follow.
func (m *Manager) trigger(ctx context.Context, rule *database.Rule, event *events.TelemetryEvent, now time.Time) error {
	since := now.Add(-rule.Cooldown())
	openCount, err := m.store.OpenAlertCountSince(ctx, rule.RuleID, since)
	if err != nil {
		return err
	}
	if openCount > 0 {
		slog.Debug("Alert suppressed by cooldown",
			"rule_id", rule.RuleID,
			"device_id", event.DeviceID,
			"cooldown_seconds", rule.CooldownSeconds,
		)
		return nil
	}

	alert, err := m.store.CreateAlert(ctx, event.FactoryID, rule.RuleID, event.DeviceID, now, event.Properties)
	if err != nil {
		return err
	}

	slog.Info("Alert created",
		"alert_id", alert.AlertID,
		"rule_id", rule.RuleID,
		"rule_name", rule.Name,
		"device_id", event.DeviceID,
	)

	job := &events.DispatchJob{
		AlertID:       alert.AlertID,
		Rule:          events.RuleSummary{Name: rule.Name},
		FactoryID:     event.FactoryID,
		DeviceID:      event.DeviceID,
		TriggeredAt:   alert.TriggeredAt,
		TriggerValues: alert.TriggerValues,
	}
	if err := m.queue.Push(ctx, job); err != nil {
		// The alert stands; only its notification is lost. The hand-off is
		// best-effort, so log and move on.
		slog.Error("Failed to enqueue dispatch job",
			"alert_id", alert.AlertID,
			"rule_id", rule.RuleID,
			"error", err,
		)
	}

	return nil
}

// autoResolve transitions the rule's latest open alert to resolved, if any.
func (m *Manager) autoResolve(ctx context.Context, rule *database.Rule, now time.Time) error {
	alertID, err := m.store.ResolveLatestOpenAlert(ctx, rule.RuleID, now)
	if err != nil {
		return err
	}
	if alertID != "" {
		slog.Info("Alert auto-resolved",
			"alert_id", alertID,
			"rule_id", rule.RuleID,
		)
	}
	return nil
}
