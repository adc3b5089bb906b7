// Package dispatcher fans one dispatch job out to every factory admin across
// every channel available to them, recording each delivery attempt in the
// notification log.
package dispatcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/channel"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/database"
	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/events"
)

// NotificationStore is the subset of store operations the dispatcher needs.
type NotificationStore interface {
	FactoryAdmins(ctx context.Context, factoryID string) ([]*database.User, error)
	CreateNotificationLog(ctx context.Context, factoryID, alertID, channel, recipient, subject, messageBody string) (string, error)
	MarkNotificationSent(ctx context.Context, notificationID string, sentAt time.Time) error
	MarkNotificationFailed(ctx context.Context, notificationID, errorMessage string) error
}

// Dispatcher delivers alert notifications over the registered channels.
type Dispatcher struct {
	store    NotificationStore
	registry *channel.Registry
	now      func() time.Time
}

// New creates a dispatcher.
func New(store NotificationStore, registry *channel.Registry) *Dispatcher {
	return &Dispatcher{
		store:    store,
		registry: registry,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the dispatcher's clock. Intended for tests.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// Dispatch delivers one job to all recipients. Recipients are the factory's
// admins; a factory without admins is logged and skipped, not an error. Every
// recipient x channel delivery is independent: one failure never blocks or
// rolls back another.
func (d *Dispatcher) Dispatch(ctx context.Context, job *events.DispatchJob) error {
	admins, err := d.store.FactoryAdmins(ctx, job.FactoryID)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		slog.Warn("No admins found for factory, skipping notification",
			"factory_id", job.FactoryID,
			"alert_id", job.AlertID,
		)
		return nil
	}

	payload := BuildPayload(job)

	for _, admin := range admins {
		d.deliver(ctx, job, channel.Email, admin.Email, payload)

		if admin.PhoneNumber != "" {
			d.deliver(ctx, job, channel.WhatsApp, admin.PhoneNumber, payload)
		}
	}

	return nil
}

// deliver performs one recipient x channel delivery attempt: write the
// pending log row first so a crash mid-delivery stays auditable, then send,
// then record the outcome.
func (d *Dispatcher) deliver(ctx context.Context, job *events.DispatchJob, channelType, recipient string, payload MessagePayload) {
	ch, ok := d.registry.Get(channelType)
	if !ok {
		slog.Warn("Channel not registered, skipping",
			"channel", channelType,
			"alert_id", job.AlertID,
		)
		return
	}

	notificationID, err := d.store.CreateNotificationLog(ctx,
		job.FactoryID, job.AlertID, channelType, recipient, payload.Subject, payload.Body,
	)
	if err != nil {
		slog.Error("Failed to create notification log",
			"alert_id", job.AlertID,
			"channel", channelType,
			"recipient", recipient,
			"error", err,
		)
		return
	}

	if err := ch.Send(ctx, recipient, payload.Subject, payload.Body); err != nil {
		slog.Error("Failed to deliver notification",
			"notification_id", notificationID,
			"alert_id", job.AlertID,
			"channel", channelType,
			"recipient", recipient,
			"error", err,
		)
		if markErr := d.store.MarkNotificationFailed(ctx, notificationID, err.Error()); markErr != nil {
			slog.Error("Failed to mark notification failed",
				"notification_id", notificationID,
				"error", markErr,
			)
		}
		return
	}

	if err := d.store.MarkNotificationSent(ctx, notificationID, d.now()); err != nil {
		slog.Error("Failed to mark notification sent",
			"notification_id", notificationID,
			"error", err,
		)
		return
	}

	slog.Info("Notification delivered",
		"notification_id", notificationID,
		"alert_id", job.AlertID,
		"channel", channelType,
		"recipient", recipient,
	)
}
