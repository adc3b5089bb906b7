package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationLog represents one delivery attempt for (alert, recipient,
// channel). A pending row is written before the attempt so failures remain
// observable even if the worker crashes mid-delivery.
type NotificationLog struct {
	NotificationID string
	FactoryID      string
	AlertID        string
	Channel        string
	Recipient      string
	Subject        string
	MessageBody    string
	Status         NotificationStatus
	RetryCount     int
	ErrorMessage   string
	CreatedAt      time.Time
	SentAt         *time.Time
}

// CreateNotificationLog inserts a pending notification log row and returns
// its generated id.
func (db *DB) CreateNotificationLog(ctx context.Context, factoryID, alertID, channel, recipient, subject, messageBody string) (string, error) {
	notificationID := uuid.New().String()
	query := `
		INSERT INTO notification_logs (notification_id, factory_id, alert_id, channel, recipient, subject, message_body, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW())
	`
	if _, err := db.conn.ExecContext(ctx, query,
		notificationID, factoryID, alertID, channel, recipient, subject, messageBody,
		NotificationPending.String(),
	); err != nil {
		return "", fmt.Errorf("failed to create notification log: %w", err)
	}
	return notificationID, nil
}

// MarkNotificationSent records a successful delivery.
func (db *DB) MarkNotificationSent(ctx context.Context, notificationID string, sentAt time.Time) error {
	query := `
		UPDATE notification_logs
		SET status = $2, sent_at = $3
		WHERE notification_id = $1
	`
	result, err := db.conn.ExecContext(ctx, query, notificationID, NotificationSent.String(), sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification log not found: %s", notificationID)
	}
	return nil
}

// MarkNotificationFailed records a failed delivery and bumps retry_count.
// The pipeline does not re-attempt; the count is bookkeeping for an external
// retry scheduler.
func (db *DB) MarkNotificationFailed(ctx context.Context, notificationID, errorMessage string) error {
	query := `
		UPDATE notification_logs
		SET status = $2, retry_count = retry_count + 1, error_message = $3
		WHERE notification_id = $1
	`
	result, err := db.conn.ExecContext(ctx, query, notificationID, NotificationFailed.String(), errorMessage)
	if err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification log not found: %s", notificationID)
	}
	return nil
}
