package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Alert represents an alert record in the database.
type Alert struct {
	AlertID        string
	FactoryID      string
	RuleID         string
	DeviceID       string
	Status         AlertStatus
	TriggeredAt    time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy string
	ResolvedAt     *time.Time
	Notes          string
	TriggerValues  map[string]any
}

// CreateAlert inserts a new open alert with a snapshot of the triggering
// values and returns its generated id.
func (db *DB) CreateAlert(ctx context.Context, factoryID, ruleID, deviceID string, triggeredAt time.Time, triggerValues map[string]any) (*Alert, error) {
	valuesJSON, err := json.Marshal(triggerValues)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger values: %w", err)
	}

	alertID := uuid.New().String()
	query := `
		INSERT INTO alerts (alert_id, factory_id, rule_id, device_id, status, triggered_at, trigger_values)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := db.conn.ExecContext(ctx, query,
		alertID, factoryID, ruleID, deviceID, AlertOpen.String(), triggeredAt, valuesJSON,
	); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	return &Alert{
		AlertID:       alertID,
		FactoryID:     factoryID,
		RuleID:        ruleID,
		DeviceID:      deviceID,
		Status:        AlertOpen,
		TriggeredAt:   triggeredAt,
		TriggerValues: triggerValues,
	}, nil
}

// OpenAlertCountSince counts open alerts for a rule triggered after the given
// instant. This is the cooldown probe: a single atomic read that decides
// whether a new trigger is deduplicated.
func (db *DB) OpenAlertCountSince(ctx context.Context, ruleID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM alerts
		WHERE rule_id = $1 AND status = $2 AND triggered_at > $3
	`
	var count int
	err := db.conn.QueryRowContext(ctx, query, ruleID, AlertOpen.String(), since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open alerts: %w", err)
	}
	return count, nil
}

// ResolveLatestOpenAlert transitions the most recent open alert for a rule to
// resolved, setting resolved_at. The status guard in the WHERE clause makes
// the transition safe against a concurrent acknowledge or resolve: whichever
// write lands first wins and the loser affects zero rows. Returns the
// resolved alert id, or "" if the rule had no open alert.
func (db *DB) ResolveLatestOpenAlert(ctx context.Context, ruleID string, resolvedAt time.Time) (string, error) {
	query := `
		UPDATE alerts
		SET status = $2, resolved_at = $3
		WHERE alert_id = (
			SELECT alert_id FROM alerts
			WHERE rule_id = $1 AND status = $4
			ORDER BY triggered_at DESC
			LIMIT 1
		) AND status = $4
		RETURNING alert_id
	`
	var alertID string
	err := db.conn.QueryRowContext(ctx, query,
		ruleID, AlertResolved.String(), resolvedAt, AlertOpen.String(),
	).Scan(&alertID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve open alert: %w", err)
	}
	return alertID, nil
}

// AcknowledgeAlert transitions an open alert to acknowledged on behalf of the
// CRUD API. Only an open alert can be acknowledged; the status guard resolves
// races with auto-resolve.
func (db *DB) AcknowledgeAlert(ctx context.Context, factoryID, alertID, acknowledgedBy, notes string) error {
	query := `
		UPDATE alerts
		SET status = $3, acknowledged_at = NOW(), acknowledged_by = $4, notes = $5
		WHERE factory_id = $1 AND alert_id = $2 AND status = $6
	`
	result, err := db.conn.ExecContext(ctx, query,
		factoryID, alertID, AlertAcknowledged.String(), acknowledgedBy, notes, AlertOpen.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("alert not open: %s", alertID)
	}
	return nil
}

// CloseAlert transitions an open or acknowledged alert to resolved on behalf
// of the CRUD API, recording optional notes.
func (db *DB) CloseAlert(ctx context.Context, factoryID, alertID, notes string) error {
	query := `
		UPDATE alerts
		SET status = $3, resolved_at = NOW(), notes = $4
		WHERE factory_id = $1 AND alert_id = $2 AND status IN ($5, $6)
	`
	result, err := db.conn.ExecContext(ctx, query,
		factoryID, alertID, AlertResolved.String(), notes,
		AlertOpen.String(), AlertAcknowledged.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to close alert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("alert not found or already resolved: %s", alertID)
	}
	return nil
}

// GetAlert retrieves an alert by ID within a factory.
func (db *DB) GetAlert(ctx context.Context, factoryID, alertID string) (*Alert, error) {
	query := `
		SELECT alert_id, factory_id, rule_id, device_id, status, triggered_at,
		       acknowledged_at, COALESCE(acknowledged_by, ''), resolved_at,
		       COALESCE(notes, ''), trigger_values
		FROM alerts
		WHERE factory_id = $1 AND alert_id = $2
	`
	var alert Alert
	var status string
	var valuesJSON []byte
	err := db.conn.QueryRowContext(ctx, query, factoryID, alertID).Scan(
		&alert.AlertID,
		&alert.FactoryID,
		&alert.RuleID,
		&alert.DeviceID,
		&status,
		&alert.TriggeredAt,
		&alert.AcknowledgedAt,
		&alert.AcknowledgedBy,
		&alert.ResolvedAt,
		&alert.Notes,
		&valuesJSON,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("alert not found: %s", alertID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	alert.Status = AlertStatus(status)
	if len(valuesJSON) > 0 {
		if err := json.Unmarshal(valuesJSON, &alert.TriggerValues); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger values: %w", err)
		}
	}

	return &alert, nil
}
