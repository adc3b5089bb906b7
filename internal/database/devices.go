package database

import (
	"context"
	"fmt"
	"time"
)

// Device represents a device record in the database.
type Device struct {
	DeviceID   string
	FactoryID  string
	Name       string
	Status     DeviceStatus
	LastSeenAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DeviceProperty represents an auto-discovered measurement for a device.
// (device_id, property_name) is unique.
type DeviceProperty struct {
	PropertyID   string
	FactoryID    string
	DeviceID     string
	PropertyName string
	DataType     string
	FirstSeenAt  time.Time
	LastSeenAt   time.Time
}

// TouchDeviceLastSeen records that the device produced telemetry. Best-effort
// from the caller's perspective: a missing device row is not an error here,
// the update simply affects zero rows.
func (db *DB) TouchDeviceLastSeen(ctx context.Context, factoryID, deviceID string, seenAt time.Time) error {
	query := `
		UPDATE devices
		SET last_seen_at = $3, updated_at = NOW()
		WHERE factory_id = $1 AND device_id = $2
	`
	if _, err := db.conn.ExecContext(ctx, query, factoryID, deviceID, seenAt); err != nil {
		return fmt.Errorf("failed to update device last seen: %w", err)
	}
	return nil
}

// InsertDevicePropertyIfAbsent registers a newly observed property for a
// device. The insert is race-safe: a concurrent duplicate resolves via
// ON CONFLICT DO NOTHING instead of raising, so discovery stays idempotent
// across any number of worker instances. Returns true if this call created
// the row.
func (db *DB) InsertDevicePropertyIfAbsent(ctx context.Context, factoryID, deviceID, propertyName, dataType string) (bool, error) {
	query := `
		INSERT INTO device_properties (factory_id, device_id, property_name, data_type, first_seen_at, last_seen_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (device_id, property_name) DO NOTHING
	`
	result, err := db.conn.ExecContext(ctx, query, factoryID, deviceID, propertyName, dataType)
	if err != nil {
		return false, fmt.Errorf("failed to insert device property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListDevicePropertyNames returns the property names already known for a
// device, used to prime the per-process schema cache on first sight of the
// device.
func (db *DB) ListDevicePropertyNames(ctx context.Context, factoryID, deviceID string) ([]string, error) {
	query := `
		SELECT property_name
		FROM device_properties
		WHERE factory_id = $1 AND device_id = $2
		ORDER BY property_name ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, factoryID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query device properties: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan property name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device properties: %w", err)
	}

	return names, nil
}
