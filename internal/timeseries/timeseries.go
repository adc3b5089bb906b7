// Package timeseries provides the best-effort historical measurement store.
// The pipeline only writes here; querying and reporting belong to other
// services. Telemetry durability is best-effort relative to alerting: a
// failed write is logged by the caller and never blocks event publication.
package timeseries

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Writer records one measurement point per device property.
type Writer interface {
	Write(ctx context.Context, factoryID, deviceID, propertyName string, value float64, recordedAt time.Time) error
}

// PostgresWriter writes measurement points to the device_measurements table,
// one row per (factory, device, property) tagged point.
type PostgresWriter struct {
	conn *sql.DB
}

// NewPostgresWriter creates a writer over an existing connection.
func NewPostgresWriter(conn *sql.DB) *PostgresWriter {
	return &PostgresWriter{conn: conn}
}

// Write inserts a single measurement point. Boolean telemetry is stored as
// 1/0 by the caller so that one numeric column serves all properties.
func (w *PostgresWriter) Write(ctx context.Context, factoryID, deviceID, propertyName string, value float64, recordedAt time.Time) error {
	query := `
		INSERT INTO device_measurements (factory_id, device_id, property_name, value, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := w.conn.ExecContext(ctx, query, factoryID, deviceID, propertyName, value, recordedAt); err != nil {
		return fmt.Errorf("failed to write measurement: %w", err)
	}
	return nil
}
