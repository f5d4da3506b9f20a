package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
)

// PostgresDevicesRepository is the Postgres implementation of DevicesRepository.
type PostgresDevicesRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresDevicesRepository creates a new devices repository.
func NewPostgresDevicesRepository(db *sql.DB, logger *zap.Logger) *PostgresDevicesRepository {
	return &PostgresDevicesRepository{db: db, logger: logger}
}

// ListDevices returns devices, optionally restricted to the given IDs.
func (r *PostgresDevicesRepository) ListDevices(ctx context.Context, deviceIDs []string) ([]domain.Device, error) {
	query := `
		SELECT
			device_id,
			device_name,
			device_type,
			status,
			last_seen
		FROM devices
	`
	var args []any
	if len(deviceIDs) > 0 {
		args = append(args, pq.Array(deviceIDs))
		query += " WHERE device_id = ANY($1)"
	}
	query += " ORDER BY device_name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		var d domain.Device
		var lastSeen sql.NullTime

		if err := rows.Scan(
			&d.DeviceID,
			&d.DeviceName,
			&d.DeviceType,
			&d.Status,
			&lastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}

		if lastSeen.Valid {
			d.LastSeen = &lastSeen.Time
		}

		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}

	return devices, nil
}

// ListMetrics returns metric samples inside the window, optionally
// restricted to the given device IDs, oldest first.
func (r *PostgresDevicesRepository) ListMetrics(ctx context.Context, deviceIDs []string, start, end time.Time) ([]domain.DeviceMetric, error) {
	query := `
		SELECT
			metric_id,
			device_id,
			metric_type,
			value,
			timestamp
		FROM device_metrics
		WHERE timestamp >= $1
		  AND timestamp <= $2
	`
	args := []any{start, end}
	if len(deviceIDs) > 0 {
		args = append(args, pq.Array(deviceIDs))
		query += fmt.Sprintf(" AND device_id = ANY($%d)", len(args))
	}
	query += " ORDER BY timestamp"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query device metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.DeviceMetric
	for rows.Next() {
		var m domain.DeviceMetric
		if err := rows.Scan(
			&m.MetricID,
			&m.DeviceID,
			&m.MetricType,
			&m.Value,
			&m.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan device metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device metrics: %w", err)
	}

	return metrics, nil
}

// InsertMetric stores one metric sample. Used by the MQTT ingestor.
func (r *PostgresDevicesRepository) InsertMetric(ctx context.Context, m *domain.DeviceMetric) error {
	query := `
		INSERT INTO device_metrics (
			metric_id,
			device_id,
			metric_type,
			value,
			timestamp
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.MetricID,
		m.DeviceID,
		m.MetricType,
		m.Value,
		m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert device metric: %w", err)
	}

	return nil
}
