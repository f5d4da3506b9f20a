package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
)

// PostgresAlertsRepository is the Postgres implementation of AlertsRepository.
type PostgresAlertsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresAlertsRepository creates a new alerts repository.
func NewPostgresAlertsRepository(db *sql.DB, logger *zap.Logger) *PostgresAlertsRepository {
	return &PostgresAlertsRepository{db: db, logger: logger}
}

// ListAlerts returns alerts created inside the filter window, newest first.
func (r *PostgresAlertsRepository) ListAlerts(ctx context.Context, f AlertFilter) ([]domain.SecurityAlert, error) {
	query := `
		SELECT
			alert_id,
			title,
			severity,
			status,
			category,
			source,
			false_positive,
			created_at
		FROM security_alerts
		WHERE created_at >= $1
		  AND created_at <= $2
	`
	args := []any{f.Start, f.End}

	if len(f.Severities) > 0 {
		args = append(args, pq.Array(f.Severities))
		query += fmt.Sprintf(" AND severity = ANY($%d)", len(args))
	}
	if len(f.Statuses) > 0 {
		args = append(args, pq.Array(f.Statuses))
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.SecurityAlert
	for rows.Next() {
		var a domain.SecurityAlert
		if err := rows.Scan(
			&a.AlertID,
			&a.Title,
			&a.Severity,
			&a.Status,
			&a.Category,
			&a.Source,
			&a.FalsePositive,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}
