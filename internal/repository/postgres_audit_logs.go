package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
)

// PostgresAuditLogsRepository is the Postgres implementation of AuditLogsRepository.
type PostgresAuditLogsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresAuditLogsRepository creates a new audit-log repository.
func NewPostgresAuditLogsRepository(db *sql.DB, logger *zap.Logger) *PostgresAuditLogsRepository {
	return &PostgresAuditLogsRepository{db: db, logger: logger}
}

// ListAuditLogs returns audit entries inside the window, newest first,
// capped at limit rows. The cap bounds memory use on wide date ranges.
func (r *PostgresAuditLogsRepository) ListAuditLogs(ctx context.Context, start, end time.Time, limit int) ([]domain.AuditLog, error) {
	query := `
		SELECT
			log_id,
			timestamp,
			user_email,
			action,
			resource,
			resource_id
		FROM audit_logs
		WHERE timestamp >= $1
		  AND timestamp <= $2
		ORDER BY timestamp DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		var resourceID sql.NullString

		if err := rows.Scan(
			&l.LogID,
			&l.Timestamp,
			&l.UserEmail,
			&l.Action,
			&l.Resource,
			&resourceID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		if resourceID.Valid {
			l.ResourceID = &resourceID.String
		}

		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit logs: %w", err)
	}

	return logs, nil
}
