package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
)

// PostgresIncidentsRepository is the Postgres implementation of IncidentsRepository.
type PostgresIncidentsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresIncidentsRepository creates a new incidents repository.
func NewPostgresIncidentsRepository(db *sql.DB, logger *zap.Logger) *PostgresIncidentsRepository {
	return &PostgresIncidentsRepository{db: db, logger: logger}
}

// ListIncidents returns incidents created inside the filter window, newest first.
func (r *PostgresIncidentsRepository) ListIncidents(ctx context.Context, f IncidentFilter) ([]domain.Incident, error) {
	query := `
		SELECT
			incident_id,
			title,
			severity,
			status,
			assigned_to,
			created_at,
			updated_at
		FROM incidents
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
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []domain.Incident
	for rows.Next() {
		var in domain.Incident
		var assignedTo sql.NullString

		if err := rows.Scan(
			&in.IncidentID,
			&in.Title,
			&in.Severity,
			&in.Status,
			&assignedTo,
			&in.CreatedAt,
			&in.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}

		if assignedTo.Valid {
			in.AssignedTo = &assignedTo.String
		}

		incidents = append(incidents, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incidents: %w", err)
	}

	return incidents, nil
}
