package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
)

// PostgresIntegrationsRepository is the Postgres implementation of IntegrationsRepository.
type PostgresIntegrationsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresIntegrationsRepository creates a new integrations repository.
func NewPostgresIntegrationsRepository(db *sql.DB, logger *zap.Logger) *PostgresIntegrationsRepository {
	return &PostgresIntegrationsRepository{db: db, logger: logger}
}

// ListIntegrations returns integrations, optionally restricted to the given IDs.
func (r *PostgresIntegrationsRepository) ListIntegrations(ctx context.Context, integrationIDs []string) ([]domain.Integration, error) {
	query := `
		SELECT
			integration_id,
			name,
			provider,
			status,
			events_ingested,
			alerts_generated,
			error_count,
			last_sync
		FROM integrations
	`
	var args []any
	if len(integrationIDs) > 0 {
		args = append(args, pq.Array(integrationIDs))
		query += " WHERE integration_id = ANY($1)"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query integrations: %w", err)
	}
	defer rows.Close()

	var integrations []domain.Integration
	for rows.Next() {
		var in domain.Integration
		var lastSync sql.NullTime

		if err := rows.Scan(
			&in.IntegrationID,
			&in.Name,
			&in.Provider,
			&in.Status,
			&in.EventsIngested,
			&in.AlertsGenerated,
			&in.ErrorCount,
			&lastSync,
		); err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}

		if lastSync.Valid {
			in.LastSync = &lastSync.Time
		}

		integrations = append(integrations, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate integrations: %w", err)
	}

	return integrations, nil
}
