package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
)

// PostgresReportsRepository is the Postgres implementation of ReportsRepository.
type PostgresReportsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresReportsRepository creates a new reports repository.
func NewPostgresReportsRepository(db *sql.DB, logger *zap.Logger) *PostgresReportsRepository {
	return &PostgresReportsRepository{db: db, logger: logger}
}

// SaveReport persists a generated report artifact.
func (r *PostgresReportsRepository) SaveReport(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (
			report_id,
			type,
			title,
			format,
			parameters,
			content,
			created_by,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ReportID,
		string(report.Type),
		report.Title,
		report.Format,
		report.Parameters,
		report.Content,
		report.CreatedBy,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetReport returns one persisted report, or an error when it does not exist.
func (r *PostgresReportsRepository) GetReport(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `
		SELECT
			report_id,
			type,
			title,
			format,
			parameters,
			content,
			created_by,
			created_at
		FROM reports
		WHERE report_id = $1
	`

	var report domain.Report
	var reportType string

	err := r.db.QueryRowContext(ctx, query, reportID).Scan(
		&report.ReportID,
		&reportType,
		&report.Title,
		&report.Format,
		&report.Parameters,
		&report.Content,
		&report.CreatedBy,
		&report.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report not found: %s", reportID)
		}
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	report.Type = domain.ReportType(reportType)

	return &report, nil
}

// ListReports returns persisted reports newest first, with the total count.
// Content is omitted from list rows; fetch a single report for the payload.
func (r *PostgresReportsRepository) ListReports(ctx context.Context, page, size int) ([]*domain.Report, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query := `
		SELECT
			report_id,
			type,
			title,
			format,
			created_by,
			created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		var report domain.Report
		var reportType string

		if err := rows.Scan(
			&report.ReportID,
			&reportType,
			&report.Title,
			&report.Format,
			&report.CreatedBy,
			&report.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan report: %w", err)
		}
		report.Type = domain.ReportType(reportType)

		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, total, nil
}
