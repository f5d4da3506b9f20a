package repository

import (
	"context"
	"time"

	"secwatch-reporting/internal/domain"
)

// AlertFilter restricts an alert query. Zero-length allow-lists mean "any".
type AlertFilter struct {
	Start      time.Time
	End        time.Time
	Severities []string
	Statuses   []string
}

// IncidentFilter restricts an incident query.
type IncidentFilter struct {
	Start      time.Time
	End        time.Time
	Severities []string
	Statuses   []string
}

// AlertsRepository reads security alerts. The reporting service never
// writes alerts; ingestion and triage own them.
type AlertsRepository interface {
	ListAlerts(ctx context.Context, f AlertFilter) ([]domain.SecurityAlert, error)
}

// IncidentsRepository reads incidents.
type IncidentsRepository interface {
	ListIncidents(ctx context.Context, f IncidentFilter) ([]domain.Incident, error)
}

// AuditLogsRepository reads the append-only audit trail.
// limit caps result volume as a memory safeguard, not a pagination control.
type AuditLogsRepository interface {
	ListAuditLogs(ctx context.Context, start, end time.Time, limit int) ([]domain.AuditLog, error)
}

// DevicesRepository reads devices and their metric samples. InsertMetric is
// the one write path, used by the MQTT ingestor.
type DevicesRepository interface {
	ListDevices(ctx context.Context, deviceIDs []string) ([]domain.Device, error)
	ListMetrics(ctx context.Context, deviceIDs []string, start, end time.Time) ([]domain.DeviceMetric, error)
	InsertMetric(ctx context.Context, m *domain.DeviceMetric) error
}

// IntegrationsRepository reads integration connectors and their counters.
type IntegrationsRepository interface {
	ListIntegrations(ctx context.Context, integrationIDs []string) ([]domain.Integration, error)
}

// ReportsRepository persists generated report artifacts.
type ReportsRepository interface {
	SaveReport(ctx context.Context, r *domain.Report) error
	GetReport(ctx context.Context, reportID string) (*domain.Report, error)
	ListReports(ctx context.Context, page, size int) ([]*domain.Report, int, error)
}
