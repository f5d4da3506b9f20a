package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/repository"
)

// fakeRepos backs every repository interface with in-memory slices and
// counts queries so tests can assert that none were issued.
type fakeRepos struct {
	alerts       []domain.SecurityAlert
	incidents    []domain.Incident
	logs         []domain.AuditLog
	devices      []domain.Device
	metrics      []domain.DeviceMetric
	integrations []domain.Integration

	err        error
	queryCount int

	lastAlertFilter    repository.AlertFilter
	lastIncidentFilter repository.IncidentFilter
	lastAuditLimit     int
	lastDeviceIDs      []string
	lastIntegrationIDs []string
}

func (f *fakeRepos) ListAlerts(_ context.Context, filter repository.AlertFilter) ([]domain.SecurityAlert, error) {
	f.queryCount++
	f.lastAlertFilter = filter
	return f.alerts, f.err
}

func (f *fakeRepos) ListIncidents(_ context.Context, filter repository.IncidentFilter) ([]domain.Incident, error) {
	f.queryCount++
	f.lastIncidentFilter = filter
	return f.incidents, f.err
}

func (f *fakeRepos) ListAuditLogs(_ context.Context, _, _ time.Time, limit int) ([]domain.AuditLog, error) {
	f.queryCount++
	f.lastAuditLimit = limit
	return f.logs, f.err
}

func (f *fakeRepos) ListDevices(_ context.Context, deviceIDs []string) ([]domain.Device, error) {
	f.queryCount++
	f.lastDeviceIDs = deviceIDs
	return f.devices, f.err
}

func (f *fakeRepos) ListMetrics(_ context.Context, _ []string, _, _ time.Time) ([]domain.DeviceMetric, error) {
	f.queryCount++
	return f.metrics, f.err
}

func (f *fakeRepos) InsertMetric(_ context.Context, _ *domain.DeviceMetric) error {
	return f.err
}

func (f *fakeRepos) ListIntegrations(_ context.Context, integrationIDs []string) ([]domain.Integration, error) {
	f.queryCount++
	f.lastIntegrationIDs = integrationIDs
	return f.integrations, f.err
}

// fakeNarrative returns a canned narrative or an error.
type fakeNarrative struct {
	text string
	err  error
}

func (f *fakeNarrative) Narrative(_ context.Context, _ *domain.ReportData) (string, error) {
	return f.text, f.err
}

func newTestGenerator(f *fakeRepos, narrative NarrativeProvider) *Generator {
	g := NewGenerator(f, f, f, f, f, narrative, DefaultWindows(), zap.NewNop())
	g.now = func() time.Time { return testNow }
	return g
}
