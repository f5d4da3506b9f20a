package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/repository"
)

// NarrativeProvider produces an optional executive-summary text for a
// generated report, typically by proxying a completion API.
type NarrativeProvider interface {
	Narrative(ctx context.Context, report *domain.ReportData) (string, error)
}

// Generator assembles report documents from the entity repositories.
// All repositories are injected so the generator tests with fakes; it holds
// no hidden connections of its own.
type Generator struct {
	alerts       repository.AlertsRepository
	incidents    repository.IncidentsRepository
	auditLogs    repository.AuditLogsRepository
	devices      repository.DevicesRepository
	integrations repository.IntegrationsRepository
	narrative    NarrativeProvider // optional
	windows      Windows
	logger       *zap.Logger
	now          func() time.Time
}

// NewGenerator creates a report generator. narrative may be nil.
func NewGenerator(
	alerts repository.AlertsRepository,
	incidents repository.IncidentsRepository,
	auditLogs repository.AuditLogsRepository,
	devices repository.DevicesRepository,
	integrations repository.IntegrationsRepository,
	narrative NarrativeProvider,
	windows Windows,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		alerts:       alerts,
		incidents:    incidents,
		auditLogs:    auditLogs,
		devices:      devices,
		integrations: integrations,
		narrative:    narrative,
		windows:      windows,
		logger:       logger,
		now:          time.Now,
	}
}

// Generate builds the report for the given type and parameters.
//
// The type and parameters are validated before any query runs. Each handler
// executes all of its queries before assembling output, so summary values and
// section data always reflect the same snapshot. Empty result sets are not
/// errors: every statistic degrades to 0, "N/A", or an empty collection.
// A call either returns a fully populated report or fails; there are no
// partial reports.
func (g *Generator) Generate(ctx context.Context, t domain.ReportType, p Parameters) (*domain.ReportData, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}

	rng, err := resolveDateRange(t, p, g.now(), g.windows)
	if err != nil {
		return nil, err
	}

	var report *domain.ReportData
	switch t {
	case domain.ReportSecuritySummary:
		report, err = g.securitySummary(ctx, rng, p)
	case domain.ReportCompliance:
		report, err = g.compliance(ctx, rng, p)
	case domain.ReportIncidentAnalysis:
		report, err = g.incidentAnalysis(ctx, rng, p)
	case domain.ReportDeviceHealth:
		report, err = g.deviceHealth(ctx, rng, p)
	case domain.ReportIntegrationStatus:
		report, err = g.integrationStatus(ctx, rng, p)
	}
	if err != nil {
		g.logger.Error("report generation failed",
			zap.String("type", string(t)),
			zap.Time("start", rng.Start),
			zap.Time("end", rng.End),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	g.appendNarrative(ctx, report, p)

	return report, nil
}

// appendNarrative adds an executive-summary text section when a provider is
// configured and the caller asked for one. Narrative failures degrade to a
// report without the section; the report itself is already complete.
func (g *Generator) appendNarrative(ctx context.Context, report *domain.ReportData, p Parameters) {
	if g.narrative == nil || !p.IncludeNarrative {
		return
	}

	text, err := g.narrative.Narrative(ctx, report)
	if err != nil {
		g.logger.Warn("narrative generation failed, skipping section", zap.Error(err))
		return
	}
	if text == "" {
		return
	}

	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Executive Summary",
		Type:  domain.SectionText,
		Data:  text,
	})
}

// formatDay renders a timestamp as its UTC calendar day.
func formatDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// formatPercent renders a ratio as a percentage with two decimals.
// Defined on empty input: a zero denominator yields "0.00%".
func formatPercent(numerator, denominator int) string {
	if denominator == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(numerator)/float64(denominator)*100)
}
