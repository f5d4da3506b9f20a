package report

import (
	"context"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/repository"
)

// incidentAnalysis builds the INCIDENT_ANALYSIS report: resolved/open
// partition, mean time to resolution, and severity/status breakdowns.
func (g *Generator) incidentAnalysis(ctx context.Context, rng domain.DateRange, p Parameters) (*domain.ReportData, error) {
	incidents, err := g.incidents.ListIncidents(ctx, repository.IncidentFilter{
		Start:      rng.Start,
		End:        rng.End,
		Severities: p.Severity,
		Statuses:   p.Status,
	})
	if err != nil {
		return nil, err
	}

	bySeverity := make(map[string]int)
	byStatus := make(map[string]int)
	var open, resolved int
	var openRows []map[string]any

	for _, in := range incidents {
		bySeverity[in.Severity]++
		byStatus[in.Status]++
		if in.IsTerminal() {
			resolved++
			continue
		}
		open++
		row := map[string]any{
			"title":    in.Title,
			"severity": in.Severity,
			"status":   in.Status,
			"created":  in.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if in.AssignedTo != nil {
			row["assignedTo"] = *in.AssignedTo
		}
		openRows = append(openRows, row)
	}

	severityRows := make(map[string]any, len(bySeverity))
	for s, c := range bySeverity {
		severityRows[s] = c
	}
	statusRows := make(map[string]any, len(byStatus))
	for s, c := range byStatus {
		statusRows[s] = c
	}

	summary := map[string]any{
		"totalIncidents":    len(incidents),
		"openIncidents":     open,
		"resolvedIncidents": resolved,
		"resolutionRate":    formatPercent(resolved, len(incidents)),
		"mttr":              MTTR(incidents),
	}

	report := &domain.ReportData{
		Title:       "Incident Analysis Report",
		Description: "Incident resolution performance for the reporting period",
		GeneratedAt: g.now(),
		DateRange:   rng,
		Summary:     summary,
		Sections: []domain.ReportSection{
			{Title: "Incidents by Severity", Type: domain.SectionMetrics, Data: severityRows},
			{Title: "Incidents by Status", Type: domain.SectionMetrics, Data: statusRows},
			{Title: "Open Incidents", Subtitle: "Awaiting resolution", Type: domain.SectionTable, Data: openRows},
		},
	}

	if p.IncludeCharts {
		report.Charts = []domain.ChartData{
			{Title: "Incidents by Severity", Type: domain.ChartPie, Data: severityRows},
			{Title: "Incidents by Status", Type: domain.ChartBar, Data: statusRows},
		}
	}
	if p.IncludeRawData {
		report.RawData = incidents
	}

	return report, nil
}
