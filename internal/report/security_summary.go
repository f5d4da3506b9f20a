package report

import (
	"context"
	"sort"

	"secwatch-reporting/internal/domain"
	"secwatch-reporting/internal/repository"
)

// securitySummary builds the SECURITY_SUMMARY report: alert volume by
// severity, false-positive rate, daily alert trend, top categories, and the
// incident picture for the same window.
func (g *Generator) securitySummary(ctx context.Context, rng domain.DateRange, p Parameters) (*domain.ReportData, error) {
	alerts, err := g.alerts.ListAlerts(ctx, repository.AlertFilter{
		Start:      rng.Start,
		End:        rng.End,
		Severities: p.Severity,
		Statuses:   p.Status,
	})
	if err != nil {
		return nil, err
	}

	incidents, err := g.incidents.ListIncidents(ctx, repository.IncidentFilter{
		Start: rng.Start,
		End:   rng.End,
	})
	if err != nil {
		return nil, err
	}

	severityCounts := make(map[string]int, len(domain.Severities))
	for _, s := range domain.Severities {
		severityCounts[s] = 0
	}
	falsePositives := 0
	byDay := make(map[string]int)
	byCategory := make(map[string]int)

	for _, a := range alerts {
		severityCounts[a.Severity]++
		if a.FalsePositive {
			falsePositives++
		}
		byDay[formatDay(a.CreatedAt)]++
		if a.Category != "" {
			byCategory[a.Category]++
		}
	}

	openIncidents := 0
	resolvedIncidents := 0
	for _, in := range incidents {
		if in.IsTerminal() {
			resolvedIncidents++
		} else {
			openIncidents++
		}
	}

	summary := map[string]any{
		"totalAlerts":       len(alerts),
		"criticalAlerts":    severityCounts[domain.SeverityCritical],
		"highAlerts":        severityCounts[domain.SeverityHigh],
		"falsePositiveRate": formatPercent(falsePositives, len(alerts)),
		"totalIncidents":    len(incidents),
		"openIncidents":     openIncidents,
		"resolvedIncidents": resolvedIncidents,
		"mttr":              MTTR(incidents),
	}

	severityRows := make(map[string]any, len(severityCounts))
	for s, c := range severityCounts {
		severityRows[s] = c
	}

	trendRows := alertTrendRows(byDay)
	categoryRows := topCategoryRows(byCategory, 10)

	report := &domain.ReportData{
		Title:       "Security Summary Report",
		Description: "Alert and incident activity for the reporting period",
		GeneratedAt: g.now(),
		DateRange:   rng,
		Summary:     summary,
		Sections: []domain.ReportSection{
			{Title: "Alerts by Severity", Type: domain.SectionMetrics, Data: severityRows},
			{Title: "Alert Trend", Subtitle: "Alerts per day", Type: domain.SectionTable, Data: trendRows},
			{Title: "Top Alert Categories", Subtitle: "Most frequent categories", Type: domain.SectionTable, Data: categoryRows},
			{Title: "Incident Overview", Type: domain.SectionMetrics, Data: map[string]any{
				"total":    len(incidents),
				"open":     openIncidents,
				"resolved": resolvedIncidents,
				"mttr":     MTTR(incidents),
			}},
		},
	}

	if p.IncludeCharts {
		report.Charts = []domain.ChartData{
			{Title: "Alert Trend", Type: domain.ChartLine, Data: trendRows},
			{Title: "Alerts by Severity", Type: domain.ChartPie, Data: severityRows},
		}
	}
	if p.IncludeRawData {
		report.RawData = alerts
	}

	return report, nil
}

// alertTrendRows converts the per-day counts into ordered table rows.
func alertTrendRows(byDay map[string]int) []map[string]any {
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	rows := make([]map[string]any, 0, len(days))
	for _, d := range days {
		rows = append(rows, map[string]any{
			"date":  d,
			"count": byDay[d],
		})
	}
	return rows
}

// topCategoryRows ranks categories by frequency, keeping the top n.
// Ties break alphabetically so output is deterministic.
func topCategoryRows(byCategory map[string]int, n int) []map[string]any {
	type categoryCount struct {
		category string
		count    int
	}
	counts := make([]categoryCount, 0, len(byCategory))
	for c, cnt := range byCategory {
		counts = append(counts, categoryCount{category: c, count: cnt})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].category < counts[j].category
	})

	if len(counts) > n {
		counts = counts[:n]
	}

	rows := make([]map[string]any, 0, len(counts))
	for i, c := range counts {
		rows = append(rows, map[string]any{
			"rank":     i + 1,
			"category": c.category,
			"count":    c.count,
		})
	}
	return rows
}
