package report

import (
	"context"
	"sort"

	"secwatch-reporting/internal/domain"
)

// compliance builds the COMPLIANCE report from the audit trail: activity by
// user and action type, most-accessed resources, and the latest destructive
// actions. The audit query is capped; callers needing the full trail must
// narrow the date range.
func (g *Generator) compliance(ctx context.Context, rng domain.DateRange, p Parameters) (*domain.ReportData, error) {
	logs, err := g.auditLogs.ListAuditLogs(ctx, rng.Start, rng.End, g.windows.AuditLogLimit)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]int)
	byAction := make(map[string]int)
	byResource := make(map[string]int)
	var criticalActions []map[string]any

	// logs arrive newest first, so the first matches are the most recent
	for _, l := range logs {
		byUser[l.UserEmail]++
		byAction[l.Action]++
		byResource[l.Resource]++

		if (l.Action == domain.AuditActionDelete || l.Action == domain.AuditActionUpdate) && len(criticalActions) < 50 {
			row := map[string]any{
				"timestamp": l.Timestamp.UTC().Format("2006-01-02 15:04:05"),
				"user":      l.UserEmail,
				"action":    l.Action,
				"resource":  l.Resource,
			}
			if l.ResourceID != nil {
				row["resourceId"] = *l.ResourceID
			}
			criticalActions = append(criticalActions, row)
		}
	}

	actionRows := make(map[string]any, len(byAction))
	for a, c := range byAction {
		actionRows[a] = c
	}

	summary := map[string]any{
		"totalEvents":   len(logs),
		"uniqueUsers":   len(byUser),
		"deleteActions": byAction[domain.AuditActionDelete],
		"updateActions": byAction[domain.AuditActionUpdate],
		"truncated":     len(logs) == g.windows.AuditLogLimit,
	}

	report := &domain.ReportData{
		Title:       "Compliance Audit Report",
		Description: "Audit-trail activity for the reporting period",
		GeneratedAt: g.now(),
		DateRange:   rng,
		Summary:     summary,
		Sections: []domain.ReportSection{
			{Title: "Activity by Action", Type: domain.SectionMetrics, Data: actionRows},
			{Title: "Most Active Users", Subtitle: "Top 10 by event count", Type: domain.SectionTable, Data: topCountRows(byUser, "user", 10)},
			{Title: "Most Accessed Resources", Subtitle: "Top 15 by event count", Type: domain.SectionTable, Data: topCountRows(byResource, "resource", 15)},
			{Title: "Critical Actions", Subtitle: "Most recent 50 DELETE/UPDATE events", Type: domain.SectionTable, Data: criticalActions},
		},
	}

	if p.IncludeCharts {
		report.Charts = []domain.ChartData{
			{Title: "Activity by Action", Type: domain.ChartBar, Data: actionRows},
		}
	}
	if p.IncludeRawData {
		report.RawData = logs
	}

	return report, nil
}

// topCountRows ranks a count map and keeps the top n entries under the given
// key name. Ties break alphabetically.
func topCountRows(counts map[string]int, key string, n int) []map[string]any {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, c := range counts {
		entries = append(entries, entry{name: name, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	rows := make([]map[string]any, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, map[string]any{
			"rank":  i + 1,
			key:     e.name,
			"count": e.count,
		})
	}
	return rows
}
