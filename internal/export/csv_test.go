package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secwatch-reporting/internal/domain"
)

func sampleReport() *domain.ReportData {
	return &domain.ReportData{
		Title:       `Weekly "Ops" Report`,
		Description: "Fixture report",
		GeneratedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		DateRange: domain.DateRange{
			Start: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		Summary: map[string]any{
			"totalAlerts": 3,
			"mttr":        "1.5 hours",
		},
		Sections: []domain.ReportSection{
			{
				Title: "Alerts",
				Type:  domain.SectionTable,
				Data: []map[string]any{
					{"category": "malware", "count": 2},
					{"count": 1, "source": "ids"},
				},
			},
			{
				Title: "Breakdown",
				Type:  domain.SectionMetrics,
				Data:  map[string]any{"CRITICAL": 2, "ratio": 12.5},
			},
			{
				Title: "Notes",
				Type:  domain.SectionText,
				Data:  `All "clear" this week`,
			},
		},
	}
}

func TestToCSV_BlockStructure(t *testing.T) {
	report := sampleReport()

	out := ToCSV(report)

	// header block, summary block, then one block per section
	blocks := strings.Split(strings.TrimRight(out, "\n"), "\n\n")
	require.Len(t, blocks, 2+len(report.Sections))

	header := strings.Split(blocks[0], "\n")
	assert.Equal(t, `"Weekly ""Ops"" Report"`, header[0])
	assert.Equal(t, `"Generated","2026-03-15T12:00:00Z"`, header[1])
	assert.Equal(t, `"Period","2026-03-08","2026-03-15"`, header[2])

	summary := strings.Split(blocks[1], "\n")
	assert.Equal(t, `"Summary"`, summary[0])
	// summary keys are sorted
	assert.Equal(t, `"mttr","1.5 hours"`, summary[1])
	assert.Equal(t, `"totalAlerts","3"`, summary[2])
}

func TestToCSV_TableUnionHeaders(t *testing.T) {
	out := ToCSV(sampleReport())

	lines := strings.Split(out, "\n")
	var tableStart int
	for i, line := range lines {
		if line == `"Alerts"` {
			tableStart = i
			break
		}
	}
	require.NotZero(t, tableStart)

	// header is the sorted union of keys from every row
	assert.Equal(t, `"category","count","source"`, lines[tableStart+1])
	assert.Equal(t, `"malware","2",""`, lines[tableStart+2])
	assert.Equal(t, `"","1","ids"`, lines[tableStart+3])
}

func TestToCSV_QuoteEscapingAndFloats(t *testing.T) {
	out := ToCSV(sampleReport())

	assert.Contains(t, out, `"All ""clear"" this week"`)
	assert.Contains(t, out, `"ratio","12.50"`)
}

func TestToCSV_DecayedTableRows(t *testing.T) {
	// a JSON round-trip turns []map[string]any into []any
	report := sampleReport()
	report.Sections = []domain.ReportSection{
		{
			Title: "Recovered",
			Type:  domain.SectionTable,
			Data: []any{
				map[string]any{"user": "alice@corp.example", "count": float64(5)},
			},
		},
	}

	out := ToCSV(report)

	assert.Contains(t, out, `"count","user"`)
	assert.Contains(t, out, `"5.00","alice@corp.example"`)
}

func TestToCSV_EmptyTable(t *testing.T) {
	report := sampleReport()
	report.Sections = []domain.ReportSection{
		{Title: "Open Incidents", Type: domain.SectionTable, Data: []map[string]any{}},
	}

	out := ToCSV(report)

	assert.Contains(t, out, "\"Open Incidents\"\n\"No data\"\n")
}
