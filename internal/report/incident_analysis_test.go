package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secwatch-reporting/internal/domain"
)

func TestIncidentAnalysis_Partition(t *testing.T) {
	created := testNow.AddDate(0, 0, -3)
	assignee := "dana@corp.example"
	fakes := &fakeRepos{
		incidents: []domain.Incident{
			{IncidentID: "i1", Title: "Ransomware on fileserver", Severity: domain.SeverityCritical, Status: domain.IncidentResolved, CreatedAt: created, UpdatedAt: created.Add(2 * time.Hour)},
			{IncidentID: "i2", Title: "Phishing campaign", Severity: domain.SeverityHigh, Status: domain.IncidentClosed, CreatedAt: created, UpdatedAt: created.Add(4 * time.Hour)},
			{IncidentID: "i3", Title: "Suspicious login", Severity: domain.SeverityHigh, Status: domain.IncidentOpen, AssignedTo: &assignee, CreatedAt: created, UpdatedAt: created},
		},
	}
	g := newTestGenerator(fakes, nil)

	data, err := g.Generate(context.Background(), domain.ReportIncidentAnalysis, Parameters{})

	require.NoError(t, err)
	assert.Equal(t, 3, data.Summary["totalIncidents"])
	assert.Equal(t, 1, data.Summary["openIncidents"])
	assert.Equal(t, 2, data.Summary["resolvedIncidents"])
	assert.Equal(t, "66.67%", data.Summary["resolutionRate"])
	assert.Equal(t, "3.0 hours", data.Summary["mttr"])

	severity := data.Sections[0].Data.(map[string]any)
	assert.Equal(t, 1, severity[domain.SeverityCritical])
	assert.Equal(t, 2, severity[domain.SeverityHigh])

	open := data.Sections[2].Data.([]map[string]any)
	require.Len(t, open, 1)
	assert.Equal(t, "Suspicious login", open[0]["title"])
	assert.Equal(t, assignee, open[0]["assignedTo"])
}

func TestIncidentAnalysis_Empty(t *testing.T) {
	fakes := &fakeRepos{}
	g := newTestGenerator(fakes, nil)

	data, err := g.Generate(context.Background(), domain.ReportIncidentAnalysis, Parameters{})

	require.NoError(t, err)
	assert.Equal(t, 0, data.Summary["totalIncidents"])
	assert.Equal(t, "0.00%", data.Summary["resolutionRate"])
	assert.Equal(t, "N/A", data.Summary["mttr"])
}
