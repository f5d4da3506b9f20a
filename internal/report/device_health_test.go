package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secwatch-reporting/internal/domain"
)

func metricSample(deviceID, metricType string, value float64) domain.DeviceMetric {
	return domain.DeviceMetric{
		DeviceID:   deviceID,
		MetricType: metricType,
		Value:      value,
		Timestamp:  testNow.AddDate(0, 0, -1),
	}
}

func TestDeviceHealth_AveragesAndSums(t *testing.T) {
	fakes := &fakeRepos{
		devices: []domain.Device{
			{DeviceID: "d1", DeviceName: "fw-edge-01", DeviceType: "firewall", Status: "ONLINE"},
			{DeviceID: "d2", DeviceName: "ids-core-01", DeviceType: "ids", Status: "OFFLINE"},
		},
		metrics: []domain.DeviceMetric{
			metricSample("d1", domain.MetricCPU, 40),
			metricSample("d1", domain.MetricCPU, 60),
			metricSample("d1", domain.MetricMemory, 70),
			metricSample("d1", domain.MetricThreats, 3),
			metricSample("d1", domain.MetricThreats, 2),
		},
	}
	g := newTestGenerator(fakes, nil)

	data, err := g.Generate(context.Background(), domain.ReportDeviceHealth, Parameters{})

	require.NoError(t, err)
	assert.Equal(t, 2, data.Summary["totalDevices"])
	assert.Equal(t, 1, data.Summary["onlineDevices"])
	assert.Equal(t, 1, data.Summary["devicesReporting"])
	assert.Equal(t, 5, data.Summary["totalThreats"])

	rows := data.Sections[0].Data.([]map[string]any)
	require.Len(t, rows, 2)

	assert.Equal(t, "fw-edge-01", rows[0]["device"])
	assert.Equal(t, "50.00", rows[0]["avgCpu"])
	assert.Equal(t, "70.00", rows[0]["avgMemory"])
	assert.Equal(t, 5, rows[0]["threats"])

	// no samples at all for d2
	assert.Equal(t, "N/A", rows[1]["avgCpu"])
	assert.Equal(t, "N/A", rows[1]["avgMemory"])
	assert.Equal(t, "N/A", rows[1]["threats"])
}

func TestDeviceHealth_PartialMetricTypes(t *testing.T) {
	fakes := &fakeRepos{
		devices: []domain.Device{
			{DeviceID: "d1", DeviceName: "sensor-01", DeviceType: "sensor", Status: "ONLINE"},
		},
		metrics: []domain.DeviceMetric{
			metricSample("d1", domain.MetricCPU, 25),
		},
	}
	g := newTestGenerator(fakes, nil)

	data, err := g.Generate(context.Background(), domain.ReportDeviceHealth, Parameters{})

	require.NoError(t, err)
	rows := data.Sections[0].Data.([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "25.00", rows[0]["avgCpu"])
	// cpu samples exist, memory samples do not
	assert.Equal(t, "N/A", rows[0]["avgMemory"])
	assert.Equal(t, 0, rows[0]["threats"])
}

func TestDeviceHealth_ScopeRestriction(t *testing.T) {
	fakes := &fakeRepos{}
	g := newTestGenerator(fakes, nil)

	_, err := g.Generate(context.Background(), domain.ReportDeviceHealth, Parameters{
		DeviceIDs: []string{"d1", "d2"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, fakes.lastDeviceIDs)
}
