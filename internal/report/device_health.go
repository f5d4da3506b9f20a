package report

import (
	"context"
	"fmt"

	"secwatch-reporting/internal/domain"
)

// deviceHealth builds the DEVICE_HEALTH report: per-device average cpu and
// memory utilization and summed threat detections over the window. Devices
// with no samples of a metric type report "N/A" for it.
func (g *Generator) deviceHealth(ctx context.Context, rng domain.DateRange, p Parameters) (*domain.ReportData, error) {
	devices, err := g.devices.ListDevices(ctx, p.DeviceIDs)
	if err != nil {
		return nil, err
	}

	metrics, err := g.devices.ListMetrics(ctx, p.DeviceIDs, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}

	type deviceStats struct {
		cpuSum, memSum     float64
		cpuCount, memCount int
		threats            float64
	}
	stats := make(map[string]*deviceStats)
	statsFor := func(deviceID string) *deviceStats {
		if s, ok := stats[deviceID]; ok {
			return s
		}
		s := &deviceStats{}
		stats[deviceID] = s
		return s
	}

	for _, m := range metrics {
		s := statsFor(m.DeviceID)
		switch m.MetricType {
		case domain.MetricCPU:
			s.cpuSum += m.Value
			s.cpuCount++
		case domain.MetricMemory:
			s.memSum += m.Value
			s.memCount++
		case domain.MetricThreats:
			s.threats += m.Value
		}
	}

	var totalThreats float64
	var onlineDevices, reporting int
	rows := make([]map[string]any, 0, len(devices))
	for _, d := range devices {
		row := map[string]any{
			"device": d.DeviceName,
			"type":   d.DeviceType,
			"status": d.Status,
		}

		s, ok := stats[d.DeviceID]
		if ok {
			reporting++
		}

		row["avgCpu"] = averageOrNA(s != nil && s.cpuCount > 0, func() float64 { return s.cpuSum / float64(s.cpuCount) })
		row["avgMemory"] = averageOrNA(s != nil && s.memCount > 0, func() float64 { return s.memSum / float64(s.memCount) })
		if s != nil {
			row["threats"] = int(s.threats)
			totalThreats += s.threats
		} else {
			row["threats"] = "N/A"
		}

		if d.Status == "ONLINE" {
			onlineDevices++
		}

		rows = append(rows, row)
	}

	summary := map[string]any{
		"totalDevices":     len(devices),
		"onlineDevices":    onlineDevices,
		"devicesReporting": reporting,
		"totalThreats":     int(totalThreats),
	}

	report := &domain.ReportData{
		Title:       "Device Health Report",
		Description: "Device utilization and threat detections for the reporting period",
		GeneratedAt: g.now(),
		DateRange:   rng,
		Summary:     summary,
		Sections: []domain.ReportSection{
			{Title: "Device Metrics", Subtitle: "Averages over the reporting window", Type: domain.SectionTable, Data: rows},
		},
	}

	if p.IncludeCharts {
		report.Charts = []domain.ChartData{
			{Title: "Device Metrics", Type: domain.ChartBar, Data: rows},
		}
	}
	if p.IncludeRawData {
		report.RawData = metrics
	}

	return report, nil
}

// averageOrNA renders an average with two decimals, or "N/A" when there are
// no samples to average.
func averageOrNA(hasSamples bool, avg func() float64) string {
	if !hasSamples {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", avg())
}
