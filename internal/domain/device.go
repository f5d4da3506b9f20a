package domain

import "time"

// Metric types recorded per device.
const (
	MetricCPU     = "cpu"
	MetricMemory  = "memory"
	MetricThreats = "threats"
)

// Device is a monitored endpoint or appliance.
type Device struct {
	DeviceID   string
	DeviceName string
	DeviceType string
	Status     string
	LastSeen   *time.Time
}

// DeviceMetric is a timestamped numeric sample tagged by metric type.
// Many samples map to one device.
type DeviceMetric struct {
	MetricID   string
	DeviceID   string
	MetricType string
	Value      float64
	Timestamp  time.Time
}
