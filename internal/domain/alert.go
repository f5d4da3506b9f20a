package domain

import "time"

// Alert severity levels, highest first.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityInfo     = "INFO"
)

// Severities lists all alert severity levels in ranking order.
var Severities = []string{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// SecurityAlert is a triaged security alert produced by ingestion or
// integration sync. The reporting service reads alerts, it never mutates them.
type SecurityAlert struct {
	AlertID       string
	Title         string
	Severity      string
	Status        string
	Category      string
	Source        string
	FalsePositive bool
	CreatedAt     time.Time
}
