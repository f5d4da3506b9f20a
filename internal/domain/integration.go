package domain

import "time"

// Integration connection statuses.
const (
	IntegrationConnected    = "CONNECTED"
	IntegrationDisconnected = "DISCONNECTED"
	IntegrationError        = "ERROR"
	IntegrationPending      = "PENDING"
)

// Integration is an external data-source connector (SIEM, EDR, firewall, ...)
// with ingestion counters maintained by the sync workers.
type Integration struct {
	IntegrationID   string
	Name            string
	Provider        string
	Status          string
	EventsIngested  int64
	AlertsGenerated int64
	ErrorCount      int64
	LastSync        *time.Time
}
