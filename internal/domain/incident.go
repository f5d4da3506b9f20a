package domain

import "time"

// Incident statuses. RESOLVED and CLOSED are terminal: once an incident
// reaches one of them it is considered closed for resolution-time purposes.
const (
	IncidentOpen          = "OPEN"
	IncidentInvestigating = "INVESTIGATING"
	IncidentContained     = "CONTAINED"
	IncidentResolved      = "RESOLVED"
	IncidentClosed        = "CLOSED"
)

// Incident is a tracked security incident owned by the triage workflow.
type Incident struct {
	IncidentID string
	Title      string
	Severity   string
	Status     string
	AssignedTo *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsTerminal reports whether the incident status is terminal.
// Resolution duration is derived as UpdatedAt - CreatedAt for terminal
// incidents. The last update is treated as the resolution time, which is
// imprecise when an incident is edited after being resolved; an explicit
// resolved_at column would remove the ambiguity.
func (i Incident) IsTerminal() bool {
	return i.Status == IncidentResolved || i.Status == IncidentClosed
}
