package domain

import "time"

// Audit actions. Stored as plain strings; the set below covers the actions
// the console writes today.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionView   = "VIEW"
	AuditActionLogin  = "LOGIN"
	AuditActionExport = "EXPORT"
)

// AuditLog is an append-only audit trail entry. Never mutated.
type AuditLog struct {
	LogID      string
	Timestamp  time.Time
	UserEmail  string
	Action     string
	Resource   string
	ResourceID *string
}
