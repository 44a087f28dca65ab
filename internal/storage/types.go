package storage

import "time"

// StateValue is one client-local key/value pair.
type StateValue struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// AuditEntry records a user-visible state change.
type AuditEntry struct {
	ID     int64
	Action string // "welcome_dismissed", "welcome_reset"
	Detail string
	Time   time.Time
}

// Stats holds aggregate statistics about the state database.
type Stats struct {
	StateKeys         int64
	AuditEntries      int64
	LastAudit         time.Time
	DatabaseSizeBytes int64
}
