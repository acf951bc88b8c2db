package model

import (
	"time"
)

// DispatchRecord is proof that a reminder was sent. At most one record
// exists per reminder; the storage layer enforces this with a primary key
// so an insert-if-absent is the duplicate-send guard.
type DispatchRecord struct {
	ReminderID        string    `json:"reminderid"`
	ProcessedAt       time.Time `json:"processed_at"`
	ProviderMessageID string    `json:"provider_message_id"`
}

// PassSummary reports what one dispatch pass did. It is returned to the
// cron caller that triggered the pass.
type PassSummary struct {
	Evaluated  int       `json:"evaluated"`
	Sent       int       `json:"sent"`
	Skipped    int       `json:"skipped"`
	Errored    int       `json:"errored"`
	Abandoned  int       `json:"abandoned"`
	Checkpoint time.Time `json:"checkpoint"`
}
