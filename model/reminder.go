package model

import (
	"time"
)

// Reminder is a single point-in-time notification obligation derived from
// its owning task's due time and reminder configuration. Reminders are
// generated when the task is created and regenerated only when the task's
// due time is edited.
type Reminder struct {
	ReminderID   string    `json:"reminderid"`
	TaskID       string    `json:"taskid"`
	ReminderTime time.Time `json:"reminder_time"`
	Attempts     int       `json:"attempts"`
	Abandoned    bool      `json:"abandoned"`
	CreatedAt    time.Time `json:"created_at"`
}
