package model

import (
	"time"
)

// Priority values for tasks.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	TaskID         string     `json:"taskid"`
	Title          string     `json:"title"`
	DueTime        time.Time  `json:"due_time"`
	Priority       string     `json:"priority"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"` // set iff Completed
	SingleReminder bool       `json:"single_reminder"`
	HoursBefore    *int       `json:"hours_before,omitempty"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PriorityRank orders priorities for list output: High < Medium < Low.
// Unknown values sort last.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// TaskWithReminders is a task together with its reminders, as returned by
// the list endpoint and consumed by the dispatch pass.
type TaskWithReminders struct {
	Task
	Reminders []Reminder `json:"reminders"`
}
