// Package storage defines the persistence contract consumed by the
// controllers and the dispatch pass. Handlers never touch the database
// driver directly.
package storage

import (
	"context"
	"errors"
	"time"

	"taskreminder/model"
)

// ErrTaskNotFound is returned when an operation references a task that
// does not exist.
var ErrTaskNotFound = errors.New("task not found")

type Store interface {
	// CreateTaskWithReminders inserts the task and one reminder row per
	// instant, atomically. Reminder IDs are assigned by the store.
	CreateTaskWithReminders(ctx context.Context, task model.Task, reminderTimes []time.Time) (model.Task, []model.Reminder, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, taskID string) (model.Task, error)

	// ListTasks returns incomplete tasks ordered by due time then
	// priority (High first), and the most recent completed tasks up to
	// completedLimit, ordered by completion time descending. Reminders
	// are attached to every returned task.
	ListTasks(ctx context.Context, completedLimit int) (incomplete, completed []model.TaskWithReminders, err error)

	// CompleteTask marks a task completed at the given instant.
	CompleteTask(ctx context.Context, taskID string, completedAt time.Time) error

	// UpdateDueTime changes a task's due time, deletes its reminders
	// that have not been dispatched yet and inserts the regenerated
	// ones, atomically.
	UpdateDueTime(ctx context.Context, taskID string, due time.Time, reminderTimes []time.Time) ([]model.Reminder, error)

	// DeleteTask removes a task; its reminders and their dispatch
	// records cascade.
	DeleteTask(ctx context.Context, taskID string) error

	// PendingTasksWithReminders returns every incomplete task together
	// with its non-abandoned reminders. This is the read set of one
	// dispatch pass.
	PendingTasksWithReminders(ctx context.Context) ([]model.TaskWithReminders, error)

	// DispatchRecordExists reports whether a reminder was already sent.
	DispatchRecordExists(ctx context.Context, reminderID string) (bool, error)

	// InsertDispatchRecord writes the sent-proof for a reminder using
	// insert-if-absent semantics. It reports whether the row was newly
	// inserted; false means a concurrent pass recorded it first.
	InsertDispatchRecord(ctx context.Context, rec model.DispatchRecord) (bool, error)

	// IncrementReminderAttempts bumps the delivery attempt counter and
	// returns the new value.
	IncrementReminderAttempts(ctx context.Context, reminderID string) (int, error)

	// MarkReminderAbandoned excludes a reminder from future passes
	// after its retry cap is exhausted.
	MarkReminderAbandoned(ctx context.Context, reminderID string) error

	// GetCheckpoint reads a named checkpoint. The bool reports whether
	// the row exists.
	GetCheckpoint(ctx context.Context, name string) (time.Time, bool, error)

	// SetCheckpoint upserts a named checkpoint.
	SetCheckpoint(ctx context.Context, name string, value time.Time) error

	Ping(ctx context.Context) error
	Close()
}
