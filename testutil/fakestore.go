// Package testutil provides in-memory fakes for testing.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskreminder/model"
	"taskreminder/storage"
)

// FakeStore is an in-memory implementation of storage.Store for testing.
type FakeStore struct {
	mu          sync.Mutex
	tasks       map[string]model.Task
	taskOrder   []string
	reminders   map[string]model.Reminder
	records     map[string]model.DispatchRecord
	checkpoints map[string]time.Time

	// Error injection for testing
	CreateTaskErr        error
	GetTaskErr           error
	ListTasksErr         error
	CompleteTaskErr      error
	UpdateDueTimeErr     error
	DeleteTaskErr        error
	PendingTasksErr      error
	RecordExistsErr      error
	InsertRecordErr      error
	IncrementAttemptsErr error
	MarkAbandonedErr     error
	GetCheckpointErr     error
	SetCheckpointErr     error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		tasks:       make(map[string]model.Task),
		reminders:   make(map[string]model.Reminder),
		records:     make(map[string]model.DispatchRecord),
		checkpoints: make(map[string]time.Time),
	}
}

// AddTask seeds a task directly, bypassing validation. Seeding the same
// ID twice replaces the task in place.
func (f *FakeStore) AddTask(t model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[t.TaskID]; !ok {
		f.taskOrder = append(f.taskOrder, t.TaskID)
	}
	f.tasks[t.TaskID] = t
}

// AddReminder seeds a reminder directly and returns its generated ID.
func (f *FakeStore) AddReminder(taskID string, at time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := model.Reminder{
		ReminderID:   uuid.New().String(),
		TaskID:       taskID,
		ReminderTime: at,
		CreatedAt:    time.Now().UTC(),
	}
	f.reminders[r.ReminderID] = r
	return r.ReminderID
}

// Reminder returns a seeded or stored reminder by ID.
func (f *FakeStore) Reminder(id string) (model.Reminder, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	return r, ok
}

// Records returns a copy of all dispatch records.
func (f *FakeStore) Records() map[string]model.DispatchRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]model.DispatchRecord, len(f.records))
	for k, v := range f.records {
		out[k] = v
	}
	return out
}

// RemindersForTask returns the stored reminders for a task, ascending.
func (f *FakeStore) RemindersForTask(taskID string) []model.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remindersForTaskLocked(taskID, false)
}

func (f *FakeStore) remindersForTaskLocked(taskID string, pendingOnly bool) []model.Reminder {
	out := []model.Reminder{}
	for _, r := range f.reminders {
		if r.TaskID != taskID {
			continue
		}
		if pendingOnly && r.Abandoned {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReminderTime.Before(out[j].ReminderTime) })
	return out
}

func (f *FakeStore) CreateTaskWithReminders(ctx context.Context, task model.Task, reminderTimes []time.Time) (model.Task, []model.Reminder, error) {
	if f.CreateTaskErr != nil {
		return model.Task{}, nil, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tasks[task.TaskID] = task
	f.taskOrder = append(f.taskOrder, task.TaskID)

	reminders := make([]model.Reminder, 0, len(reminderTimes))
	for _, t := range reminderTimes {
		r := model.Reminder{
			ReminderID:   uuid.New().String(),
			TaskID:       task.TaskID,
			ReminderTime: t,
			CreatedAt:    task.CreatedAt,
		}
		f.reminders[r.ReminderID] = r
		reminders = append(reminders, r)
	}
	return task, reminders, nil
}

func (f *FakeStore) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	if f.GetTaskErr != nil {
		return model.Task{}, f.GetTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return model.Task{}, storage.ErrTaskNotFound
	}
	return t, nil
}

func (f *FakeStore) ListTasks(ctx context.Context, completedLimit int) ([]model.TaskWithReminders, []model.TaskWithReminders, error) {
	if f.ListTasksErr != nil {
		return nil, nil, f.ListTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	incomplete := []model.TaskWithReminders{}
	completed := []model.TaskWithReminders{}
	for _, id := range f.taskOrder {
		t := f.tasks[id]
		tw := model.TaskWithReminders{Task: t, Reminders: f.remindersForTaskLocked(id, false)}
		if t.Completed {
			completed = append(completed, tw)
		} else {
			incomplete = append(incomplete, tw)
		}
	}

	sort.SliceStable(incomplete, func(i, j int) bool {
		if !incomplete[i].DueTime.Equal(incomplete[j].DueTime) {
			return incomplete[i].DueTime.Before(incomplete[j].DueTime)
		}
		return model.PriorityRank(incomplete[i].Priority) < model.PriorityRank(incomplete[j].Priority)
	})
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})
	if len(completed) > completedLimit {
		completed = completed[:completedLimit]
	}
	return incomplete, completed, nil
}

func (f *FakeStore) CompleteTask(ctx context.Context, taskID string, completedAt time.Time) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return storage.ErrTaskNotFound
	}
	t.Completed = true
	t.CompletedAt = &completedAt
	t.UpdatedAt = completedAt
	f.tasks[taskID] = t
	return nil
}

func (f *FakeStore) UpdateDueTime(ctx context.Context, taskID string, due time.Time, reminderTimes []time.Time) ([]model.Reminder, error) {
	if f.UpdateDueTimeErr != nil {
		return nil, f.UpdateDueTimeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, storage.ErrTaskNotFound
	}

	now := time.Now().UTC()
	t.DueTime = due
	t.UpdatedAt = now
	f.tasks[taskID] = t

	for id, r := range f.reminders {
		if r.TaskID != taskID {
			continue
		}
		if _, sent := f.records[id]; !sent {
			delete(f.reminders, id)
		}
	}

	reminders := make([]model.Reminder, 0, len(reminderTimes))
	for _, at := range reminderTimes {
		r := model.Reminder{
			ReminderID:   uuid.New().String(),
			TaskID:       taskID,
			ReminderTime: at,
			CreatedAt:    now,
		}
		f.reminders[r.ReminderID] = r
		reminders = append(reminders, r)
	}
	return reminders, nil
}

func (f *FakeStore) DeleteTask(ctx context.Context, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[taskID]; !ok {
		return storage.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	for i, id := range f.taskOrder {
		if id == taskID {
			f.taskOrder = append(f.taskOrder[:i], f.taskOrder[i+1:]...)
			break
		}
	}
	for id, r := range f.reminders {
		if r.TaskID == taskID {
			delete(f.reminders, id)
			delete(f.records, id)
		}
	}
	return nil
}

func (f *FakeStore) PendingTasksWithReminders(ctx context.Context) ([]model.TaskWithReminders, error) {
	if f.PendingTasksErr != nil {
		return nil, f.PendingTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TaskWithReminders{}
	for _, id := range f.taskOrder {
		t := f.tasks[id]
		if t.Completed {
			continue
		}
		out = append(out, model.TaskWithReminders{Task: t, Reminders: f.remindersForTaskLocked(id, true)})
	}
	return out, nil
}

func (f *FakeStore) DispatchRecordExists(ctx context.Context, reminderID string) (bool, error) {
	if f.RecordExistsErr != nil {
		return false, f.RecordExistsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[reminderID]
	return ok, nil
}

func (f *FakeStore) InsertDispatchRecord(ctx context.Context, rec model.DispatchRecord) (bool, error) {
	if f.InsertRecordErr != nil {
		return false, f.InsertRecordErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[rec.ReminderID]; ok {
		return false, nil
	}
	f.records[rec.ReminderID] = rec
	return true, nil
}

func (f *FakeStore) IncrementReminderAttempts(ctx context.Context, reminderID string) (int, error) {
	if f.IncrementAttemptsErr != nil {
		return 0, f.IncrementAttemptsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.reminders[reminderID]
	r.Attempts++
	f.reminders[reminderID] = r
	return r.Attempts, nil
}

func (f *FakeStore) MarkReminderAbandoned(ctx context.Context, reminderID string) error {
	if f.MarkAbandonedErr != nil {
		return f.MarkAbandonedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.reminders[reminderID]
	r.Abandoned = true
	f.reminders[reminderID] = r
	return nil
}

func (f *FakeStore) GetCheckpoint(ctx context.Context, name string) (time.Time, bool, error) {
	if f.GetCheckpointErr != nil {
		return time.Time{}, false, f.GetCheckpointErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.checkpoints[name]
	return v, ok, nil
}

func (f *FakeStore) SetCheckpoint(ctx context.Context, name string, value time.Time) error {
	if f.SetCheckpointErr != nil {
		return f.SetCheckpointErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkpoints[name] = value
	return nil
}

// Checkpoint returns the stored checkpoint value and whether it exists.
func (f *FakeStore) Checkpoint(name string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.checkpoints[name]
	return v, ok
}

func (f *FakeStore) Ping(ctx context.Context) error { return nil }

func (f *FakeStore) Close() {}
