// Package postgres implements storage.Store on a hosted Postgres
// database via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskreminder/model"
	"taskreminder/storage"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateTaskWithReminders(ctx context.Context, task model.Task, reminderTimes []time.Time) (model.Task, []model.Reminder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Task{}, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tasks (id, title, due_time, priority, completed, single_reminder, hours_before, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $6, $7, $8, $9)
	`, task.TaskID, task.Title, task.DueTime, task.Priority,
		task.SingleReminder, task.HoursBefore, task.PhoneNumber,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return model.Task{}, nil, fmt.Errorf("insert task: %w", err)
	}

	reminders, err := insertReminders(ctx, tx, task.TaskID, reminderTimes, task.CreatedAt)
	if err != nil {
		return model.Task{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Task{}, nil, fmt.Errorf("commit: %w", err)
	}
	return task, reminders, nil
}

func insertReminders(ctx context.Context, tx pgx.Tx, taskID string, times []time.Time, createdAt time.Time) ([]model.Reminder, error) {
	reminders := make([]model.Reminder, 0, len(times))
	for _, t := range times {
		r := model.Reminder{
			ReminderID:   uuid.New().String(),
			TaskID:       taskID,
			ReminderTime: t,
			CreatedAt:    createdAt,
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO reminders (id, task_id, reminder_time, attempts, abandoned, created_at)
			VALUES ($1, $2, $3, 0, false, $4)
		`, r.ReminderID, r.TaskID, r.ReminderTime, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}

const taskColumns = `id, title, due_time, priority, completed, completed_at, single_reminder, hours_before, phone_number, created_at, updated_at`

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.TaskID, &t.Title, &t.DueTime, &t.Priority,
		&t.Completed, &t.CompletedAt, &t.SingleReminder, &t.HoursBefore,
		&t.PhoneNumber, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, storage.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, completedLimit int) ([]model.TaskWithReminders, []model.TaskWithReminders, error) {
	incomplete, err := s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE NOT completed
		ORDER BY due_time ASC,
			CASE priority WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 WHEN 'Low' THEN 2 ELSE 3 END
	`)
	if err != nil {
		return nil, nil, err
	}

	completed, err := s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE completed
		ORDER BY completed_at DESC
		LIMIT $1
	`, completedLimit)
	if err != nil {
		return nil, nil, err
	}

	if err := s.attachReminders(ctx, incomplete, false); err != nil {
		return nil, nil, err
	}
	if err := s.attachReminders(ctx, completed, false); err != nil {
		return nil, nil, err
	}
	return incomplete, completed, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]model.TaskWithReminders, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.TaskWithReminders{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, model.TaskWithReminders{Task: t, Reminders: []model.Reminder{}})
	}
	return tasks, rows.Err()
}

// attachReminders loads the reminders for every task in one query and
// groups them in memory. pendingOnly excludes abandoned reminders.
func (s *Store) attachReminders(ctx context.Context, tasks []model.TaskWithReminders, pendingOnly bool) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]string, 0, len(tasks))
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		ids = append(ids, t.TaskID)
		index[t.TaskID] = i
	}

	query := `
		SELECT id, task_id, reminder_time, attempts, abandoned, created_at
		FROM reminders
		WHERE task_id = ANY($1)
	`
	if pendingOnly {
		query += ` AND NOT abandoned`
	}
	query += ` ORDER BY reminder_time ASC`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r model.Reminder
		if err := rows.Scan(&r.ReminderID, &r.TaskID, &r.ReminderTime, &r.Attempts, &r.Abandoned, &r.CreatedAt); err != nil {
			return fmt.Errorf("scan reminder: %w", err)
		}
		i := index[r.TaskID]
		tasks[i].Reminders = append(tasks[i].Reminders, r)
	}
	return rows.Err()
}

func (s *Store) CompleteTask(ctx context.Context, taskID string, completedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tasks SET completed = true, completed_at = $2, updated_at = $2
		WHERE id = $1
	`, taskID, completedAt)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

func (s *Store) UpdateDueTime(ctx context.Context, taskID string, due time.Time, reminderTimes []time.Time) ([]model.Reminder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx, `
		UPDATE tasks SET due_time = $2, updated_at = $3 WHERE id = $1
	`, taskID, due, now)
	if err != nil {
		return nil, fmt.Errorf("update due time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, storage.ErrTaskNotFound
	}

	// Stale reminders are invalidated, but sent ones keep their dispatch
	// record so history stays intact.
	_, err = tx.Exec(ctx, `
		DELETE FROM reminders r
		WHERE r.task_id = $1
		  AND NOT EXISTS (SELECT 1 FROM dispatch_records d WHERE d.reminder_id = r.id)
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("delete stale reminders: %w", err)
	}

	reminders, err := insertReminders(ctx, tx, taskID, reminderTimes, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return reminders, nil
}

func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

func (s *Store) PendingTasksWithReminders(ctx context.Context) ([]model.TaskWithReminders, error) {
	tasks, err := s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE NOT completed
	`)
	if err != nil {
		return nil, err
	}
	if err := s.attachReminders(ctx, tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) DispatchRecordExists(ctx context.Context, reminderID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM dispatch_records WHERE reminder_id = $1)
	`, reminderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("dispatch record exists: %w", err)
	}
	return exists, nil
}

func (s *Store) InsertDispatchRecord(ctx context.Context, rec model.DispatchRecord) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO dispatch_records (reminder_id, processed_at, provider_message_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (reminder_id) DO NOTHING
	`, rec.ReminderID, rec.ProcessedAt, rec.ProviderMessageID)
	if err != nil {
		return false, fmt.Errorf("insert dispatch record: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) IncrementReminderAttempts(ctx context.Context, reminderID string) (int, error) {
	var attempts int
	err := s.pool.QueryRow(ctx, `
		UPDATE reminders SET attempts = attempts + 1 WHERE id = $1
		RETURNING attempts
	`, reminderID).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return attempts, nil
}

func (s *Store) MarkReminderAbandoned(ctx context.Context, reminderID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE reminders SET abandoned = true WHERE id = $1
	`, reminderID)
	if err != nil {
		return fmt.Errorf("mark abandoned: %w", err)
	}
	return nil
}

func (s *Store) GetCheckpoint(ctx context.Context, name string) (time.Time, bool, error) {
	var value time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM app_status WHERE name = $1
	`, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get checkpoint: %w", err)
	}
	return value, true, nil
}

func (s *Store) SetCheckpoint(ctx context.Context, name string, value time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO app_status (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value
	`, name, value)
	if err != nil {
		return fmt.Errorf("set checkpoint: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
