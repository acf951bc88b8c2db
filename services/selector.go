package services

import (
	"sort"
	"time"

	"taskreminder/model"
)

// DueReminder pairs a newly-due reminder with its owning task, which
// carries the notification destination and message details.
type DueReminder struct {
	Task     model.Task
	Reminder model.Reminder
}

// SelectDueReminders returns the reminders whose instant falls in the
// half-open window (lastProcessed, now]. The open lower bound prevents
// re-firing a reminder sitting exactly on the checkpoint; the closed
// upper bound catches everything that became due since the last pass,
// however long ago that was, so missed cron ticks replay the whole
// backlog.
//
// Completed tasks and abandoned reminders are excluded. Within a task,
// reminders come back in ascending instant order; ordering across tasks
// is not guaranteed.
func SelectDueReminders(tasks []model.TaskWithReminders, lastProcessed, now time.Time) []DueReminder {
	due := []DueReminder{}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		var mine []DueReminder
		for _, r := range t.Reminders {
			if r.Abandoned {
				continue
			}
			if r.ReminderTime.After(lastProcessed) && !r.ReminderTime.After(now) {
				mine = append(mine, DueReminder{Task: t.Task, Reminder: r})
			}
		}
		sort.Slice(mine, func(i, j int) bool {
			return mine[i].Reminder.ReminderTime.Before(mine[j].Reminder.ReminderTime)
		})
		due = append(due, mine...)
	}
	return due
}
