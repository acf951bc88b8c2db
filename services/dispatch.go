package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskreminder/model"
	"taskreminder/storage"
)

// PassOptions carries the tunables of one dispatch pass.
type PassOptions struct {
	// Lookback replaces the checkpoint on the very first run, so a
	// fresh deployment doesn't replay all history.
	Lookback time.Duration
	// MaxAttempts caps delivery retries before a reminder is abandoned.
	MaxAttempts int
	// SendTimeout bounds each provider call.
	SendTimeout time.Duration
	// DefaultRecipient is used for tasks without their own phone number.
	DefaultRecipient string
}

// RunPass executes one due-reminder evaluation-and-send pass.
//
// now must be captured once by the caller and is used for the whole
// pass: the selection window upper bound, dispatch record timestamps and
// the advanced checkpoint all share it.
//
// A store failure aborts the pass with an error and the checkpoint stays
// put, so the cron caller sees a failed invocation and the next pass
// re-evaluates the same window. Send failures do not abort: they are
// counted, the reminder's attempt counter is bumped, and the checkpoint
// is withheld so the reminder is retried on the next pass (the dispatch
// records written so far keep the replay idempotent).
func RunPass(ctx context.Context, store storage.Store, notifier Notifier, opts PassOptions, now time.Time) (model.PassSummary, error) {
	summary := model.PassSummary{}

	lastProcessed, found, err := store.GetCheckpoint(ctx, model.CheckpointLastProcessed)
	if err != nil {
		return summary, fmt.Errorf("read checkpoint: %w", err)
	}
	if !found {
		lastProcessed = now.Add(-opts.Lookback)
		log.Printf("[dispatch] no checkpoint yet, starting from %s", lastProcessed.Format(time.RFC3339))
	}
	summary.Checkpoint = lastProcessed

	tasks, err := store.PendingTasksWithReminders(ctx)
	if err != nil {
		return summary, fmt.Errorf("load pending tasks: %w", err)
	}

	due := SelectDueReminders(tasks, lastProcessed, now)
	summary.Evaluated = len(due)

	sendFailed := false
	for _, d := range due {
		exists, err := store.DispatchRecordExists(ctx, d.Reminder.ReminderID)
		if err != nil {
			return summary, fmt.Errorf("check dispatch record: %w", err)
		}
		if exists {
			summary.Skipped++
			continue
		}

		to := d.Task.PhoneNumber
		if to == "" {
			to = opts.DefaultRecipient
		}

		sendCtx, cancel := context.WithTimeout(ctx, opts.SendTimeout)
		messageID, err := notifier.Send(sendCtx, to, ReminderMessage(d.Task), d.Task.Priority)
		cancel()
		if err != nil {
			sendFailed = true
			summary.Errored++
			log.Printf("[dispatch] send failed for reminder %s (task %q): %v", d.Reminder.ReminderID, d.Task.Title, err)

			attempts, err := store.IncrementReminderAttempts(ctx, d.Reminder.ReminderID)
			if err != nil {
				return summary, fmt.Errorf("increment attempts: %w", err)
			}
			if attempts >= opts.MaxAttempts {
				if err := store.MarkReminderAbandoned(ctx, d.Reminder.ReminderID); err != nil {
					return summary, fmt.Errorf("mark abandoned: %w", err)
				}
				summary.Abandoned++
				log.Printf("[dispatch] reminder %s abandoned after %d attempts", d.Reminder.ReminderID, attempts)
			}
			continue
		}

		inserted, err := store.InsertDispatchRecord(ctx, model.DispatchRecord{
			ReminderID:        d.Reminder.ReminderID,
			ProcessedAt:       now,
			ProviderMessageID: messageID,
		})
		if err != nil {
			return summary, fmt.Errorf("insert dispatch record: %w", err)
		}
		if !inserted {
			// An overlapping pass recorded this reminder between our
			// existence check and the send. The duplicate notification
			// already went out; the record stays unique.
			log.Printf("[dispatch] reminder %s was recorded by a concurrent pass", d.Reminder.ReminderID)
			summary.Skipped++
			continue
		}
		summary.Sent++
	}

	if sendFailed {
		// Checkpoint intentionally not advanced: the next pass replays
		// this window and the dispatch records skip what already went
		// out.
		return summary, nil
	}

	if err := store.SetCheckpoint(ctx, model.CheckpointLastProcessed, now); err != nil {
		return summary, fmt.Errorf("advance checkpoint: %w", err)
	}
	summary.Checkpoint = now
	return summary, nil
}

// ReminderMessage renders the notification body for a task.
func ReminderMessage(t model.Task) string {
	return fmt.Sprintf("🔔 Reminder: %s (%s priority) is due at %s",
		t.Title, t.Priority, t.DueTime.UTC().Format("2006-01-02 15:04 MST"))
}
