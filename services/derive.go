package services

import (
	"fmt"
	"sort"
	"time"
)

// Bounds for the single-reminder hours-before setting.
const (
	MinHoursBefore = 1
	MaxHoursBefore = 24
)

// DeriveReminderTimes maps a task's reminder configuration onto absolute
// reminder instants, ascending.
//
// Single-reminder mode yields exactly one instant at due minus
// hoursBefore hours. Default mode yields one instant per configured
// offset. Instants in the past are still generated; filtering past-due
// reminders is the selector's job, not the deriver's. Duplicate instants
// are collapsed.
func DeriveReminderTimes(due time.Time, singleReminder bool, hoursBefore int, defaultOffsets []time.Duration) ([]time.Time, error) {
	if singleReminder {
		if hoursBefore < MinHoursBefore || hoursBefore > MaxHoursBefore {
			return nil, fmt.Errorf("hours_before must be between %d and %d, got %d", MinHoursBefore, MaxHoursBefore, hoursBefore)
		}
		return []time.Time{due.Add(-time.Duration(hoursBefore) * time.Hour)}, nil
	}

	times := make([]time.Time, 0, len(defaultOffsets))
	for _, offset := range defaultOffsets {
		times = append(times, due.Add(-offset))
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	deduped := times[:0]
	for i, t := range times {
		if i == 0 || !t.Equal(times[i-1]) {
			deduped = append(deduped, t)
		}
	}
	return deduped, nil
}
