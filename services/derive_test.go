package services

import (
	"testing"
	"time"
)

func TestDeriveReminderTimes_SingleMode(t *testing.T) {
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	times, err := DeriveReminderTimes(due, true, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 1 {
		t.Fatalf("expected exactly one reminder, got %d", len(times))
	}

	want := time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC)
	if !times[0].Equal(want) {
		t.Errorf("expected reminder at %s, got %s", want, times[0])
	}
}

func TestDeriveReminderTimes_SingleModeBounds(t *testing.T) {
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		hoursBefore int
		wantErr     bool
	}{
		{"zero", 0, true},
		{"negative", -3, true},
		{"too large", 25, true},
		{"minimum", 1, false},
		{"maximum", 24, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times, err := DeriveReminderTimes(due, true, tt.hoursBefore, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for hours_before=%d", tt.hoursBefore)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := due.Add(-time.Duration(tt.hoursBefore) * time.Hour)
			if len(times) != 1 || !times[0].Equal(want) {
				t.Errorf("expected one reminder at %s, got %v", want, times)
			}
		})
	}
}

func TestDeriveReminderTimes_DefaultMode(t *testing.T) {
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	offsets := []time.Duration{24 * time.Hour, time.Hour}

	times, err := DeriveReminderTimes(due, false, 0, offsets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("expected two reminders, got %d", len(times))
	}

	// Ascending: the 24h offset comes first.
	if !times[0].Equal(due.Add(-24 * time.Hour)) {
		t.Errorf("expected first reminder at due-24h, got %s", times[0])
	}
	if !times[1].Equal(due.Add(-time.Hour)) {
		t.Errorf("expected second reminder at due-1h, got %s", times[1])
	}
}

func TestDeriveReminderTimes_PastInstantsStillGenerated(t *testing.T) {
	// Task due in 30 minutes: the 24h offset falls in the past. The
	// deriver still generates it; filtering is the selector's job.
	due := time.Now().UTC().Add(30 * time.Minute)
	offsets := []time.Duration{24 * time.Hour, time.Hour}

	times, err := DeriveReminderTimes(due, false, 0, offsets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("expected two reminders even with past instants, got %d", len(times))
	}
}

func TestDeriveReminderTimes_DuplicateOffsetsCollapsed(t *testing.T) {
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	offsets := []time.Duration{time.Hour, time.Hour, 24 * time.Hour}

	times, err := DeriveReminderTimes(due, false, 0, offsets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("expected duplicates collapsed to two reminders, got %d", len(times))
	}
}
