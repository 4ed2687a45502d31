package exceptions

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var day = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC) // a Wednesday

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestIsBlockedByBlackout(t *testing.T) {
	blackout := Blackout{
		ID:         uuid.New(),
		ResourceID: uuid.New(),
		Start:      at(12, 0),
		End:        at(14, 0),
		Reason:     "maintenance",
	}
	r := NewResolver(day, []Blackout{blackout}, nil)

	tests := []struct {
		name       string
		start, end time.Time
		blocked    bool
	}{
		{"fully inside", at(12, 30), at(13, 30), true},
		{"straddles start", at(11, 30), at(12, 30), true},
		{"straddles end", at(13, 30), at(14, 30), true},
		{"covers blackout", at(11, 0), at(15, 0), true},
		{"before blackout", at(10, 0), at(11, 0), false},
		{"ends exactly at blackout start", at(11, 0), at(12, 0), false},
		{"starts exactly at blackout end", at(14, 0), at(15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IsBlocked(tt.start, tt.end); got != tt.blocked {
				t.Fatalf("IsBlocked(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.blocked)
			}
		})
	}
}

func TestIsBlockedAllDayBlackout(t *testing.T) {
	// All-day blackouts run 00:00:00-23:59:59 of the covered date.
	blackout := Blackout{
		Start: at(0, 0),
		End:   day.Add(23*time.Hour + 59*time.Minute + 59*time.Second),
	}
	r := NewResolver(day, []Blackout{blackout}, nil)

	if !r.IsBlocked(at(9, 0), at(10, 0)) {
		t.Error("slot inside an all-day blackout should be blocked")
	}
	nextDay := day.AddDate(0, 0, 1)
	if r.IsBlocked(nextDay, nextDay.Add(time.Hour)) {
		t.Error("slot on the following day should not be blocked")
	}
}

func TestIsBlockedByRecurringBlock(t *testing.T) {
	lunch := RecurringBlock{
		DayOfWeek:   3,
		StartMinute: 13 * 60,
		EndMinute:   14 * 60,
		Reason:      "lunch",
		IsActive:    true,
	}
	r := NewResolver(day, nil, []RecurringBlock{lunch})

	if !r.IsBlocked(at(13, 30), at(14, 30)) {
		t.Error("slot overlapping lunch should be blocked")
	}
	if r.IsBlocked(at(14, 0), at(15, 0)) {
		t.Error("slot starting at block end should not be blocked")
	}
}

func TestInactiveBlockIgnored(t *testing.T) {
	block := RecurringBlock{
		DayOfWeek:   3,
		StartMinute: 13 * 60,
		EndMinute:   14 * 60,
		IsActive:    false,
	}
	r := NewResolver(day, nil, []RecurringBlock{block})

	if r.IsBlocked(at(13, 0), at(14, 0)) {
		t.Error("deactivated block should not block anything")
	}
}
