package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{"valid window", Entry{DayOfWeek: 1, StartMinute: 9 * 60, EndMinute: 17 * 60, IsActive: true}, false},
		{"start equals end", Entry{DayOfWeek: 1, StartMinute: 9 * 60, EndMinute: 9 * 60}, true},
		{"overnight window", Entry{DayOfWeek: 5, StartMinute: 22 * 60, EndMinute: 2 * 60}, true},
		{"weekday out of range", Entry{DayOfWeek: 7, StartMinute: 9 * 60, EndMinute: 17 * 60}, true},
		{"negative start", Entry{DayOfWeek: 0, StartMinute: -30, EndMinute: 17 * 60}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRow) {
					t.Fatalf("expected ErrMalformedRow, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWindowOn(t *testing.T) {
	entry := Entry{ResourceID: uuid.New(), DayOfWeek: 2, StartMinute: 9*60 + 30, EndMinute: 17 * 60}
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) // a Tuesday

	start, end := entry.WindowOn(date)
	if start.Hour() != 9 || start.Minute() != 30 {
		t.Errorf("unexpected window start: %s", start)
	}
	if end.Hour() != 17 || end.Minute() != 0 {
		t.Errorf("unexpected window end: %s", end)
	}
	if !start.Truncate(24 * time.Hour).Equal(date) {
		t.Errorf("window start not on the target date: %s", start)
	}
}

func TestSnapshotAt(t *testing.T) {
	entry := Entry{DayOfWeek: 3, StartMinute: 8 * 60, EndMinute: 12*60 + 15}
	at := time.Date(2026, 6, 1, 14, 0, 0, 0, time.UTC)

	snap := entry.SnapshotAt(at)
	if snap.StartTime != "08:00" || snap.EndTime != "12:15" {
		t.Errorf("unexpected snapshot times: %+v", snap)
	}
	if snap.DayOfWeek != 3 {
		t.Errorf("unexpected snapshot weekday: %d", snap.DayOfWeek)
	}
	if snap.CapturedAt != "2026-06-01T14:00:00Z" {
		t.Errorf("unexpected captured_at: %s", snap.CapturedAt)
	}
}
