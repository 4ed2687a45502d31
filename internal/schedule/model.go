package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one weekday's open window for a resource. Times are minutes from
// midnight in the resource's fixed local zone.
type Entry struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	DayOfWeek   int // 0=Sunday .. 6=Saturday
	StartMinute int
	EndMinute   int
	IsActive    bool
}

// Validate reports a configuration error for rows the generator must not
// consume. Overnight windows (end before start) are rejected rather than
// wrapped past midnight.
func (e *Entry) Validate() error {
	if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week %d out of range", ErrMalformedRow, e.DayOfWeek)
	}
	if e.StartMinute < 0 || e.EndMinute > 24*60 {
		return fmt.Errorf("%w: window %s-%s outside the day", ErrMalformedRow, minuteClock(e.StartMinute), minuteClock(e.EndMinute))
	}
	if e.StartMinute >= e.EndMinute {
		return fmt.Errorf("%w: start %s not before end %s", ErrMalformedRow, minuteClock(e.StartMinute), minuteClock(e.EndMinute))
	}
	return nil
}

// WindowOn projects the open window onto a calendar date.
func (e *Entry) WindowOn(date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(e.StartMinute) * time.Minute),
		day.Add(time.Duration(e.EndMinute) * time.Minute)
}

// Snapshot is the effective-schedule record persisted on a booking at
// creation time, so later admin edits never change how a historical booking
// is explained.
type Snapshot struct {
	DayOfWeek  int    `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	CapturedAt string `json:"captured_at"`
}

// SnapshotAt captures the entry for persistence on a booking row.
func (e *Entry) SnapshotAt(at time.Time) Snapshot {
	return Snapshot{
		DayOfWeek:  e.DayOfWeek,
		StartTime:  minuteClock(e.StartMinute),
		EndTime:    minuteClock(e.EndMinute),
		CapturedAt: at.Format(time.RFC3339),
	}
}

func minuteClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
