package exceptions

import (
	"time"

	"github.com/google/uuid"
)

// Blackout is a one-off absolute-datetime range during which a resource is
// unavailable regardless of its weekly schedule. An all-day blackout runs
// 00:00:00-23:59:59 on each covered date.
type Blackout struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
	Reason     string
}

// RecurringBlock is a weekly-repeating unavailability window, e.g. a lunch
// break. Times are minutes from midnight.
type RecurringBlock struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	DayOfWeek   int
	StartMinute int
	EndMinute   int
	Reason      string
	IsActive    bool
}

// WindowOn projects the block onto a calendar date.
func (b *RecurringBlock) WindowOn(date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(b.StartMinute) * time.Minute),
		day.Add(time.Duration(b.EndMinute) * time.Minute)
}
