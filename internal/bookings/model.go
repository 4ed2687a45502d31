package bookings

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a booking. Only pending and confirmed
// bookings occupy time; cancellation releases the slot immediately.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Active reports whether the status occupies time.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking is a reserved interval on a resource. ResolvedPrice and
// ScheduleSnapshot are captured at creation time so later rule or schedule
// edits never change what a historical booking records.
type Booking struct {
	ID               uuid.UUID       `json:"id"`
	ResourceID       uuid.UUID       `json:"resource_id"`
	Start            time.Time       `json:"start_datetime"`
	End              time.Time       `json:"end_datetime"`
	Status           Status          `json:"status"`
	ResolvedPrice    float64         `json:"resolved_price"`
	ScheduleSnapshot json.RawMessage `json:"schedule_snapshot,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
