package availability

import (
	"fmt"
	"time"

	"github.com/slotwise/booking-platform/internal/bookings"
	"github.com/slotwise/booking-platform/internal/exceptions"
	"github.com/slotwise/booking-platform/internal/schedule"
	"github.com/slotwise/booking-platform/internal/settings"
)

// Slot is a candidate reservable interval. The buffer expansion used for
// occupancy checks is never part of the displayed window.
type Slot struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// GenerateInput carries everything the generator needs for one
// (resource, date) computation. Now is explicit so callers control the
// advance-window clock and tests stay deterministic.
type GenerateInput struct {
	Entry    *schedule.Entry
	Settings settings.Settings
	Date     time.Time
	Duration time.Duration
	Now      time.Time
	Bookings []bookings.Booking
	Blocked  *exceptions.Resolver
}

// Generate computes the ordered bookable slots for one resource and date.
// A missing or inactive weekday entry yields an empty result, not an error;
// malformed schedule rows and settings fail fast so operators see the
// misconfiguration instead of a silently empty calendar.
func Generate(in GenerateInput) ([]Slot, error) {
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, in.Duration)
	}
	if err := in.Settings.Validate(); err != nil {
		return nil, err
	}
	if in.Entry == nil || !in.Entry.IsActive {
		return nil, nil
	}
	if err := in.Entry.Validate(); err != nil {
		return nil, err
	}

	open, close := in.Entry.WindowOn(in.Date)
	earliest := in.Settings.EarliestStart(in.Now)
	latest := in.Settings.LatestStart(in.Now)
	inc := in.Settings.Increment()
	bufBefore := in.Settings.BufferBefore()
	bufAfter := in.Settings.BufferAfter()

	var out []Slot
	cursor := open
	for !cursor.Add(in.Duration).After(close) {
		if cursor.After(latest) {
			break
		}
		end := cursor.Add(in.Duration)

		if cursor.Before(earliest) {
			cursor = cursor.Add(inc)
			continue
		}
		if in.Blocked != nil && in.Blocked.IsBlocked(cursor.Add(-bufBefore), end.Add(bufAfter)) {
			cursor = cursor.Add(inc)
			continue
		}
		if conflicts := bookings.Conflicts(cursor, end, bufBefore, bufAfter, in.Bookings); len(conflicts) > 0 {
			// A conflicting booking rules out every candidate until its
			// buffered end, so jump the cursor there instead of stepping
			// through doomed increments. Slots after a booking may
			// therefore sit off the opening-time grid.
			next := bookings.ClearAfter(conflicts, bufBefore, bufAfter)
			if !next.After(cursor) {
				next = cursor.Add(inc)
			}
			cursor = next
			continue
		}

		out = append(out, Slot{Start: cursor, End: end})
		cursor = cursor.Add(inc)
	}
	return out, nil
}
