package exceptions

import "time"

// Resolver answers whether a candidate interval collides with any exception
// on one date. Build one per (resource, date) from the store's rows; the
// recurring blocks must already be filtered to the date's weekday.
type Resolver struct {
	windows []window
}

type window struct {
	start time.Time
	end   time.Time
}

// NewResolver projects blackouts and weekday-matching recurring blocks onto
// the target date.
func NewResolver(date time.Time, blackouts []Blackout, blocks []RecurringBlock) *Resolver {
	r := &Resolver{}
	for _, b := range blackouts {
		r.windows = append(r.windows, window{start: b.Start, end: b.End})
	}
	for _, b := range blocks {
		if !b.IsActive {
			continue
		}
		start, end := b.WindowOn(date)
		r.windows = append(r.windows, window{start: start, end: end})
	}
	return r
}

// IsBlocked reports whether [start, end) overlaps any exception window. A
// blackout's end is its last blocked instant: a candidate beginning exactly
// at end_datetime is not blocked.
func (r *Resolver) IsBlocked(start, end time.Time) bool {
	for _, w := range r.windows {
		if start.Before(w.end) && end.After(w.start) {
			return true
		}
	}
	return false
}
