package bookings

import "time"

// Conflicts returns the bookings whose buffer-expanded ranges intersect the
// buffer-expanded candidate [candStart, candEnd). Ranges are half-open, so a
// candidate that begins exactly where a buffered booking ends is free.
// Cancelled bookings never conflict.
func Conflicts(candStart, candEnd time.Time, bufBefore, bufAfter time.Duration, existing []Booking) []Booking {
	expandedStart := candStart.Add(-bufBefore)
	expandedEnd := candEnd.Add(bufAfter)

	var out []Booking
	for _, b := range existing {
		if !b.Status.Active() {
			continue
		}
		if expandedStart.Before(b.End.Add(bufAfter)) && expandedEnd.After(b.Start.Add(-bufBefore)) {
			out = append(out, b)
		}
	}
	return out
}

// IsFree reports whether the candidate range is clear of every active
// booking once both sides are buffer-expanded.
func IsFree(candStart, candEnd time.Time, bufBefore, bufAfter time.Duration, existing []Booking) bool {
	return len(Conflicts(candStart, candEnd, bufBefore, bufAfter, existing)) == 0
}

// ClearAfter returns the earliest instant a candidate may start once the
// given conflicting bookings are behind it: the latest buffered booking end
// pushed out by the candidate's own leading buffer.
func ClearAfter(conflicts []Booking, bufBefore, bufAfter time.Duration) time.Time {
	var latest time.Time
	for _, b := range conflicts {
		if end := b.End.Add(bufAfter); end.After(latest) {
			latest = end
		}
	}
	return latest.Add(bufBefore)
}
