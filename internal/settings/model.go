package settings

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Defaults used when a resource has no slot_settings row.
const (
	DefaultSlotIncrementMinutes = 30
	DefaultBufferBeforeMinutes  = 0
	DefaultBufferAfterMinutes   = 0
	DefaultMinAdvanceHours      = 0
	DefaultMaxAdvanceDays       = 30
)

// Settings controls slot granularity, conflict buffers, and the advance
// booking window for one resource.
type Settings struct {
	ResourceID           uuid.UUID
	SlotIncrementMinutes int
	BufferBeforeMinutes  int
	BufferAfterMinutes   int
	MinAdvanceHours      int
	MaxAdvanceDays       int
}

// Defaults returns the settings applied when no row exists.
func Defaults(resourceID uuid.UUID) Settings {
	return Settings{
		ResourceID:           resourceID,
		SlotIncrementMinutes: DefaultSlotIncrementMinutes,
		BufferBeforeMinutes:  DefaultBufferBeforeMinutes,
		BufferAfterMinutes:   DefaultBufferAfterMinutes,
		MinAdvanceHours:      DefaultMinAdvanceHours,
		MaxAdvanceDays:       DefaultMaxAdvanceDays,
	}
}

// Validate reports configuration errors an operator must fix.
func (s Settings) Validate() error {
	if s.SlotIncrementMinutes <= 0 {
		return fmt.Errorf("%w: slot_increment_minutes %d", ErrInvalidIncrement, s.SlotIncrementMinutes)
	}
	if s.BufferBeforeMinutes < 0 || s.BufferAfterMinutes < 0 {
		return fmt.Errorf("%w: negative buffer", ErrInvalidSettings)
	}
	if s.MinAdvanceHours < 0 || s.MaxAdvanceDays <= 0 {
		return fmt.Errorf("%w: advance window %dh-%dd", ErrInvalidSettings, s.MinAdvanceHours, s.MaxAdvanceDays)
	}
	return nil
}

// Increment returns the slot step as a duration.
func (s Settings) Increment() time.Duration {
	return time.Duration(s.SlotIncrementMinutes) * time.Minute
}

// BufferBefore returns the pre-booking buffer as a duration.
func (s Settings) BufferBefore() time.Duration {
	return time.Duration(s.BufferBeforeMinutes) * time.Minute
}

// BufferAfter returns the post-booking buffer as a duration.
func (s Settings) BufferAfter() time.Duration {
	return time.Duration(s.BufferAfterMinutes) * time.Minute
}

// EarliestStart is the first instant a slot may begin, given now.
func (s Settings) EarliestStart(now time.Time) time.Time {
	return now.Add(time.Duration(s.MinAdvanceHours) * time.Hour)
}

// LatestStart is the last instant a slot may begin, given now.
func (s Settings) LatestStart(now time.Time) time.Time {
	return now.Add(time.Duration(s.MaxAdvanceDays) * 24 * time.Hour)
}
