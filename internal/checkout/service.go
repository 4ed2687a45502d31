package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/slotwise/booking-platform/internal/bookings"
	"github.com/slotwise/booking-platform/internal/exceptions"
	"github.com/slotwise/booking-platform/internal/observability/metrics"
	"github.com/slotwise/booking-platform/internal/pricing"
	"github.com/slotwise/booking-platform/internal/resources"
	"github.com/slotwise/booking-platform/internal/schedule"
	"github.com/slotwise/booking-platform/internal/settings"
	"github.com/slotwise/booking-platform/pkg/logging"
)

var checkoutTracer = otel.Tracer("slotwise.internal.checkout")

// ResourceSource supplies the resource being booked.
type ResourceSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*resources.Resource, error)
}

// ScheduleSource supplies the weekday open window.
type ScheduleSource interface {
	GetForWeekday(ctx context.Context, resourceID uuid.UUID, weekday int) (*schedule.Entry, error)
}

// SettingsSource supplies slot settings with defaults applied.
type SettingsSource interface {
	GetForResource(ctx context.Context, resourceID uuid.UUID) (settings.Settings, error)
}

// ExceptionSource supplies blackouts and recurring blocks.
type ExceptionSource interface {
	ListBlackoutsInRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]exceptions.Blackout, error)
	ListActiveBlocksForWeekday(ctx context.Context, resourceID uuid.UUID, weekday int) ([]exceptions.RecurringBlock, error)
}

// Reserver is the atomic booking store.
type Reserver interface {
	Reserve(ctx context.Context, p bookings.ReserveParams) (*bookings.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
}

// PriceQuoter re-resolves the price against current rules during checkout.
type PriceQuoter interface {
	ResolveForScope(ctx context.Context, basePrice float64, scope pricing.Scope, at time.Time) (*pricing.Quote, error)
}

// CacheInvalidator drops stale display availability after a write.
type CacheInvalidator interface {
	InvalidateDay(ctx context.Context, resourceID uuid.UUID, date time.Time)
}

// Service runs the reserve-or-reject flow: validate, re-resolve the price
// against current rules, reserve atomically, persist the resolved price and
// the effective schedule snapshot on the booking row.
type Service struct {
	resources  ResourceSource
	schedule   ScheduleSource
	settings   SettingsSource
	exceptions ExceptionSource
	reserver   Reserver
	quoter     PriceQuoter
	cache      CacheInvalidator
	metrics    *metrics.EngineMetrics
	logger     *logging.Logger
	now        func() time.Time
}

// Deps wires the service. Resources, Schedule, Settings, Exceptions,
// Reserver, and Quoter are required.
type Deps struct {
	Resources  ResourceSource
	Schedule   ScheduleSource
	Settings   SettingsSource
	Exceptions ExceptionSource
	Reserver   Reserver
	Quoter     PriceQuoter
	Cache      CacheInvalidator
	Metrics    *metrics.EngineMetrics
	Logger     *logging.Logger
	Now        func() time.Time
}

// NewService constructs the checkout service.
func NewService(d Deps) *Service {
	if d.Resources == nil || d.Schedule == nil || d.Settings == nil || d.Exceptions == nil || d.Reserver == nil || d.Quoter == nil {
		panic("checkout: all stores are required")
	}
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		resources:  d.Resources,
		schedule:   d.Schedule,
		settings:   d.Settings,
		exceptions: d.Exceptions,
		reserver:   d.Reserver,
		quoter:     d.Quoter,
		cache:      d.Cache,
		metrics:    d.Metrics,
		logger:     d.Logger,
		now:        d.Now,
	}
}

// PlaceParams describes one reservation attempt. QuotedPrice, when set, is
// the price the guest saw; checkout fails with PriceChangedError if current
// rules resolve differently.
type PlaceParams struct {
	ResourceID  uuid.UUID
	Start       time.Time
	End         time.Time
	QuotedPrice *float64
}

func (p PlaceParams) validate() error {
	if p.ResourceID == uuid.Nil {
		return fmt.Errorf("%w: resource_id is required", ErrInvalidRequest)
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", ErrInvalidRequest)
	}
	if !p.Start.Before(p.End) {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidRequest)
	}
	if p.QuotedPrice != nil && *p.QuotedPrice < 0 {
		return fmt.Errorf("%w: quoted_price must not be negative", ErrInvalidRequest)
	}
	return nil
}

// Place reserves the slot or rejects the attempt. The conflict check against
// other bookings is the store's single-statement reserve, never a
// read-then-write here; this method only pre-validates what the slot
// generator would have enforced for display.
func (s *Service) Place(ctx context.Context, p PlaceParams) (*bookings.Booking, error) {
	ctx, span := checkoutTracer.Start(ctx, "checkout.place")
	defer span.End()
	span.SetAttributes(attribute.String("slotwise.resource_id", p.ResourceID.String()))

	if err := p.validate(); err != nil {
		return nil, err
	}

	resource, err := s.resources.GetByID(ctx, p.ResourceID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	cfg, err := s.settings.GetForResource(ctx, resource.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := s.now()
	if p.Start.Before(cfg.EarliestStart(now)) || p.Start.After(cfg.LatestStart(now)) {
		return nil, ErrOutsideWindow
	}

	entry, err := s.schedule.GetForWeekday(ctx, resource.ID, int(p.Start.Weekday()))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if entry == nil || !entry.IsActive {
		return nil, fmt.Errorf("%w: resource is closed that day", bookings.ErrSlotUnavailable)
	}
	if err := entry.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	open, close := entry.WindowOn(p.Start)
	if p.Start.Before(open) || p.End.After(close) {
		return nil, fmt.Errorf("%w: outside opening hours", bookings.ErrSlotUnavailable)
	}

	blocked, err := s.isBlocked(ctx, resource.ID, p.Start, p.End, cfg)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if blocked {
		return nil, fmt.Errorf("%w: blocked by an exception window", bookings.ErrSlotUnavailable)
	}

	// Price at the slot's start, the same instant display pricing uses, so a
	// rule bounded to the slot's day never flags an unchanged quote as drift.
	// The rules themselves are still re-read here.
	quote, err := s.quoter.ResolveForScope(ctx, resource.BasePrice, pricing.Scope{
		BusinessID:     resource.BusinessID,
		BookableTypeID: resource.BookableTypeID,
		PackageID:      resource.PackageID,
	}, p.Start)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if p.QuotedPrice != nil && *p.QuotedPrice != quote.FinalPrice {
		return nil, &PriceChangedError{QuotedPrice: *p.QuotedPrice, CurrentPrice: quote.FinalPrice}
	}

	booking, err := s.reserver.Reserve(ctx, bookings.ReserveParams{
		ResourceID:          resource.ID,
		Start:               p.Start,
		End:                 p.End,
		BufferBeforeMinutes: cfg.BufferBeforeMinutes,
		BufferAfterMinutes:  cfg.BufferAfterMinutes,
		ResolvedPrice:       quote.FinalPrice,
		ScheduleSnapshot:    entry.SnapshotAt(now),
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, bookings.ErrSlotUnavailable) {
			s.metrics.ObserveReserve("conflict")
		} else {
			s.metrics.ObserveReserve("error")
		}
		return nil, err
	}

	s.metrics.ObserveReserve("confirmed")
	s.invalidateDay(ctx, resource.ID, p.Start)
	s.logger.Info("booking reserved",
		"booking_id", booking.ID,
		"resource_id", resource.ID,
		"start", booking.Start,
		"resolved_price", booking.ResolvedPrice,
	)
	return booking, nil
}

// Cancel releases a booking's slot immediately.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	ctx, span := checkoutTracer.Start(ctx, "checkout.cancel")
	defer span.End()

	booking, err := s.reserver.Cancel(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.invalidateDay(ctx, booking.ResourceID, booking.Start)
	s.logger.Info("booking cancelled", "booking_id", booking.ID, "resource_id", booking.ResourceID)
	return booking, nil
}

func (s *Service) isBlocked(ctx context.Context, resourceID uuid.UUID, start, end time.Time, cfg settings.Settings) (bool, error) {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	pad := cfg.BufferBefore() + cfg.BufferAfter()

	blackouts, err := s.exceptions.ListBlackoutsInRange(ctx, resourceID, day.Add(-pad), day.AddDate(0, 0, 1).Add(pad))
	if err != nil {
		return false, err
	}
	blocks, err := s.exceptions.ListActiveBlocksForWeekday(ctx, resourceID, int(start.Weekday()))
	if err != nil {
		return false, err
	}

	resolver := exceptions.NewResolver(day, blackouts, blocks)
	return resolver.IsBlocked(start.Add(-cfg.BufferBefore()), end.Add(cfg.BufferAfter())), nil
}

func (s *Service) invalidateDay(ctx context.Context, resourceID uuid.UUID, start time.Time) {
	if s.cache == nil {
		return
	}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	s.cache.InvalidateDay(ctx, resourceID, day)
}
