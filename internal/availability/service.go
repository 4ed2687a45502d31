package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/slotwise/booking-platform/internal/bookings"
	"github.com/slotwise/booking-platform/internal/exceptions"
	"github.com/slotwise/booking-platform/internal/observability/metrics"
	"github.com/slotwise/booking-platform/internal/pricing"
	"github.com/slotwise/booking-platform/internal/resources"
	"github.com/slotwise/booking-platform/internal/schedule"
	"github.com/slotwise/booking-platform/internal/settings"
	"github.com/slotwise/booking-platform/pkg/logging"
)

const defaultHorizonDays = 30

// ResourceSource supplies resource rows for response enrichment and price
// scoping.
type ResourceSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*resources.Resource, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*resources.Resource, error)
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

// BookingSource supplies the live bookings the generator must avoid.
type BookingSource interface {
	ListActiveInRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]bookings.Booking, error)
}

// Service composes the stores into per-date availability with per-slot
// prices. Display reads may come from the short-TTL cache; checkout always
// recomputes.
type Service struct {
	resources   ResourceSource
	schedule    ScheduleSource
	settings    SettingsSource
	exceptions  ExceptionSource
	bookings    BookingSource
	rules       pricing.RuleSource
	cache       *Cache
	metrics     *metrics.EngineMetrics
	logger      *logging.Logger
	tracer      trace.Tracer
	horizonDays int
	now         func() time.Time
}

// Deps wires the service. Resources, Schedule, Settings, Exceptions, and
// Bookings are required; Rules, Cache, and Metrics are optional.
type Deps struct {
	Resources   ResourceSource
	Schedule    ScheduleSource
	Settings    SettingsSource
	Exceptions  ExceptionSource
	Bookings    BookingSource
	Rules       pricing.RuleSource
	Cache       *Cache
	Metrics     *metrics.EngineMetrics
	Logger      *logging.Logger
	HorizonDays int
	Now         func() time.Time
}

// NewService constructs the availability service.
func NewService(d Deps) *Service {
	if d.Resources == nil || d.Schedule == nil || d.Settings == nil || d.Exceptions == nil || d.Bookings == nil {
		panic("availability: all stores are required")
	}
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.HorizonDays <= 0 {
		d.HorizonDays = defaultHorizonDays
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		resources:   d.Resources,
		schedule:    d.Schedule,
		settings:    d.Settings,
		exceptions:  d.Exceptions,
		bookings:    d.Bookings,
		rules:       d.Rules,
		cache:       d.Cache,
		metrics:     d.Metrics,
		logger:      d.Logger,
		tracer:      otel.Tracer("slotwise.internal.availability"),
		horizonDays: d.HorizonDays,
		now:         d.Now,
	}
}

// PricedSlot is a bookable interval with the price a guest would pay if the
// booking started at Slot.Start.
type PricedSlot struct {
	Slot
	Price float64 `json:"base_price"`
}

// Result is one day's availability for a resource.
type Result struct {
	Resource *resources.Resource `json:"-"`
	Date     time.Time           `json:"date"`
	Slots    []PricedSlot        `json:"slots"`
}

// ForDate returns the bookable slots for a resource on one date. Slots read
// from the cache are re-priced against current rules so display and checkout
// share one resolution path.
func (s *Service) ForDate(ctx context.Context, resourceID uuid.UUID, date time.Time, duration time.Duration) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "availability.for_date")
	defer span.End()
	span.SetAttributes(
		attribute.String("slotwise.resource_id", resourceID.String()),
		attribute.String("slotwise.date", date.Format("2006-01-02")),
	)
	started := s.now()

	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailability("error", time.Since(started).Seconds(), 0)
		return nil, err
	}

	slots, err := s.slotsForDate(ctx, resource, date, duration)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailability("error", time.Since(started).Seconds(), 0)
		return nil, err
	}

	priced, err := s.price(ctx, resource, slots)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailability("error", time.Since(started).Seconds(), 0)
		return nil, err
	}

	outcome := "ok"
	if len(priced) == 0 {
		outcome = "empty"
	}
	s.metrics.ObserveAvailability(outcome, time.Since(started).Seconds(), len(priced))
	return &Result{Resource: resource, Date: date, Slots: priced}, nil
}

// ForDateByBusiness returns the day's availability for every active resource
// of a business, each computed through the same per-resource path ForDate
// uses. Unknown businesses and businesses with no active resources both
// yield an empty result set.
func (s *Service) ForDateByBusiness(ctx context.Context, businessID uuid.UUID, date time.Time, duration time.Duration) ([]*Result, error) {
	ctx, span := s.tracer.Start(ctx, "availability.for_date_business")
	defer span.End()
	span.SetAttributes(
		attribute.String("slotwise.business_id", businessID.String()),
		attribute.String("slotwise.date", date.Format("2006-01-02")),
	)
	started := s.now()

	list, err := s.resources.ListByBusiness(ctx, businessID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailability("error", time.Since(started).Seconds(), 0)
		return nil, err
	}

	results := make([]*Result, 0, len(list))
	total := 0
	for _, resource := range list {
		slots, err := s.slotsForDate(ctx, resource, date, duration)
		if err != nil {
			span.RecordError(err)
			s.metrics.ObserveAvailability("error", time.Since(started).Seconds(), 0)
			return nil, err
		}
		priced, err := s.price(ctx, resource, slots)
		if err != nil {
			span.RecordError(err)
			s.metrics.ObserveAvailability("error", time.Since(started).Seconds(), 0)
			return nil, err
		}
		total += len(priced)
		results = append(results, &Result{Resource: resource, Date: date, Slots: priced})
	}

	outcome := "ok"
	if total == 0 {
		outcome = "empty"
	}
	s.metrics.ObserveAvailability(outcome, time.Since(started).Seconds(), total)
	return results, nil
}

// FindSoonest scans forward from today and returns the first day with at
// least one bookable slot, up to maxDays (capped by the configured horizon).
func (s *Service) FindSoonest(ctx context.Context, resourceID uuid.UUID, duration time.Duration, maxDays int) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "availability.find_soonest")
	defer span.End()

	if maxDays <= 0 || maxDays > s.horizonDays {
		maxDays = s.horizonDays
	}

	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	today := s.now()
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	for i := 0; i < maxDays; i++ {
		date := day.AddDate(0, 0, i)
		slots, err := s.slotsForDate(ctx, resource, date, duration)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}
		priced, err := s.price(ctx, resource, slots)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		return &Result{Resource: resource, Date: date, Slots: priced}, nil
	}
	return &Result{Resource: resource, Slots: nil}, nil
}

// slotsForDate computes (or serves from cache) the raw slots for one day.
func (s *Service) slotsForDate(ctx context.Context, resource *resources.Resource, date time.Time, duration time.Duration) ([]Slot, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, resource.ID, date, duration)
		if err != nil {
			s.logger.Warn("availability cache read failed", "error", err)
		}
		if hit {
			s.metrics.ObserveCacheLookup("hit")
			return cached, nil
		}
		s.metrics.ObserveCacheLookup("miss")
	}

	cfg, err := s.settings.GetForResource(ctx, resource.ID)
	if err != nil {
		return nil, err
	}

	weekday := int(date.Weekday())
	entry, err := s.schedule.GetForWeekday(ctx, resource.ID, weekday)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	// Widen the query window by both buffers so bookings whose buffered
	// ranges reach into the day are loaded.
	pad := cfg.BufferBefore() + cfg.BufferAfter()
	from := dayStart.Add(-pad)
	to := dayStart.AddDate(0, 0, 1).Add(pad)

	blackouts, err := s.exceptions.ListBlackoutsInRange(ctx, resource.ID, from, to)
	if err != nil {
		return nil, err
	}
	blocks, err := s.exceptions.ListActiveBlocksForWeekday(ctx, resource.ID, weekday)
	if err != nil {
		return nil, err
	}
	active, err := s.bookings.ListActiveInRange(ctx, resource.ID, from, to)
	if err != nil {
		return nil, err
	}

	slots, err := Generate(GenerateInput{
		Entry:    entry,
		Settings: cfg,
		Date:     date,
		Duration: duration,
		Now:      s.now(),
		Bookings: active,
		Blocked:  exceptions.NewResolver(date, blackouts, blocks),
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, resource.ID, date, duration, slots); err != nil {
			s.logger.Warn("availability cache write failed", "error", err)
		}
	}
	return slots, nil
}

// price resolves the current rules once and folds them per slot, using each
// slot's start as the pricing instant so time-bounded rules land correctly.
func (s *Service) price(ctx context.Context, resource *resources.Resource, slots []Slot) ([]PricedSlot, error) {
	out := make([]PricedSlot, 0, len(slots))
	if len(slots) == 0 {
		return out, nil
	}

	var rules []pricing.Rule
	if s.rules != nil {
		var err error
		rules, err = s.rules.ListActiveForBusiness(ctx, resource.BusinessID)
		if err != nil {
			return nil, err
		}
	}

	scope := pricing.Scope{
		BusinessID:     resource.BusinessID,
		BookableTypeID: resource.BookableTypeID,
		PackageID:      resource.PackageID,
	}
	for _, slot := range slots {
		price, _, err := pricing.Resolve(resource.BasePrice, rules, scope, slot.Start)
		if err != nil {
			return nil, err
		}
		out = append(out, PricedSlot{Slot: slot, Price: price})
	}
	return out, nil
}

// InvalidateDay drops the cached availability for a resource's date. The
// checkout flow calls this after a successful reserve or cancel.
func (s *Service) InvalidateDay(ctx context.Context, resourceID uuid.UUID, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, resourceID, date); err != nil {
		s.logger.Warn("availability cache invalidate failed", "error", err)
	}
}
