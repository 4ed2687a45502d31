package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/slotwise/booking-platform/internal/observability/metrics"
	"github.com/slotwise/booking-platform/pkg/logging"
)

var pricingTracer = otel.Tracer("slotwise.internal.pricing")

// RuleSource supplies the candidate rules for a business.
type RuleSource interface {
	ListActiveForBusiness(ctx context.Context, businessID uuid.UUID) ([]Rule, error)
}

// Service resolves final prices from stored rules.
type Service struct {
	rules   RuleSource
	logger  *logging.Logger
	metrics *metrics.EngineMetrics
}

// NewService constructs a pricing service. Metrics may be nil.
func NewService(rules RuleSource, logger *logging.Logger, m *metrics.EngineMetrics) *Service {
	if rules == nil {
		panic("pricing: rule source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{rules: rules, logger: logger, metrics: m}
}

// Quote is the outcome of one price resolution.
type Quote struct {
	BasePrice  float64       `json:"base_price"`
	FinalPrice float64       `json:"final_price"`
	ResolvedAt time.Time     `json:"resolved_at"`
	Applied    []AppliedRule `json:"applied_rules"`
}

// ResolveForScope loads the business's rules and folds them over the base
// price at the given instant.
func (s *Service) ResolveForScope(ctx context.Context, basePrice float64, scope Scope, at time.Time) (*Quote, error) {
	ctx, span := pricingTracer.Start(ctx, "pricing.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("slotwise.business_id", scope.BusinessID.String()))

	if basePrice < 0 {
		s.metrics.ObservePriceResolution("error")
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePrice, basePrice)
	}

	rules, err := s.rules.ListActiveForBusiness(ctx, scope.BusinessID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObservePriceResolution("error")
		return nil, err
	}

	final, applied, err := Resolve(basePrice, rules, scope, at)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObservePriceResolution("error")
		return nil, err
	}
	s.metrics.ObservePriceResolution("ok")

	s.logger.Debug("price resolved",
		"business_id", scope.BusinessID,
		"base_price", basePrice,
		"final_price", final,
		"rules_applied", len(applied),
	)
	return &Quote{
		BasePrice:  basePrice,
		FinalPrice: final,
		ResolvedAt: at,
		Applied:    applied,
	}, nil
}
