package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/slotwise/booking-platform/internal/availability"
	"github.com/slotwise/booking-platform/internal/checkout"
	httpmiddleware "github.com/slotwise/booking-platform/internal/http/middleware"
	"github.com/slotwise/booking-platform/internal/pricing"
	"github.com/slotwise/booking-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *availability.Handler
	PricingHandler      *pricing.Handler
	CheckoutHandler     *checkout.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Per-IP rate limit on the booking write endpoints; zero disables.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.AvailabilityHandler != nil {
		r.Route("/availability", func(r chi.Router) {
			r.Get("/", cfg.AvailabilityHandler.ForDate)
			r.Get("/soonest", cfg.AvailabilityHandler.FindSoonest)
		})
	}
	if cfg.PricingHandler != nil {
		r.Post("/pricing/resolve", cfg.PricingHandler.Resolve)
	}
	if cfg.CheckoutHandler != nil {
		r.Group(func(w chi.Router) {
			if cfg.BookingRateLimit > 0 {
				burst := cfg.BookingRateBurst
				if burst <= 0 {
					burst = 1
				}
				w.Use(httpmiddleware.RateLimit(cfg.BookingRateLimit, burst))
			}
			w.Post("/bookings", cfg.CheckoutHandler.Create)
			w.Post("/bookings/{id}/cancel", cfg.CheckoutHandler.Cancel)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
