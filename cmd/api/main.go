package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/slotwise/booking-platform/internal/api/router"
	"github.com/slotwise/booking-platform/internal/availability"
	"github.com/slotwise/booking-platform/internal/bookings"
	"github.com/slotwise/booking-platform/internal/checkout"
	appconfig "github.com/slotwise/booking-platform/internal/config"
	"github.com/slotwise/booking-platform/internal/exceptions"
	"github.com/slotwise/booking-platform/internal/observability/metrics"
	"github.com/slotwise/booking-platform/internal/pricing"
	"github.com/slotwise/booking-platform/internal/resources"
	"github.com/slotwise/booking-platform/internal/schedule"
	"github.com/slotwise/booking-platform/internal/settings"
	"github.com/slotwise/booking-platform/pkg/logging"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	loc, err := time.LoadLocation(cfg.LocalTimezone)
	if err != nil {
		logger.Error("invalid LOCAL_TIMEZONE", "error", err, "zone", cfg.LocalTimezone)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to reach postgres", "error", err)
		os.Exit(1)
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Display caching degrades to direct reads; the engine stays up.
		logger.Warn("redis unreachable, availability cache disabled", "error", err)
		redisClient = nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engineMetrics := metrics.NewEngineMetrics(registry)

	// Stores
	resourceRepo := resources.NewPostgresRepository(pool)
	scheduleStore := schedule.NewStore(pool)
	settingsStore := settings.NewStore(pool)
	exceptionStore := exceptions.NewStore(pool)
	bookingRepo := bookings.NewRepository(pool)
	ruleStore := pricing.NewStore(pool)

	var cache *availability.Cache
	if redisClient != nil {
		cache = availability.NewCache(redisClient, cfg.AvailabilityCacheTTL)
	}

	// Services
	pricingSvc := pricing.NewService(ruleStore, logger, engineMetrics)
	availabilitySvc := availability.NewService(availability.Deps{
		Resources:   resourceRepo,
		Schedule:    scheduleStore,
		Settings:    settingsStore,
		Exceptions:  exceptionStore,
		Bookings:    bookingRepo,
		Rules:       ruleStore,
		Cache:       cache,
		Metrics:     engineMetrics,
		Logger:      logger.Component("availability"),
		HorizonDays: cfg.SearchHorizonDays,
	})
	checkoutSvc := checkout.NewService(checkout.Deps{
		Resources:  resourceRepo,
		Schedule:   scheduleStore,
		Settings:   settingsStore,
		Exceptions: exceptionStore,
		Reserver:   bookingRepo,
		Quoter:     pricingSvc,
		Cache:      availabilitySvc,
		Metrics:    engineMetrics,
		Logger:     logger.Component("checkout"),
	})

	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(availabilitySvc, logger.Component("availability"), loc),
		PricingHandler:      pricing.NewHandler(pricingSvc, logger.Component("pricing"), nil),
		CheckoutHandler:     checkout.NewHandler(checkoutSvc, logger.Component("checkout"), loc),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		BookingRateLimit:    cfg.BookingRateLimit,
		BookingRateBurst:    cfg.BookingRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
