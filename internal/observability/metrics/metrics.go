package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for the availability and
// pricing engine.
type EngineMetrics struct {
	availabilityTotal   *prometheus.CounterVec
	availabilityLatency prometheus.Histogram
	slotsPerRequest     prometheus.Histogram
	cacheLookups        *prometheus.CounterVec
	reserveTotal        *prometheus.CounterVec
	priceResolutions    *prometheus.CounterVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwise",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Total availability computations",
		}, []string{"outcome"}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slotwise",
			Subsystem: "availability",
			Name:      "latency_seconds",
			Help:      "Latency of availability computations",
			Buckets:   prometheus.DefBuckets,
		}),
		slotsPerRequest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slotwise",
			Subsystem: "availability",
			Name:      "slots_per_request",
			Help:      "Bookable slots returned per availability request",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 40, 80},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwise",
			Subsystem: "availability",
			Name:      "cache_lookups_total",
			Help:      "Display-cache lookups by result",
		}, []string{"result"}),
		reserveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwise",
			Subsystem: "bookings",
			Name:      "reserve_total",
			Help:      "Reservation attempts by outcome",
		}, []string{"outcome"}),
		priceResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotwise",
			Subsystem: "pricing",
			Name:      "resolutions_total",
			Help:      "Price resolutions by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.availabilityTotal,
		m.availabilityLatency,
		m.slotsPerRequest,
		m.cacheLookups,
		m.reserveTotal,
		m.priceResolutions,
	)
	return m
}

func (m *EngineMetrics) ObserveAvailability(outcome string, seconds float64, slots int) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(outcome).Inc()
	m.availabilityLatency.Observe(seconds)
	if outcome != "error" {
		m.slotsPerRequest.Observe(float64(slots))
	}
}

func (m *EngineMetrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *EngineMetrics) ObserveReserve(outcome string) {
	if m == nil {
		return
	}
	m.reserveTotal.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObservePriceResolution(outcome string) {
	if m == nil {
		return
	}
	m.priceResolutions.WithLabelValues(outcome).Inc()
}
