package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels refreshes that published a dashboard.
	OutcomeSuccess = "success"
	// OutcomeError labels refreshes that failed to fetch or decode.
	OutcomeError = "error"
	// OutcomeStale labels refreshes overtaken by a newer one.
	OutcomeStale = "stale"
	// OutcomeEmpty labels refreshes where the source had nothing new.
	OutcomeEmpty = "empty"
)

var (
	refreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threatboard",
			Name:      "refreshes_total",
			Help:      "Total number of refresh cycles, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	deriveDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "threatboard",
			Name:      "derive_seconds",
			Help:      "Dashboard derivation latency in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threatboard",
			Name:      "cache_hits_total",
			Help:      "Derivations served from the unchanged-snapshot cache.",
		},
	)

	schemaViolationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threatboard",
			Name:      "schema_violations_total",
			Help:      "Snapshot payload schema violations seen.",
		},
	)

	totalAttacks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "threatboard",
			Name:      "total_attacks",
			Help:      "Total attacks in the latest published snapshot.",
		},
	)

	highCriticalEvents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "threatboard",
			Name:      "high_critical_events",
			Help:      "Technique events rated HIGH or CRITICAL in the latest published snapshot.",
		},
	)
)

// Register attaches threatboard collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		refreshesTotal,
		deriveDurationSeconds,
		cacheHitsTotal,
		schemaViolationsTotal,
		totalAttacks,
		highCriticalEvents,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRefresh counts one refresh cycle. Unknown outcomes count as errors.
func ObserveRefresh(outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeStale, OutcomeEmpty:
	default:
		outcome = OutcomeError
	}
	refreshesTotal.WithLabelValues(outcome).Inc()
}

// ObserveDerive records one derivation.
func ObserveDerive(duration time.Duration, cached bool, schemaViolations int) {
	if duration < 0 {
		duration = 0
	}
	deriveDurationSeconds.Observe(duration.Seconds())
	if cached {
		cacheHitsTotal.Inc()
	}
	if schemaViolations > 0 {
		schemaViolationsTotal.Add(float64(schemaViolations))
	}
}

// SetLatest updates the gauges describing the published dashboard.
func SetLatest(attacks, highCritical int) {
	totalAttacks.Set(float64(attacks))
	highCriticalEvents.Set(float64(highCritical))
}
