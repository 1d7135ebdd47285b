package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// PrometheusSink implements the engine's event sink on top of a Prometheus
// registry. Unknown events are counted but otherwise ignored.
type PrometheusSink struct {
	logger *logrus.Logger

	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	analysisFailures *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	eventsTotal      *prometheus.CounterVec
}

// NewPrometheusSink creates a sink registered against the given registry.
// A nil registry falls back to a private one.
func NewPrometheusSink(registry *prometheus.Registry, logger *logrus.Logger) *PrometheusSink {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = logrus.New()
	}

	s := &PrometheusSink{
		logger: logger,
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsinsight_cache_hits_total",
			Help: "Number of analysis cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsinsight_cache_misses_total",
			Help: "Number of analysis cache misses",
		}),
		analysisFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tsinsight_analysis_failures_total",
			Help: "Number of analysis stage failures",
		}, []string{"stage"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tsinsight_analysis_duration_seconds",
			Help:    "Duration of holistic analysis computations",
			Buckets: prometheus.DefBuckets,
		}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tsinsight_events_total",
			Help: "Number of telemetry events by name",
		}, []string{"event"}),
	}

	registry.MustRegister(s.cacheHits, s.cacheMisses, s.analysisFailures, s.analysisDuration, s.eventsTotal)
	return s
}

// RecordEvent implements the event sink contract.
func (s *PrometheusSink) RecordEvent(name string, payload map[string]interface{}) {
	s.eventsTotal.WithLabelValues(name).Inc()

	switch name {
	case "analysis.cache_hit":
		s.cacheHits.Inc()
	case "analysis.cache_miss":
		s.cacheMisses.Inc()
	case "analysis.failure":
		stage, _ := payload["stage"].(string)
		if stage == "" {
			stage = "unknown"
		}
		s.analysisFailures.WithLabelValues(stage).Inc()
	case "analysis.completed":
		if seconds, ok := payload["duration_seconds"].(float64); ok {
			s.analysisDuration.Observe(seconds)
		}
	default:
		s.logger.WithField("event", name).Debug("Unmapped telemetry event")
	}
}

// NoopSink discards all events; useful in tests and when telemetry is
// disabled.
type NoopSink struct{}

// RecordEvent implements the event sink contract.
func (NoopSink) RecordEvent(string, map[string]interface{}) {}
