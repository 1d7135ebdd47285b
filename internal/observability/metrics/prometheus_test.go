package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusSinkCacheCounters(t *testing.T) {
	sink := NewPrometheusSink(prometheus.NewRegistry(), nil)

	sink.RecordEvent("analysis.cache_hit", nil)
	sink.RecordEvent("analysis.cache_hit", nil)
	sink.RecordEvent("analysis.cache_miss", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.cacheMisses))
}

func TestPrometheusSinkFailuresByStage(t *testing.T) {
	sink := NewPrometheusSink(prometheus.NewRegistry(), nil)

	sink.RecordEvent("analysis.failure", map[string]interface{}{"stage": "domain"})
	sink.RecordEvent("analysis.failure", map[string]interface{}{"stage": "domain"})
	sink.RecordEvent("analysis.failure", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.analysisFailures.WithLabelValues("domain")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.analysisFailures.WithLabelValues("unknown")))
}

func TestPrometheusSinkDuration(t *testing.T) {
	registry := prometheus.NewRegistry()
	sink := NewPrometheusSink(registry, nil)

	sink.RecordEvent("analysis.completed", map[string]interface{}{"duration_seconds": 0.25})

	count, err := testutil.GatherAndCount(registry, "tsinsight_analysis_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrometheusSinkCountsAllEvents(t *testing.T) {
	sink := NewPrometheusSink(prometheus.NewRegistry(), nil)

	sink.RecordEvent("something.unmapped", nil)
	sink.RecordEvent("analysis.cache_hit", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.eventsTotal.WithLabelValues("something.unmapped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.eventsTotal.WithLabelValues("analysis.cache_hit")))
}

func TestPrometheusSinkNilRegistry(t *testing.T) {
	sink := NewPrometheusSink(nil, nil)
	assert.NotPanics(t, func() {
		sink.RecordEvent("analysis.cache_hit", nil)
	})
}

func TestNoopSink(t *testing.T) {
	assert.NotPanics(t, func() {
		NoopSink{}.RecordEvent("anything", map[string]interface{}{"k": "v"})
	})
}
