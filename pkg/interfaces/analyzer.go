package interfaces

import (
	"context"

	"github.com/inferloop/tsinsight/pkg/models"
)

// Analyzer performs a holistic analysis of a single time series.
type Analyzer interface {
	// Analyze characterizes the series described by parallel data/timestamp
	// slices. It fails with a dimension-mismatch error when the slices have
	// different lengths; failures in independent sub-analyses degrade the
	// result rather than aborting it.
	Analyze(ctx context.Context, data []float64, timestamps []int64, opts models.AnalysisOptions) (*models.HolisticAnalysis, error)
}

// EventSink receives telemetry events from the analysis engine. The engine
// reports cache hits/misses and analysis failures but never depends on the
// sink succeeding.
type EventSink interface {
	RecordEvent(name string, payload map[string]interface{})
}

// ResultCache memoizes holistic analysis results keyed by an input
// fingerprint. Implementations bound capacity, expire entries after a TTL,
// and guarantee at most one computation in flight per fingerprint.
type ResultCache interface {
	// GetOrCompute returns the cached result for key, or runs compute and
	// stores its result. The returned bool reports a cache hit.
	GetOrCompute(key string, compute func() (*models.HolisticAnalysis, error)) (*models.HolisticAnalysis, bool, error)
	// Flush discards all entries.
	Flush()
	// Len reports the number of live entries.
	Len() int
}
