package models

import (
	"time"

	"github.com/inferloop/tsinsight/pkg/errors"
)

// Domain identifies the domain-specific analyzer applied to a series.
type Domain string

const (
	DomainNone          Domain = ""
	DomainFinancial     Domain = "financial"
	DomainMedical       Domain = "medical"
	DomainEnvironmental Domain = "environmental"
)

// Valid reports whether the domain tag is one of the supported variants.
func (d Domain) Valid() bool {
	switch d {
	case DomainNone, DomainFinancial, DomainMedical, DomainEnvironmental:
		return true
	}
	return false
}

// Observation is a single timestamped measurement.
type Observation struct {
	Value     float64                `json:"value"`
	Timestamp int64                  `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// TimeSeries is an ordered sequence of observations. Values and timestamps
// always have equal length; timestamps are assumed monotonically
// non-decreasing (caller contract, not enforced).
type TimeSeries struct {
	Values     []float64 `json:"values"`
	Timestamps []int64   `json:"timestamps"`
}

// NewTimeSeries constructs a series from parallel value/timestamp slices.
func NewTimeSeries(values []float64, timestamps []int64) (*TimeSeries, error) {
	if len(values) != len(timestamps) {
		return nil, errors.NewDimensionMismatchError(len(values), len(timestamps))
	}
	return &TimeSeries{Values: values, Timestamps: timestamps}, nil
}

// Len returns the number of observations in the series.
func (ts *TimeSeries) Len() int {
	return len(ts.Values)
}

// Observations materializes the series as a slice of observations.
func (ts *TimeSeries) Observations() []Observation {
	obs := make([]Observation, len(ts.Values))
	for i := range ts.Values {
		obs[i] = Observation{Value: ts.Values[i], Timestamp: ts.Timestamps[i]}
	}
	return obs
}

// AnalysisOptions controls a single holistic analysis invocation.
type AnalysisOptions struct {
	Domain              Domain  `json:"domain,omitempty"`
	ContextWindow       int     `json:"context_window,omitempty"`
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
}

// WindowFor resolves the effective context window for a series of length n.
// Unset windows default to max(10, n/10).
func (o AnalysisOptions) WindowFor(n int) int {
	if o.ContextWindow > 0 {
		return o.ContextWindow
	}
	w := n / 10
	if w < 10 {
		w = 10
	}
	return w
}

// Decomposition holds the additive trend/seasonal/residual components.
// Invariant: Trend[i] + Seasonal[i] + Residuals[i] == data[i] within
// floating tolerance for every index.
type Decomposition struct {
	Trend     []float64 `json:"trend"`
	Seasonal  []float64 `json:"seasonal"`
	Residuals []float64 `json:"residuals"`
}

// Cycle describes one recurring period detected in the series.
type Cycle struct {
	Period     int     `json:"period"`
	Strength   float64 `json:"strength"`
	Confidence float64 `json:"confidence"`
}

// ChangePointType classifies the local statistic that shifted.
type ChangePointType string

const (
	ChangePointLevel    ChangePointType = "level"
	ChangePointTrend    ChangePointType = "trend"
	ChangePointVariance ChangePointType = "variance"
)

// ChangePoint marks a structural break in the series.
type ChangePoint struct {
	Index      int             `json:"index"`
	Confidence float64         `json:"confidence"`
	Type       ChangePointType `json:"type"`
}

// Anomaly marks a point deviating from the robust local model.
type Anomaly struct {
	Index      int     `json:"index"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// TrendSegment summarizes the series between consecutive change points.
// Segments never overlap; End of segment k equals Start of segment k+1.
type TrendSegment struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Slope      float64 `json:"slope"`
	Confidence float64 `json:"confidence"`
}

// TimeSeriesAnalysis aggregates the structural characterization of a series.
type TimeSeriesAnalysis struct {
	Decomposition *Decomposition `json:"decomposition,omitempty"`
	Cycles        []Cycle        `json:"cycles"`
	ChangePoints  []ChangePoint  `json:"change_points"`
	Anomalies     []Anomaly      `json:"anomalies"`
	TrendSegments []TrendSegment `json:"trend_segments"`
}

// BasicStats contains first-order summary statistics.
type BasicStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"standard_deviation"`
	Min    float64 `json:"minimum"`
	Max    float64 `json:"maximum"`
}

// DistributionStats contains shape measures of the value distribution.
type DistributionStats struct {
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess convention
	Q1       float64 `json:"q1"`
	Q2       float64 `json:"q2"`
	Q3       float64 `json:"q3"`
}

// TimeBasedStats contains derived measures that depend on ordering.
type TimeBasedStats struct {
	Volatility float64 `json:"volatility"`
	Momentum   float64 `json:"momentum"`
	Velocity   float64 `json:"velocity"`
}

// ComprehensiveStats bundles all statistical summaries of a series.
type ComprehensiveStats struct {
	Basic        BasicStats        `json:"basic"`
	Distribution DistributionStats `json:"distribution"`
	TimeBased    TimeBasedStats    `json:"time_based"`
}

// Correlation records localized self-similarity within one window.
type Correlation struct {
	StartTimestamp int64   `json:"start_timestamp"`
	EndTimestamp   int64   `json:"end_timestamp"`
	Coefficient    float64 `json:"coefficient"`
	Significance   float64 `json:"significance"`
}

// StressScenario is a worst-percentile aggregate of the return distribution.
type StressScenario struct {
	Percentile    float64 `json:"percentile"`
	AverageReturn float64 `json:"average_return"`
}

// TailRisk summarizes the left tail of the empirical return distribution.
type TailRisk struct {
	ExpectedShortfall float64 `json:"expected_shortfall"`
	WorstCase         float64 `json:"worst_case"`
}

// FinancialInsights contains risk metrics computed from log returns.
type FinancialInsights struct {
	Volatility        float64          `json:"volatility"`
	RollingVolatility []float64        `json:"rolling_volatility"`
	ValueAtRisk95     float64          `json:"value_at_risk_95"`
	ValueAtRisk99     float64          `json:"value_at_risk_99"`
	TailRisk          TailRisk         `json:"tail_risk"`
	StressScenarios   []StressScenario `json:"stress_scenarios"`
	SupportLevels     []float64        `json:"support_levels"`
	ResistanceLevels  []float64        `json:"resistance_levels"`
}

// DeviationEpisode is a maximal run of points outside the tolerated band.
type DeviationEpisode struct {
	Start         int     `json:"start"`
	End           int     `json:"end"`
	PeakDeviation float64 `json:"peak_deviation"`
}

// MedicalInsights contains baseline and episode measures.
type MedicalInsights struct {
	Baseline          float64            `json:"baseline"`
	DeviationEpisodes []DeviationEpisode `json:"deviation_episodes"`
	CircadianCoverage float64            `json:"circadian_coverage"`
}

// EnvironmentalInsights contains seasonal and exceedance measures.
type EnvironmentalInsights struct {
	SeasonalAmplitude   float64 `json:"seasonal_amplitude"`
	ExceedanceThreshold float64 `json:"exceedance_threshold"`
	ExceedanceCount     int     `json:"exceedance_count"`
}

// DomainInsights carries the output of exactly one domain analyzer.
type DomainInsights struct {
	Domain        Domain                 `json:"domain"`
	Financial     *FinancialInsights     `json:"financial,omitempty"`
	Medical       *MedicalInsights       `json:"medical,omitempty"`
	Environmental *EnvironmentalInsights `json:"environmental,omitempty"`
}

// AnalysisMetadata carries aggregated confidence and recommendations.
type AnalysisMetadata struct {
	AnalysisID      string        `json:"analysis_id"`
	Confidence      float64       `json:"confidence"`
	Quality         float64       `json:"quality"`
	Recommendations []string      `json:"recommendations"`
	ComputedAt      time.Time     `json:"computed_at"`
	ProcessingTime  time.Duration `json:"processing_time"`
}

// HolisticAnalysis is the immutable result of one analysis invocation.
type HolisticAnalysis struct {
	TimeSeries   TimeSeriesAnalysis  `json:"time_series"`
	Stats        *ComprehensiveStats `json:"stats,omitempty"`
	Insights     *DomainInsights     `json:"insights,omitempty"`
	Correlations []Correlation       `json:"correlations"`
	Metadata     AnalysisMetadata    `json:"metadata"`
}
