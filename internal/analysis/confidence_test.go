package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/tsinsight/pkg/models"
)

func TestAggregateScoresStayBounded(t *testing.T) {
	aggregator := NewConfidenceAggregator()

	cases := map[string]struct {
		data       []float64
		timestamps []int64
	}{
		"empty":         {nil, nil},
		"single":        {[]float64{5}, []int64{0}},
		"constant":      {[]float64{5, 5, 5, 5, 5}, evenTimestamps(5)},
		"with NaN":      {[]float64{1, math.NaN(), 3}, evenTimestamps(3)},
		"with infinity": {[]float64{1, math.Inf(1), 3}, evenTimestamps(3)},
	}

	for name, tc := range cases {
		confidence, quality, _ := aggregator.Aggregate(tc.data, tc.timestamps, nil, nil, nil)
		assert.GreaterOrEqual(t, confidence, 0.0, name)
		assert.LessOrEqual(t, confidence, 1.0, name)
		assert.GreaterOrEqual(t, quality, 0.0, name)
		assert.LessOrEqual(t, quality, 1.0, name)
	}
}

func TestAggregateNonFiniteEvidenceStaysBounded(t *testing.T) {
	aggregator := NewConfidenceAggregator()

	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}
	data[70] = math.NaN()

	// Poisoned moments and fit confidences must not leak out of [0,1].
	ts := &models.TimeSeriesAnalysis{
		TrendSegments: []models.TrendSegment{{Start: 0, End: 99, Slope: 1, Confidence: math.NaN()}},
	}
	stats := &models.ComprehensiveStats{
		Distribution: models.DistributionStats{Skewness: math.NaN(), Kurtosis: math.Inf(1)},
	}

	confidence, quality, _ := aggregator.Aggregate(data, evenTimestamps(100), ts, stats, nil)
	assert.False(t, math.IsNaN(confidence))
	assert.GreaterOrEqual(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 1.0)
	assert.False(t, math.IsNaN(quality))
	assert.GreaterOrEqual(t, quality, 0.0)
	assert.LessOrEqual(t, quality, 1.0)
}

func TestClamp01NonFinite(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(math.NaN()))
	assert.Equal(t, 1.0, clamp01(math.Inf(1)))
	assert.Equal(t, 0.0, clamp01(math.Inf(-1)))
	assert.Equal(t, 0.5, clamp01(0.5))
}

func TestAggregateCleanRegularData(t *testing.T) {
	aggregator := NewConfidenceAggregator()

	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}

	_, quality, _ := aggregator.Aggregate(data, evenTimestamps(100), nil, nil, nil)

	// Complete, valid, evenly sampled.
	assert.InDelta(t, 1.0, quality, 1e-9)
}

func TestAggregateQualityPenalizesNonFinite(t *testing.T) {
	aggregator := NewConfidenceAggregator()

	data := []float64{1, math.NaN(), 3}
	_, quality, recommendations := aggregator.Aggregate(data, evenTimestamps(3), nil, nil, nil)

	// Completeness 2/3, validity 0, timeliness 1.
	assert.InDelta(t, (2.0/3+0+1)/3, quality, 1e-9)
	assert.Contains(t, recommendations, "Low data quality: improve sampling regularity and completeness")
}

func TestAggregateRecommendationOrder(t *testing.T) {
	aggregator := NewConfidenceAggregator()

	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}

	ts := &models.TimeSeriesAnalysis{
		TrendSegments: []models.TrendSegment{{Start: 0, End: 99, Slope: 1, Confidence: 0.95}},
		Cycles:        []models.Cycle{{Period: 7, Strength: 0.9, Confidence: 0.7}},
	}
	stats := &models.ComprehensiveStats{
		Distribution: models.DistributionStats{Skewness: 2},
	}

	_, _, recommendations := aggregator.Aggregate(data, evenTimestamps(100), ts, stats, nil)

	require.Len(t, recommendations, 3)
	assert.Equal(t, "Strong trend detected: trend-following approaches are appropriate", recommendations[0])
	assert.Equal(t, "Pronounced periodicity detected: apply seasonal adjustment before modeling", recommendations[1])
	assert.Equal(t, "Heavily skewed distribution: consider a variance-stabilizing transformation", recommendations[2])
}

func TestAggregateVolatilityRecommendation(t *testing.T) {
	aggregator := NewConfidenceAggregator()

	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i) + 1
	}
	insights := &models.DomainInsights{
		Domain:    models.DomainFinancial,
		Financial: &models.FinancialInsights{Volatility: 0.5},
	}

	_, _, recommendations := aggregator.Aggregate(data, evenTimestamps(100), nil, nil, insights)
	assert.Contains(t, recommendations, "Elevated volatility: apply risk management and position sizing")
}

func TestAggregatePatternStrengthUsesEvidence(t *testing.T) {
	aggregator := NewConfidenceAggregator()

	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}

	weak := &models.TimeSeriesAnalysis{}
	strong := &models.TimeSeriesAnalysis{
		TrendSegments: []models.TrendSegment{{Start: 0, End: 99, Slope: 1, Confidence: 1}},
		Cycles:        []models.Cycle{{Period: 7, Strength: 1, Confidence: 1}},
		Anomalies:     []models.Anomaly{{Index: 3, Value: 9, Confidence: 1}},
	}

	weakConfidence, _, _ := aggregator.Aggregate(data, evenTimestamps(100), weak, nil, nil)
	strongConfidence, _, _ := aggregator.Aggregate(data, evenTimestamps(100), strong, nil, nil)

	assert.Greater(t, strongConfidence, weakConfidence)
}
