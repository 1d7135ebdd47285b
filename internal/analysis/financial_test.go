package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/inferloop/tsinsight/pkg/errors"
)

func priceSeries(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)*0.3)
	}
	return prices
}

func TestFinancialAnalyzeRiskOrdering(t *testing.T) {
	analyzer := NewFinancialAnalyzer(252, 20)

	insights, err := analyzer.Analyze(priceSeries(100), nil)
	require.NoError(t, err)

	// Deeper tails are never better than shallower ones.
	assert.LessOrEqual(t, insights.ValueAtRisk99, insights.ValueAtRisk95)
	assert.LessOrEqual(t, insights.TailRisk.ExpectedShortfall, insights.ValueAtRisk95)
	assert.LessOrEqual(t, insights.TailRisk.WorstCase, insights.TailRisk.ExpectedShortfall)

	assert.Greater(t, insights.Volatility, 0.0)
}

func TestFinancialAnalyzeStressScenarios(t *testing.T) {
	analyzer := NewFinancialAnalyzer(252, 20)

	insights, err := analyzer.Analyze(priceSeries(100), nil)
	require.NoError(t, err)

	require.Len(t, insights.StressScenarios, 3)
	assert.Equal(t, 1.0, insights.StressScenarios[0].Percentile)
	assert.Equal(t, 5.0, insights.StressScenarios[1].Percentile)
	assert.Equal(t, 10.0, insights.StressScenarios[2].Percentile)

	// Averaging over a wider worst slice can only soften the scenario.
	assert.LessOrEqual(t, insights.StressScenarios[0].AverageReturn, insights.StressScenarios[1].AverageReturn)
	assert.LessOrEqual(t, insights.StressScenarios[1].AverageReturn, insights.StressScenarios[2].AverageReturn)
}

func TestFinancialAnalyzeRollingVolatility(t *testing.T) {
	analyzer := NewFinancialAnalyzer(252, 20)

	insights, err := analyzer.Analyze(priceSeries(100), nil)
	require.NoError(t, err)

	// 99 returns, trailing windows of 20.
	require.Len(t, insights.RollingVolatility, 80)
	for _, v := range insights.RollingVolatility {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestFinancialAnalyzeSupportResistanceClustering(t *testing.T) {
	analyzer := NewFinancialAnalyzer(252, 20)

	// Oscillation between two price levels.
	data := make([]float64, 40)
	for i := range data {
		if i%2 == 0 {
			data[i] = 100
		} else {
			data[i] = 110
		}
	}

	insights, err := analyzer.Analyze(data, data)
	require.NoError(t, err)

	require.Len(t, insights.ResistanceLevels, 1)
	assert.InDelta(t, 110.0, insights.ResistanceLevels[0], 1e-9)
	require.Len(t, insights.SupportLevels, 1)
	assert.InDelta(t, 100.0, insights.SupportLevels[0], 1e-9)
}

func TestFinancialAnalyzeSupportResistanceFallback(t *testing.T) {
	analyzer := NewFinancialAnalyzer(252, 20)

	// Monotonic prices have no interior extrema; the raw range serves.
	data := make([]float64, 50)
	for i := range data {
		data[i] = float64(i + 1)
	}

	insights, err := analyzer.Analyze(data, data)
	require.NoError(t, err)

	require.Len(t, insights.SupportLevels, 1)
	assert.Equal(t, 1.0, insights.SupportLevels[0])
	require.Len(t, insights.ResistanceLevels, 1)
	assert.Equal(t, 50.0, insights.ResistanceLevels[0])
}

func TestFinancialAnalyzeInsufficientReturns(t *testing.T) {
	analyzer := NewFinancialAnalyzer(252, 20)

	_, err := analyzer.Analyze([]float64{100}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)

	// Non-positive prices yield no usable returns.
	_, err = analyzer.Analyze([]float64{-1, -2, -3}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientData)
}
