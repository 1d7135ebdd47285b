package analysis

import (
	"math"
	"sort"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/errors"
	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// FinancialAnalyzer computes risk metrics from the empirical log-return
// distribution plus support/resistance levels from trend extrema.
type FinancialAnalyzer struct {
	annualizationFactor float64
	rollingWindow       int
}

// NewFinancialAnalyzer creates a financial analyzer. Non-positive
// parameters fall back to the defaults.
func NewFinancialAnalyzer(annualizationFactor float64, rollingWindow int) *FinancialAnalyzer {
	if annualizationFactor <= 0 {
		annualizationFactor = constants.DefaultAnnualizationFactor
	}
	if rollingWindow <= 0 {
		rollingWindow = 20
	}
	return &FinancialAnalyzer{
		annualizationFactor: annualizationFactor,
		rollingWindow:       rollingWindow,
	}
}

// Analyze computes volatility, Value-at-Risk, tail risk, stress scenarios,
// and support/resistance levels. The trend slice feeds level clustering and
// may be nil, in which case levels fall back to the raw extremes.
func (f *FinancialAnalyzer) Analyze(data []float64, trend []float64) (*models.FinancialInsights, error) {
	returns := mathutil.LogReturns(data)
	if len(returns) < 2 {
		return nil, errors.NewInsufficientDataError("financial returns", len(returns))
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	insights := &models.FinancialInsights{
		Volatility:        mathutil.StandardDeviation(returns) * math.Sqrt(f.annualizationFactor),
		RollingVolatility: f.rollingVolatility(returns),
		ValueAtRisk95:     valueAtRisk(sorted, 0.95),
		ValueAtRisk99:     valueAtRisk(sorted, 0.99),
		TailRisk: models.TailRisk{
			ExpectedShortfall: worstPercentileMean(sorted, 5),
			WorstCase:         sorted[0],
		},
		StressScenarios: []models.StressScenario{
			{Percentile: 1, AverageReturn: worstPercentileMean(sorted, 1)},
			{Percentile: 5, AverageReturn: worstPercentileMean(sorted, 5)},
			{Percentile: 10, AverageReturn: worstPercentileMean(sorted, 10)},
		},
	}

	levels := trend
	if len(levels) == 0 {
		levels = data
	}
	insights.SupportLevels, insights.ResistanceLevels = f.supportResistance(data, levels)

	return insights, nil
}

// valueAtRisk returns the (1-c)-quantile of the sorted empirical return
// distribution via the index method. More extreme confidence means a more
// negative return, so VaR(0.99) <= VaR(0.95).
func valueAtRisk(sortedReturns []float64, confidence float64) float64 {
	idx := int(float64(len(sortedReturns)) * (1 - confidence))
	if idx >= len(sortedReturns) {
		idx = len(sortedReturns) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sortedReturns[idx]
}

// worstPercentileMean averages the worst p percent of sorted returns.
func worstPercentileMean(sortedReturns []float64, p float64) float64 {
	count := int(math.Ceil(float64(len(sortedReturns)) * p / 100))
	if count < 1 {
		count = 1
	}
	if count > len(sortedReturns) {
		count = len(sortedReturns)
	}
	return mathutil.Mean(sortedReturns[:count])
}

// rollingVolatility is the annualized return standard deviation over a
// trailing window, one point per window position.
func (f *FinancialAnalyzer) rollingVolatility(returns []float64) []float64 {
	w := f.rollingWindow
	if w > len(returns) {
		w = len(returns)
	}
	if w < 2 {
		return nil
	}

	rolling := make([]float64, 0, len(returns)-w+1)
	for i := 0; i+w <= len(returns); i++ {
		rolling = append(rolling, mathutil.StandardDeviation(returns[i:i+w])*math.Sqrt(f.annualizationFactor))
	}
	return rolling
}

// supportResistance clusters local extrema of the smoothed trend. Extrema
// whose values lie within half a robust scale of a cluster mean join that
// cluster; clusters with at least two members become levels. When
// clustering yields nothing the raw extremes serve as the single levels.
func (f *FinancialAnalyzer) supportResistance(data, smoothed []float64) (support, resistance []float64) {
	scale := mathutil.MedianAbsoluteDeviation(data) * constants.MADConsistency
	if scale == 0 {
		scale = mathutil.StandardDeviation(data)
	}

	var peaks, troughs []float64
	for _, p := range mathutil.FindPeaks(smoothed, 0) {
		peaks = append(peaks, p.Value)
	}
	inverted := make([]float64, len(smoothed))
	for i, v := range smoothed {
		inverted[i] = -v
	}
	for _, p := range mathutil.FindPeaks(inverted, 0) {
		troughs = append(troughs, -p.Value)
	}

	resistance = clusterLevels(peaks, scale/2)
	support = clusterLevels(troughs, scale/2)

	if len(resistance) == 0 && len(data) > 0 {
		maxVal := data[0]
		for _, v := range data {
			maxVal = math.Max(maxVal, v)
		}
		resistance = []float64{maxVal}
	}
	if len(support) == 0 && len(data) > 0 {
		minVal := data[0]
		for _, v := range data {
			minVal = math.Min(minVal, v)
		}
		support = []float64{minVal}
	}

	return support, resistance
}

// clusterLevels greedily merges sorted extremum values whose distance to
// the running cluster mean stays within tolerance, and keeps the means of
// clusters with at least two members.
func clusterLevels(values []float64, tolerance float64) []float64 {
	if len(values) == 0 || tolerance <= 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var levels []float64
	clusterSum := sorted[0]
	clusterSize := 1

	flush := func() {
		if clusterSize >= 2 {
			levels = append(levels, clusterSum/float64(clusterSize))
		}
	}

	for _, v := range sorted[1:] {
		mean := clusterSum / float64(clusterSize)
		if math.Abs(v-mean) <= tolerance {
			clusterSum += v
			clusterSize++
			continue
		}
		flush()
		clusterSum = v
		clusterSize = 1
	}
	flush()

	return levels
}
