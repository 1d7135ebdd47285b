package analysis

import (
	"math"

	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// ConfidenceAggregator combines data-quality, pattern-strength, and
// statistical-significance scores into one overall confidence value and a
// recommendation list.
type ConfidenceAggregator struct{}

// NewConfidenceAggregator creates a confidence aggregator
func NewConfidenceAggregator() *ConfidenceAggregator {
	return &ConfidenceAggregator{}
}

// Aggregate scores the analysis. All component scores and the overall
// confidence stay within [0,1], including for degenerate input.
func (a *ConfidenceAggregator) Aggregate(data []float64, timestamps []int64, ts *models.TimeSeriesAnalysis, stats *models.ComprehensiveStats, insights *models.DomainInsights) (confidence, quality float64, recommendations []string) {
	quality = a.dataQuality(data, timestamps)
	pattern := a.patternStrength(ts)
	significance := a.statisticalSignificance(data, ts, stats)

	confidence = clamp01((quality + pattern + significance) / 3)
	recommendations = a.recommend(data, ts, stats, insights, quality)
	return confidence, quality, recommendations
}

// dataQuality averages completeness, validity, and timeliness.
func (a *ConfidenceAggregator) dataQuality(data []float64, timestamps []int64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	nonFinite := 0
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite++
		}
	}

	completeness := 1 - float64(nonFinite)/float64(n)
	validity := 1.0
	if nonFinite > 0 {
		validity = 0
	}

	// Timeliness rewards regular sampling: 1 for perfectly even gaps,
	// decaying as gap dispersion grows relative to the mean gap.
	timeliness := 1.0
	if n >= 3 {
		gaps := make([]float64, n-1)
		for i := 1; i < n; i++ {
			gaps[i-1] = float64(timestamps[i] - timestamps[i-1])
		}
		meanGap := mathutil.Mean(gaps)
		if meanGap > 0 {
			timeliness = math.Exp(-mathutil.StandardDeviation(gaps) / meanGap)
		}
	}

	return clamp01((completeness + validity + timeliness) / 3)
}

// patternStrength averages trend-segment confidence, dominant cycle
// strength, and anomaly confidence; absent evidence scores 0.
func (a *ConfidenceAggregator) patternStrength(ts *models.TimeSeriesAnalysis) float64 {
	if ts == nil {
		return 0
	}

	segmentScore := 0.0
	if len(ts.TrendSegments) > 0 {
		for _, s := range ts.TrendSegments {
			segmentScore += s.Confidence
		}
		segmentScore /= float64(len(ts.TrendSegments))
	}

	cycleScore := 0.0
	if len(ts.Cycles) > 0 {
		cycleScore = clamp01(ts.Cycles[0].Strength)
	}

	anomalyScore := 0.0
	if len(ts.Anomalies) > 0 {
		for _, an := range ts.Anomalies {
			anomalyScore += an.Confidence
		}
		anomalyScore /= float64(len(ts.Anomalies))
	}

	return clamp01((segmentScore + cycleScore + anomalyScore) / 3)
}

// statisticalSignificance averages normality, stationarity, and
// variance-stability diagnostics, each normalized into [0,1].
func (a *ConfidenceAggregator) statisticalSignificance(data []float64, ts *models.TimeSeriesAnalysis, stats *models.ComprehensiveStats) float64 {
	normality := 1.0
	if stats != nil {
		// Proximity of the third and fourth standardized moments to the
		// normal reference (0 skew, 0 excess kurtosis).
		normality = math.Exp(-(math.Abs(stats.Distribution.Skewness) + math.Abs(stats.Distribution.Kurtosis)) / 2)
	}

	stationarity := 1.0
	if ts != nil && len(ts.TrendSegments) > 1 {
		slopes := make([]float64, len(ts.TrendSegments))
		for i, s := range ts.TrendSegments {
			slopes[i] = s.Slope
		}
		scale := mathutil.StandardDeviation(data)/float64(len(data)) + 1e-10
		stationarity = math.Exp(-mathutil.StandardDeviation(slopes) / scale)
	}

	varianceStability := rollingVarianceStability(data)

	return clamp01((normality + stationarity + varianceStability) / 3)
}

// rollingVarianceStability compares window variances across the series;
// stable variance scores 1, widely dispersed variance decays toward 0.
func rollingVarianceStability(data []float64) float64 {
	n := len(data)
	window := n / 5
	if window < 5 {
		return 1.0
	}

	var variances []float64
	for start := 0; start+window <= n; start += window {
		variances = append(variances, mathutil.Variance(data[start:start+window]))
	}
	if len(variances) < 2 {
		return 1.0
	}

	meanVar := mathutil.Mean(variances)
	if meanVar == 0 {
		return 1.0
	}
	return clamp01(math.Exp(-mathutil.StandardDeviation(variances) / meanVar))
}

// recommend applies threshold rules in a fixed order; the output order is
// the rule insertion order.
func (a *ConfidenceAggregator) recommend(data []float64, ts *models.TimeSeriesAnalysis, stats *models.ComprehensiveStats, insights *models.DomainInsights, quality float64) []string {
	recommendations := []string{}

	if ts != nil {
		strongTrend := false
		for _, s := range ts.TrendSegments {
			if s.Confidence > 0.8 && s.Slope != 0 {
				strongTrend = true
				break
			}
		}
		if strongTrend {
			recommendations = append(recommendations, "Strong trend detected: trend-following approaches are appropriate")
		}

		if len(ts.Cycles) > 0 && ts.Cycles[0].Strength > 0.6 {
			recommendations = append(recommendations, "Pronounced periodicity detected: apply seasonal adjustment before modeling")
		}

		if n := len(data); n > 0 && float64(len(ts.Anomalies))/float64(n) > 0.05 {
			recommendations = append(recommendations, "High anomaly rate: investigate flagged observations before drawing conclusions")
		}
	}

	if stats != nil && math.Abs(stats.Distribution.Skewness) > 1 {
		recommendations = append(recommendations, "Heavily skewed distribution: consider a variance-stabilizing transformation")
	}

	if insights != nil && insights.Financial != nil && insights.Financial.Volatility > 0.3 {
		recommendations = append(recommendations, "Elevated volatility: apply risk management and position sizing")
	}

	if quality < 0.7 {
		recommendations = append(recommendations, "Low data quality: improve sampling regularity and completeness")
	}

	return recommendations
}

// clamp01 bounds a score to [0,1]. Non-finite scores carry no evidence and
// collapse to 0 so NaN from degenerate inputs never escapes into the
// aggregate.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
