package analysis

import (
	"math"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// CorrelationAnalyzer scans the series for localized self-similarity by
// computing autocorrelation inside sliding windows. Only windows whose
// strongest lag correlation clears the threshold are reported.
type CorrelationAnalyzer struct {
	threshold float64
}

// NewCorrelationAnalyzer creates a correlation analyzer. Thresholds outside
// (0,1) fall back to the default.
func NewCorrelationAnalyzer(threshold float64) *CorrelationAnalyzer {
	if threshold <= 0 || threshold >= 1 {
		threshold = constants.DefaultCorrelationThreshold
	}
	return &CorrelationAnalyzer{threshold: threshold}
}

// Scan slides a window of width contextWindow across the series with 50%
// overlap and records each window whose strongest autocorrelation exceeds
// the threshold in absolute value.
func (c *CorrelationAnalyzer) Scan(data []float64, timestamps []int64, contextWindow int) []models.Correlation {
	n := len(data)
	if contextWindow < 6 || n < contextWindow {
		return nil
	}

	stride := contextWindow / 2
	if stride < 1 {
		stride = 1
	}

	var correlations []models.Correlation
	for start := 0; start+contextWindow <= n; start += stride {
		end := start + contextWindow
		window := data[start:end]

		lags, err := mathutil.Autocorrelation(window, contextWindow/3)
		if err != nil {
			continue
		}

		best := mathutil.LagCorrelation{Significance: 1}
		for _, lc := range lags {
			if math.Abs(lc.Coefficient) > math.Abs(best.Coefficient) {
				best = lc
			}
		}

		if math.Abs(best.Coefficient) > c.threshold {
			correlations = append(correlations, models.Correlation{
				StartTimestamp: timestamps[start],
				EndTimestamp:   timestamps[end-1],
				Coefficient:    best.Coefficient,
				Significance:   best.Significance,
			})
		}
	}

	return correlations
}
