package analysis

import (
	"math"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/errors"
	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// StatisticsEngine computes basic, distributional, and time-based summary
// statistics for a series.
type StatisticsEngine struct {
	annualizationFactor float64
	momentumWindow      int
}

// NewStatisticsEngine creates a statistics engine. Non-positive parameters
// fall back to the defaults.
func NewStatisticsEngine(annualizationFactor float64, momentumWindow int) *StatisticsEngine {
	if annualizationFactor <= 0 {
		annualizationFactor = constants.DefaultAnnualizationFactor
	}
	if momentumWindow <= 0 {
		momentumWindow = constants.DefaultMomentumWindow
	}
	return &StatisticsEngine{
		annualizationFactor: annualizationFactor,
		momentumWindow:      momentumWindow,
	}
}

// ComputeStatistics summarizes the series. The trend argument is the
// smoothed series used for velocity; it may be nil when decomposition was
// unavailable. Empty input is an error.
func (s *StatisticsEngine) ComputeStatistics(data []float64, trend []float64) (*models.ComprehensiveStats, error) {
	n := len(data)
	if n == 0 {
		return nil, errors.NewInsufficientDataError("statistics", n)
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	stats := &models.ComprehensiveStats{
		Basic: models.BasicStats{
			Count:  n,
			Mean:   mathutil.Mean(data),
			Median: mathutil.Median(data),
			StdDev: mathutil.StandardDeviation(data),
			Min:    minVal,
			Max:    maxVal,
		},
		Distribution: models.DistributionStats{
			Skewness: mathutil.Skewness(data),
			Kurtosis: mathutil.Kurtosis(data),
			Q1:       mathutil.Quantile(data, 0.25),
			Q2:       mathutil.Quantile(data, 0.5),
			Q3:       mathutil.Quantile(data, 0.75),
		},
		TimeBased: models.TimeBasedStats{
			Volatility: s.volatility(data),
			Momentum:   s.momentum(data),
			Velocity:   velocity(trend),
		},
	}

	return stats, nil
}

// volatility is the annualized log-return standard deviation. Series
// without enough positive values for returns yield 0.
func (s *StatisticsEngine) volatility(data []float64) float64 {
	returns := mathutil.LogReturns(data)
	if len(returns) < 2 {
		return 0
	}
	return mathutil.StandardDeviation(returns) * math.Sqrt(s.annualizationFactor)
}

// momentum is the value change over the trailing window.
func (s *StatisticsEngine) momentum(data []float64) float64 {
	n := len(data)
	w := s.momentumWindow
	if w >= n {
		w = n - 1
	}
	if w < 1 {
		return 0
	}
	return data[n-1] - data[n-1-w]
}

// velocity is the most recent first difference of the smoothed trend.
func velocity(trend []float64) float64 {
	n := len(trend)
	if n < 2 {
		return 0
	}
	return trend[n-1] - trend[n-2]
}
