package analysis

import (
	"github.com/inferloop/tsinsight/pkg/errors"
	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// Decomposer splits a series into additive trend, seasonal, and residual
// components. The trend is a LOESS-style tricube smoothing; the seasonal
// component folds the detrended series over the dominant detected period.
type Decomposer struct {
	periodicity *PeriodicityDetector
}

// NewDecomposer creates a decomposer
func NewDecomposer(periodicity *PeriodicityDetector) *Decomposer {
	if periodicity == nil {
		periodicity = NewPeriodicityDetector()
	}
	return &Decomposer{periodicity: periodicity}
}

// Decompose produces trend/seasonal/residual components, detecting the
// dominant cycle itself.
func (d *Decomposer) Decompose(data []float64, contextWindow int) (*models.Decomposition, error) {
	return d.DecomposeWith(data, contextWindow, d.periodicity.DetectCycles(data))
}

// DecomposeWith is Decompose with pre-detected cycles, so one invocation
// never detects periodicity twice. The residual is computed last as
// data - trend - seasonal so the additive invariant holds exactly.
func (d *Decomposer) DecomposeWith(data []float64, contextWindow int, cycles []models.Cycle) (*models.Decomposition, error) {
	n := len(data)
	if n == 0 {
		return nil, errors.NewInsufficientDataError("decomposition", n)
	}

	trend := make([]float64, n)
	for i := range data {
		v, err := mathutil.LocalRegression(data, contextWindow, i)
		if err != nil {
			return nil, err
		}
		trend[i] = v
	}

	seasonal := d.seasonalComponent(data, trend, cycles)

	residuals := make([]float64, n)
	for i := range data {
		residuals[i] = data[i] - trend[i] - seasonal[i]
	}

	return &models.Decomposition{
		Trend:     trend,
		Seasonal:  seasonal,
		Residuals: residuals,
	}, nil
}

// seasonalComponent folds the detrended series into period-indexed buckets,
// averages each bucket, centers the pattern, and tiles it across the full
// length. Without a dominant cycle the component is identically zero.
func (d *Decomposer) seasonalComponent(data, trend []float64, cycles []models.Cycle) []float64 {
	n := len(data)
	seasonal := make([]float64, n)

	if len(cycles) == 0 {
		return seasonal
	}
	period := cycles[0].Period
	if period < 2 || period > n/2 {
		return seasonal
	}

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		idx := i % period
		pattern[idx] += data[i] - trend[i]
		counts[idx]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	// Center so the seasonal component carries no level of its own.
	center := mathutil.Mean(pattern)
	for i := range pattern {
		pattern[i] -= center
	}

	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
	}

	return seasonal
}
