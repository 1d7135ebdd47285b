package math

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inferloop/tsinsight/pkg/errors"
)

// PeakResult describes one local maximum of a series.
type PeakResult struct {
	Index      int     `json:"index"`
	Value      float64 `json:"value"`
	Prominence float64 `json:"prominence"`
}

// LagCorrelation is the autocorrelation coefficient at one lag with its
// two-sided p-value.
type LagCorrelation struct {
	Lag          int     `json:"lag"`
	Coefficient  float64 `json:"coefficient"`
	Significance float64 `json:"significance"`
}

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// LocalRegression computes a tricube-weighted average of the window around
// index, the building block of LOESS smoothing. The window is clamped to
// the array bounds; weights follow w(x) = (1-|x|^3)^3 for |x| < 1 with x
// the offset normalized across the requested half-window.
func LocalRegression(data []float64, window, index int) (float64, error) {
	half := window / 2
	lo := index - half
	if lo < 0 {
		lo = 0
	}
	hi := index + half
	if hi > len(data)-1 {
		hi = len(data) - 1
	}
	if len(data) == 0 || lo > hi {
		return 0, errors.NewInsufficientDataError("local regression", len(data))
	}

	span := float64(half + 1)
	weightedSum := 0.0
	weightTotal := 0.0
	for j := lo; j <= hi; j++ {
		x := math.Abs(float64(j-index)) / span
		if x >= 1 {
			continue
		}
		w := 1 - x*x*x
		w = w * w * w
		weightedSum += w * data[j]
		weightTotal += w
	}
	if weightTotal == 0 {
		return data[index], nil
	}

	return weightedSum / weightTotal, nil
}

// FindPeaks locates local maxima (v[i] > v[i-1] and v[i] > v[i+1]) whose
// prominence reaches minProminence. Prominence is the drop from the peak to
// the higher of the two nearest minima before the series rises back above
// the peak value.
func FindPeaks(series []float64, minProminence float64) []PeakResult {
	var peaks []PeakResult

	for i := 1; i < len(series)-1; i++ {
		if series[i] <= series[i-1] || series[i] <= series[i+1] {
			continue
		}

		leftMin := series[i]
		for j := i - 1; j >= 0; j-- {
			if series[j] > series[i] {
				break
			}
			if series[j] < leftMin {
				leftMin = series[j]
			}
		}

		rightMin := series[i]
		for j := i + 1; j < len(series); j++ {
			if series[j] > series[i] {
				break
			}
			if series[j] < rightMin {
				rightMin = series[j]
			}
		}

		prominence := series[i] - math.Max(leftMin, rightMin)
		if prominence >= minProminence {
			peaks = append(peaks, PeakResult{Index: i, Value: series[i], Prominence: prominence})
		}
	}

	return peaks
}

// Autocorrelation computes lagged correlation coefficients for lags
// 1..maxLag with a two-sided p-value per lag from a t-statistic transform
// against the standard normal CDF. Zero-variance input is degenerate.
func Autocorrelation(series []float64, maxLag int) ([]LagCorrelation, error) {
	n := len(series)
	if n < 3 {
		return nil, errors.NewInsufficientDataError("autocorrelation", n)
	}
	if Variance(series) == 0 {
		return nil, errors.NewDegenerateInputError("autocorrelation")
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	results := make([]LagCorrelation, 0, maxLag)
	for lag := 1; lag <= maxLag; lag++ {
		r := AutoCorrelation(series, lag)
		results = append(results, LagCorrelation{
			Lag:          lag,
			Coefficient:  r,
			Significance: correlationPValue(r, n-lag),
		})
	}

	return results, nil
}

// correlationPValue converts a correlation coefficient over m pairs into a
// two-sided p-value via the t-statistic transform.
func correlationPValue(r float64, m int) float64 {
	if m < 3 {
		return 1.0
	}
	if r >= 1 || r <= -1 {
		return 0.0
	}

	t := math.Abs(r) * math.Sqrt(float64(m-2)/(1-r*r))
	p := 2 * (1 - stdNormal.CDF(t))
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}
