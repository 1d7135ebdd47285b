package math

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median calculates the median of a slice of float64 values
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Variance calculates the population variance of a slice of float64 values
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	sumSquaredDiff := 0.0

	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}

	return sumSquaredDiff / float64(len(values))
}

// StandardDeviation calculates the population standard deviation
func StandardDeviation(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Skewness calculates the third standardized moment of a distribution.
// Zero-variance input yields 0.
func Skewness(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}

	mean := Mean(values)
	std := StandardDeviation(values)
	if std == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		standardized := (v - mean) / std
		sum += standardized * standardized * standardized
	}

	return sum / float64(len(values))
}

// Kurtosis calculates the fourth standardized moment, excess convention.
// Zero-variance input yields 0.
func Kurtosis(values []float64) float64 {
	if len(values) < 4 {
		return 0
	}

	mean := Mean(values)
	std := StandardDeviation(values)
	if std == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		standardized := (v - mean) / std
		sum += standardized * standardized * standardized * standardized
	}

	return sum/float64(len(values)) - 3
}

// Correlation calculates the Pearson correlation coefficient between two variables
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	numerator := 0.0
	sumXSq := 0.0
	sumYSq := 0.0

	for i := 0; i < len(x); i++ {
		diffX := x[i] - meanX
		diffY := y[i] - meanY
		numerator += diffX * diffY
		sumXSq += diffX * diffX
		sumYSq += diffY * diffY
	}

	denominator := math.Sqrt(sumXSq * sumYSq)
	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}

// Percentile calculates the p-th percentile using linear interpolation
// between closest ranks
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	if p < 0 || p > 100 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p == 0 {
		return sorted[0]
	}
	if p == 100 {
		return sorted[len(sorted)-1]
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quantile calculates quantiles (quartiles, quintiles, etc.)
func Quantile(values []float64, q float64) float64 {
	return Percentile(values, q*100)
}

// MedianAbsoluteDeviation calculates the MAD, a robust scale estimator
func MedianAbsoluteDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	med := Median(values)
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - med)
	}

	return Median(deviations)
}

// Diff calculates the difference between consecutive elements
func Diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	result := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		result[i-1] = values[i] - values[i-1]
	}

	return result
}

// LogReturns calculates ln(v[i]/v[i-1]) for consecutive strictly positive
// values. Pairs containing a non-positive value are skipped.
func LogReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i] > 0 && values[i-1] > 0 {
			returns = append(returns, math.Log(values[i]/values[i-1]))
		}
	}

	return returns
}

// AutoCorrelation calculates the lagged covariance normalized by variance
// at a single lag. Zero-variance series yield 0.
func AutoCorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || lag >= n {
		return 0
	}

	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(n)
	if variance == 0 {
		return 0
	}

	covariance := 0.0
	for i := 0; i < n-lag; i++ {
		covariance += (values[i] - mean) * (values[i+lag] - mean)
	}
	covariance /= float64(n - lag)

	return covariance / variance
}

// LinearRegression fits y = intercept + slope*x over indices 0..n-1 and
// returns the fit quality as R-squared. Constant input yields R-squared 1.
func LinearRegression(values []float64) (slope, intercept, rSquared float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0, 0
	}

	sumX := n * (n - 1) / 2
	sumX2 := n * (n - 1) * (2*n - 1) / 6
	sumY, sumXY, sumY2 := 0.0, 0.0, 0.0

	for i, y := range values {
		x := float64(i)
		sumY += y
		sumXY += x * y
		sumY2 += y * y
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0, Mean(values), 0
	}
	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	ssTot := sumY2 - n*meanY*meanY
	if ssTot == 0 {
		return slope, intercept, 1.0
	}

	ssRes := 0.0
	for i, y := range values {
		predicted := intercept + slope*float64(i)
		ssRes += (y - predicted) * (y - predicted)
	}
	rSquared = 1.0 - ssRes/ssTot
	if rSquared < 0 {
		rSquared = 0
	}

	return slope, intercept, rSquared
}
