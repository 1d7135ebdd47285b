package analysis

import (
	"math"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// AnomalyDetector flags points deviating from a robust local model beyond
// an adaptive threshold. The local expectation is a window median; the
// scale is the window MAD rescaled to normal-consistent units.
type AnomalyDetector struct {
	// multiplier is the base k in |value - median| > k * scale.
	multiplier float64
}

// NewAnomalyDetector creates an anomaly detector with the given base
// multiplier; non-positive values fall back to the default.
func NewAnomalyDetector(multiplier float64) *AnomalyDetector {
	if multiplier <= 0 {
		multiplier = constants.DefaultAnomalyMultiplier
	}
	return &AnomalyDetector{multiplier: multiplier}
}

// FindAnomalies scans the series with a centered window around each point.
// The multiplier adapts upward where local noise exceeds the global level,
// keeping the false-positive rate stable in noisy regions. Windows with
// zero scale treat any deviation as a maximal-confidence anomaly.
func (d *AnomalyDetector) FindAnomalies(data []float64) []models.Anomaly {
	n := len(data)
	if n < 3 {
		return nil
	}

	window := n / 20
	if window < 5 {
		window = 5
	}

	globalScale := mathutil.MedianAbsoluteDeviation(data) * constants.MADConsistency

	var anomalies []models.Anomaly
	for i := 0; i < n; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > n {
			hi = n
		}

		local := data[lo:hi]
		median := mathutil.Median(local)
		scale := mathutil.MedianAbsoluteDeviation(local) * constants.MADConsistency
		deviation := math.Abs(data[i] - median)

		if scale == 0 {
			if deviation > 0 {
				anomalies = append(anomalies, models.Anomaly{Index: i, Value: data[i], Confidence: 1.0})
			}
			continue
		}

		k := d.multiplier
		if globalScale > 0 && scale > globalScale {
			// Noisy neighborhood: demand a larger deviation.
			k *= math.Min(scale/globalScale, 2.0)
		}

		ratio := deviation / scale
		if ratio <= k {
			continue
		}

		// Monotonic in the deviation-to-scale ratio, 0 at the threshold,
		// saturating toward 1 for extreme outliers.
		confidence := 1 - k/ratio
		anomalies = append(anomalies, models.Anomaly{Index: i, Value: data[i], Confidence: confidence})
	}

	return anomalies
}
