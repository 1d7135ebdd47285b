package analysis

import (
	"math"
	"sort"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// minCycleCoefficient is the autocorrelation floor below which a peak is
// noise rather than a cycle.
const minCycleCoefficient = 0.3

// PeriodicityDetector infers dominant cycle lengths from autocorrelation
// peaks.
type PeriodicityDetector struct{}

// NewPeriodicityDetector creates a periodicity detector
func NewPeriodicityDetector() *PeriodicityDetector {
	return &PeriodicityDetector{}
}

// DetectCycles returns candidate cycles ordered by descending strength.
// Series shorter than the minimum cycle length yield an empty list.
func (d *PeriodicityDetector) DetectCycles(data []float64) []models.Cycle {
	n := len(data)
	if n < constants.MinCycleLength {
		return nil
	}

	maxLag := n / 3
	if maxLag < 2 {
		return nil
	}

	lags, err := mathutil.Autocorrelation(data, maxLag)
	if err != nil {
		// Degenerate or too-short input carries no periodicity.
		return nil
	}

	// Peak-find over the coefficient curve; curve[i] holds lag i+1.
	curve := make([]float64, len(lags))
	for i, lc := range lags {
		curve[i] = lc.Coefficient
	}

	var cycles []models.Cycle
	for _, peak := range mathutil.FindPeaks(curve, 0) {
		period := peak.Index + 1
		coefficient := peak.Value
		if coefficient < minCycleCoefficient {
			continue
		}

		// Coverage is the fraction of the series evenly divisible by the
		// candidate period; partial trailing periods weaken the evidence.
		coverage := float64((n/period)*period) / float64(n)
		confidence := coefficient * coverage * (1 - math.Abs(0.5-float64(period)/float64(n)))
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}

		cycles = append(cycles, models.Cycle{
			Period:     period,
			Strength:   coefficient,
			Confidence: confidence,
		})
	}

	cycles = suppressHarmonics(cycles)

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Strength > cycles[j].Strength
	})

	return cycles
}

// suppressHarmonics drops cycles whose period is an integer multiple of a
// shorter detected period with comparable strength; the autocorrelation of
// a p-periodic signal also peaks at 2p, 3p, ... and those restate the same
// cycle rather than evidence a new one.
func suppressHarmonics(cycles []models.Cycle) []models.Cycle {
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Period < cycles[j].Period
	})

	kept := cycles[:0]
	for _, c := range cycles {
		harmonic := false
		for _, k := range kept {
			if c.Period%k.Period == 0 && k.Strength >= 0.9*c.Strength {
				harmonic = true
				break
			}
		}
		if !harmonic {
			kept = append(kept, c)
		}
	}

	return kept
}
