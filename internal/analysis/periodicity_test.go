package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCyclesWeeklyPattern(t *testing.T) {
	detector := NewPeriodicityDetector()

	// 20 full weekly periods of a pure sinusoid.
	cycles := detector.DetectCycles(sineSeries(140, 7))
	require.NotEmpty(t, cycles)

	dominant := cycles[0]
	assert.Equal(t, 7, dominant.Period)
	assert.Greater(t, dominant.Strength, 0.9)
	assert.Greater(t, dominant.Confidence, 0.5)
	assert.LessOrEqual(t, dominant.Confidence, 1.0)
}

func TestDetectCyclesSuppressesHarmonics(t *testing.T) {
	detector := NewPeriodicityDetector()

	// Autocorrelation of a 7-periodic signal also peaks at 14, 21, ...;
	// only the fundamental should survive.
	cycles := detector.DetectCycles(sineSeries(140, 7))
	for _, c := range cycles {
		if c.Period != 7 {
			assert.NotZero(t, c.Period%7, "period %d", c.Period)
		}
	}
}

func TestDetectCyclesOrderedByStrength(t *testing.T) {
	detector := NewPeriodicityDetector()

	// Weekly signal with a weaker faster component.
	data := make([]float64, 140)
	for i := range data {
		data[i] = math.Sin(2*math.Pi*float64(i)/7) + 0.3*math.Sin(2*math.Pi*float64(i)/5)
	}

	cycles := detector.DetectCycles(data)
	require.NotEmpty(t, cycles)

	periods := make([]int, len(cycles))
	for i, c := range cycles {
		periods[i] = c.Period
	}
	assert.Contains(t, periods, 7)

	for i := 1; i < len(cycles); i++ {
		assert.LessOrEqual(t, cycles[i].Strength, cycles[i-1].Strength)
	}
}

func TestDetectCyclesShortSeries(t *testing.T) {
	detector := NewPeriodicityDetector()
	assert.Empty(t, detector.DetectCycles([]float64{1, 2, 3, 4, 5}))
}

func TestDetectCyclesConstantSeries(t *testing.T) {
	detector := NewPeriodicityDetector()

	constant := make([]float64, 50)
	for i := range constant {
		constant[i] = 42
	}
	assert.Empty(t, detector.DetectCycles(constant))
}

func TestDetectCyclesTrendOnly(t *testing.T) {
	detector := NewPeriodicityDetector()

	// A monotone ramp has monotonically decaying autocorrelation and no
	// peaks, hence no cycles.
	ramp := make([]float64, 60)
	for i := range ramp {
		ramp[i] = float64(i)
	}
	assert.Empty(t, detector.DetectCycles(ramp))
}

func sineSeries(n, period int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * float64(i) / float64(period))
	}
	return data
}
