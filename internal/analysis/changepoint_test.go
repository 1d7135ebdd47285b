package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/tsinsight/pkg/models"
)

func TestDetectLevelShift(t *testing.T) {
	detector := NewChangePointDetector()

	data := make([]float64, 100)
	for i := range data {
		if i < 50 {
			data[i] = 100
		} else {
			data[i] = 110
		}
	}

	points := detector.Detect(data)
	require.Len(t, points, 1)
	assert.Equal(t, 50, points[0].Index)
	assert.Equal(t, models.ChangePointLevel, points[0].Type)
	assert.Greater(t, points[0].Confidence, 0.9)
}

func TestDetectTrendShift(t *testing.T) {
	detector := NewChangePointDetector()

	// Flat, then a ramp starting at the same level.
	data := make([]float64, 100)
	for i := range data {
		if i < 50 {
			data[i] = 10
		} else {
			data[i] = 10 + float64(i-50)
		}
	}

	points := detector.Detect(data)
	require.Len(t, points, 1)
	assert.Equal(t, 50, points[0].Index)
	assert.Equal(t, models.ChangePointTrend, points[0].Type)
	assert.Greater(t, points[0].Confidence, 0.9)
}

func TestDetectVarianceShift(t *testing.T) {
	detector := NewChangePointDetector()

	// Same level, twenty-fold amplitude increase halfway.
	data := make([]float64, 100)
	for i := range data {
		amplitude := 0.1
		if i >= 50 {
			amplitude = 2.0
		}
		if i%2 == 0 {
			data[i] = amplitude
		} else {
			data[i] = -amplitude
		}
	}

	points := detector.Detect(data)
	require.Len(t, points, 1)
	assert.Equal(t, 50, points[0].Index)
	assert.Equal(t, models.ChangePointVariance, points[0].Type)
	assert.Greater(t, points[0].Confidence, 0.9)
}

func TestDetectSteadyRampHasNoBreaks(t *testing.T) {
	detector := NewChangePointDetector()

	// A constant slope is one regime, not a sequence of breaks.
	data := make([]float64, 100)
	for i := range data {
		data[i] = 0.5 * float64(i)
	}

	assert.Empty(t, detector.Detect(data))
}

func TestDetectConstantSeries(t *testing.T) {
	detector := NewChangePointDetector()

	data := make([]float64, 100)
	for i := range data {
		data[i] = 7
	}

	assert.Empty(t, detector.Detect(data))
}

func TestDetectShortSeries(t *testing.T) {
	detector := NewChangePointDetector()
	assert.Empty(t, detector.Detect([]float64{1, 2, 3}))
}

func TestSegmentsSplitAtChangePoints(t *testing.T) {
	detector := NewChangePointDetector()

	// Ramp up, then ramp down.
	data := make([]float64, 60)
	for i := range data {
		if i < 30 {
			data[i] = float64(i)
		} else {
			data[i] = 60 - float64(i)
		}
	}

	segments := detector.Segments(data, []models.ChangePoint{
		{Index: 30, Type: models.ChangePointTrend, Confidence: 1},
	})
	require.Len(t, segments, 2)

	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, 30, segments[0].End)
	assert.Greater(t, segments[0].Slope, 0.0)
	assert.Greater(t, segments[0].Confidence, 0.9)

	assert.Equal(t, 30, segments[1].Start)
	assert.Equal(t, 59, segments[1].End)
	assert.Less(t, segments[1].Slope, 0.0)
	assert.Greater(t, segments[1].Confidence, 0.9)
}

func TestSegmentsDropPoorFits(t *testing.T) {
	detector := NewChangePointDetector()

	// Alternating data has no linear structure at all.
	data := make([]float64, 20)
	for i := range data {
		data[i] = float64(i % 2)
	}

	assert.Empty(t, detector.Segments(data, nil))
}

func TestSegmentsDropNonFiniteFits(t *testing.T) {
	detector := NewChangePointDetector()

	// A NaN inside a segment poisons its fit; the segment is dropped rather
	// than reported with a NaN confidence.
	data := make([]float64, 60)
	for i := range data {
		data[i] = float64(i)
	}
	data[10] = math.NaN()

	segments := detector.Segments(data, []models.ChangePoint{
		{Index: 30, Type: models.ChangePointLevel, Confidence: 1},
	})
	require.Len(t, segments, 1)
	assert.Equal(t, 30, segments[0].Start)
	assert.Equal(t, 59, segments[0].End)
	assert.False(t, math.IsNaN(segments[0].Confidence))
}

func TestSegmentsShortInput(t *testing.T) {
	detector := NewChangePointDetector()
	assert.Empty(t, detector.Segments([]float64{1}, nil))
}
