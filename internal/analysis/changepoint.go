package analysis

import (
	"math"
	"sort"

	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// ChangePointDetector locates structural breaks by scanning for shifts in
// sliding-window statistics. Thresholds scale with local variability so
// sensitivity is consistent across differently-scaled inputs.
type ChangePointDetector struct {
	// shiftThreshold is the number of local standard deviations a mean or
	// projected-trend shift must exceed to count as a break.
	shiftThreshold float64
	// varianceRatio is the minimum between-window variance ratio for a
	// variance break.
	varianceRatio float64
}

// NewChangePointDetector creates a change point detector with default
// sensitivity.
func NewChangePointDetector() *ChangePointDetector {
	return &ChangePointDetector{
		shiftThreshold: 2.0,
		varianceRatio:  3.0,
	}
}

type candidate struct {
	index      int
	confidence float64
	kind       models.ChangePointType
	score      float64
}

// Detect scans the smoothed series for level, trend, and variance shifts.
// Candidates closer than one window to a stronger candidate are suppressed.
func (d *ChangePointDetector) Detect(smoothed []float64) []models.ChangePoint {
	n := len(smoothed)
	window := n / 20
	if window < 5 {
		window = 5
	}
	if n < 2*window+1 {
		return nil
	}

	var candidates []candidate
	for i := window; i <= n-window; i++ {
		before := newWindowFit(smoothed[i-window : i])
		after := newWindowFit(smoothed[i : i+window])

		// Pooled residual deviation estimates local noise with the
		// within-window trend removed, so a steady ramp scores zero.
		localStd := (before.residStd + after.residStd) / 2
		if localStd == 0 {
			localStd = 1e-10
		}

		best := candidate{index: i}

		// Level shift: after-window mean against the level the before-window
		// fit extrapolates to; a continuous trend predicts its own future.
		predicted := before.intercept + before.slope*(float64(window)+float64(window-1)/2)
		levelScore := math.Abs(after.mean-predicted) / localStd
		if levelScore > d.shiftThreshold && levelScore > best.score {
			best = candidate{i, shiftConfidence(levelScore, d.shiftThreshold), models.ChangePointLevel, levelScore}
		}

		// Trend shift: slope change projected over the window.
		trendScore := math.Abs(after.slope-before.slope) * float64(window) / localStd
		if trendScore > d.shiftThreshold && trendScore > best.score {
			best = candidate{i, shiftConfidence(trendScore, d.shiftThreshold), models.ChangePointTrend, trendScore}
		}

		// Variance shift: ratio of detrended window variances.
		lo := math.Min(before.residVar, after.residVar)
		hi := math.Max(before.residVar, after.residVar)
		if lo > 1e-12 {
			ratio := hi / lo
			varScore := ratio / d.varianceRatio
			if ratio > d.varianceRatio && varScore > best.score {
				best = candidate{i, shiftConfidence(ratio, d.varianceRatio), models.ChangePointVariance, varScore}
			}
		}

		if best.kind != "" {
			candidates = append(candidates, best)
		}
	}

	return suppressNeighbors(candidates, window)
}

// windowFit caches the linear fit of one scan window.
type windowFit struct {
	mean      float64
	slope     float64
	intercept float64
	residVar  float64
	residStd  float64
}

func newWindowFit(values []float64) windowFit {
	slope, intercept, _ := mathutil.LinearRegression(values)

	residSum := 0.0
	for i, v := range values {
		r := v - (intercept + slope*float64(i))
		residSum += r * r
	}
	residVar := residSum / float64(len(values))

	return windowFit{
		mean:      mathutil.Mean(values),
		slope:     slope,
		intercept: intercept,
		residVar:  residVar,
		residStd:  math.Sqrt(residVar),
	}
}

// shiftConfidence maps a score past its threshold into (0,1], saturating as
// the shift dwarfs local noise.
func shiftConfidence(score, threshold float64) float64 {
	c := 1 - threshold/score
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	// Floor keeps barely-detected breaks distinguishable from noise.
	return 0.5 + c/2
}

// suppressNeighbors keeps only the strongest candidate within each window
// radius, so one structural break reports once.
func suppressNeighbors(candidates []candidate, window int) []models.ChangePoint {
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var kept []candidate
	for _, c := range candidates {
		tooClose := false
		for _, k := range kept {
			if abs(c.index-k.index) < window {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].index < kept[j].index })

	points := make([]models.ChangePoint, len(kept))
	for i, c := range kept {
		points[i] = models.ChangePoint{Index: c.index, Confidence: c.confidence, Type: c.kind}
	}
	return points
}

// Segments summarizes the stretches between consecutive change points as
// linear trend segments. Segments with fit confidence at or below 0.5 are
// dropped; the underlying change points are retained regardless.
func (d *ChangePointDetector) Segments(data []float64, changePoints []models.ChangePoint) []models.TrendSegment {
	n := len(data)
	if n < 2 {
		return nil
	}

	boundaries := make([]int, 0, len(changePoints)+2)
	boundaries = append(boundaries, 0)
	for _, cp := range changePoints {
		if cp.Index > 0 && cp.Index < n-1 {
			boundaries = append(boundaries, cp.Index)
		}
	}
	boundaries = append(boundaries, n-1)

	var segments []models.TrendSegment
	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i], boundaries[i+1]
		if end-start < 2 {
			continue
		}
		slope, _, r2 := mathutil.LinearRegression(data[start : end+1])
		// Non-finite fits (NaN/Inf in the data) carry no confidence.
		if math.IsNaN(r2) || r2 <= 0.5 {
			continue
		}
		segments = append(segments, models.TrendSegment{
			Start:      start,
			End:        end,
			Slope:      slope,
			Confidence: r2,
		})
	}

	return segments
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
