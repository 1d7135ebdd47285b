package analysis

import (
	"math"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/errors"
	"github.com/inferloop/tsinsight/pkg/models"

	mathutil "github.com/inferloop/tsinsight/internal/utils/math"
)

// DomainAnalyzer dispatches to the handler for a closed set of domains.
// An unset domain yields nil insights; an unknown tag is an error confined
// to the domain-insights step.
type DomainAnalyzer struct {
	financial *FinancialAnalyzer
}

// NewDomainAnalyzer creates a domain analyzer
func NewDomainAnalyzer(annualizationFactor float64, rollingWindow int) *DomainAnalyzer {
	return &DomainAnalyzer{
		financial: NewFinancialAnalyzer(annualizationFactor, rollingWindow),
	}
}

// Analyze runs the handler for the requested domain. The trend slice is the
// smoothed series (may be nil) and cycles are the detected periodicities;
// both are optional context for handlers that use them.
func (d *DomainAnalyzer) Analyze(domain models.Domain, data []float64, trend []float64, cycles []models.Cycle) (*models.DomainInsights, error) {
	switch domain {
	case models.DomainNone:
		return nil, nil
	case models.DomainFinancial:
		insights, err := d.financial.Analyze(data, trend)
		if err != nil {
			return nil, err
		}
		return &models.DomainInsights{Domain: domain, Financial: insights}, nil
	case models.DomainMedical:
		return &models.DomainInsights{Domain: domain, Medical: analyzeMedical(data, cycles)}, nil
	case models.DomainEnvironmental:
		return &models.DomainInsights{Domain: domain, Environmental: analyzeEnvironmental(data, cycles)}, nil
	default:
		return nil, errors.NewInvalidDomainError(string(domain))
	}
}

// analyzeMedical derives a robust baseline, maximal runs outside the
// tolerated band, and how much of the series the dominant cycle covers.
func analyzeMedical(data []float64, cycles []models.Cycle) *models.MedicalInsights {
	insights := &models.MedicalInsights{
		Baseline: mathutil.Median(data),
	}

	scale := mathutil.MedianAbsoluteDeviation(data) * constants.MADConsistency
	if scale > 0 {
		band := 2 * scale
		var episode *models.DeviationEpisode
		for i, v := range data {
			dev := math.Abs(v - insights.Baseline)
			if dev > band {
				if episode == nil {
					episode = &models.DeviationEpisode{Start: i, End: i, PeakDeviation: dev}
				} else {
					episode.End = i
					if dev > episode.PeakDeviation {
						episode.PeakDeviation = dev
					}
				}
				continue
			}
			if episode != nil {
				insights.DeviationEpisodes = append(insights.DeviationEpisodes, *episode)
				episode = nil
			}
		}
		if episode != nil {
			insights.DeviationEpisodes = append(insights.DeviationEpisodes, *episode)
		}
	}

	if len(cycles) > 0 {
		insights.CircadianCoverage = cycles[0].Confidence
	}

	return insights
}

// analyzeEnvironmental folds the series over the dominant period for the
// seasonal amplitude and counts exceedances of the empirical 95th
// percentile.
func analyzeEnvironmental(data []float64, cycles []models.Cycle) *models.EnvironmentalInsights {
	insights := &models.EnvironmentalInsights{
		ExceedanceThreshold: mathutil.Percentile(data, 95),
	}

	for _, v := range data {
		if v > insights.ExceedanceThreshold {
			insights.ExceedanceCount++
		}
	}

	if len(cycles) > 0 {
		period := cycles[0].Period
		if period >= 2 && period <= len(data)/2 {
			pattern := make([]float64, period)
			counts := make([]int, period)
			for i, v := range data {
				pattern[i%period] += v
				counts[i%period]++
			}
			lo, hi := math.Inf(1), math.Inf(-1)
			for i := range pattern {
				if counts[i] == 0 {
					continue
				}
				avg := pattern[i] / float64(counts[i])
				lo = math.Min(lo, avg)
				hi = math.Max(hi, avg)
			}
			if hi > lo {
				insights.SeasonalAmplitude = hi - lo
			}
		}
	}

	return insights
}
