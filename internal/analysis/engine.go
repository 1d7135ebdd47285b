package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inferloop/tsinsight/pkg/constants"
	"github.com/inferloop/tsinsight/pkg/errors"
	"github.com/inferloop/tsinsight/pkg/interfaces"
	"github.com/inferloop/tsinsight/pkg/models"
)

// Engine orchestrates the holistic analysis pipeline: decomposition,
// periodicity, change points, anomalies, statistics, correlations, domain
// insights, and confidence aggregation, fronted by the memoizing cache.
type Engine struct {
	logger *logrus.Logger
	config *EngineConfig
	cache  interfaces.ResultCache
	sink   interfaces.EventSink

	periodicity  *PeriodicityDetector
	decomposer   *Decomposer
	changePoints *ChangePointDetector
	anomalies    *AnomalyDetector
	statistics   *StatisticsEngine
	correlations *CorrelationAnalyzer
	domains      *DomainAnalyzer
	confidence   *ConfidenceAggregator
}

// EngineConfig contains configuration for the analysis engine
type EngineConfig struct {
	CacheEnabled         bool          `json:"cache_enabled" yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheTTL             time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
	CacheSize            int           `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size"`
	AnomalyMultiplier    float64       `json:"anomaly_multiplier" yaml:"anomaly_multiplier" mapstructure:"anomaly_multiplier"`
	CorrelationThreshold float64       `json:"correlation_threshold" yaml:"correlation_threshold" mapstructure:"correlation_threshold"`
	AnnualizationFactor  float64       `json:"annualization_factor" yaml:"annualization_factor" mapstructure:"annualization_factor"`
	MomentumWindow       int           `json:"momentum_window" yaml:"momentum_window" mapstructure:"momentum_window"`
	RollingWindow        int           `json:"rolling_window" yaml:"rolling_window" mapstructure:"rolling_window"`
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		CacheEnabled:         true,
		CacheTTL:             constants.DefaultCacheTTL,
		CacheSize:            constants.DefaultCacheSize,
		AnomalyMultiplier:    constants.DefaultAnomalyMultiplier,
		CorrelationThreshold: constants.DefaultCorrelationThreshold,
		AnnualizationFactor:  constants.DefaultAnnualizationFactor,
		MomentumWindow:       constants.DefaultMomentumWindow,
		RollingWindow:        20,
	}
}

// NewEngine creates an analysis engine. A nil cache disables memoization, a
// nil sink disables telemetry, and a nil logger falls back to a fresh one.
func NewEngine(config *EngineConfig, cache interfaces.ResultCache, sink interfaces.EventSink, logger *logrus.Logger) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	periodicity := NewPeriodicityDetector()

	return &Engine{
		logger:       logger,
		config:       config,
		cache:        cache,
		sink:         sink,
		periodicity:  periodicity,
		decomposer:   NewDecomposer(periodicity),
		changePoints: NewChangePointDetector(),
		anomalies:    NewAnomalyDetector(config.AnomalyMultiplier),
		statistics:   NewStatisticsEngine(config.AnnualizationFactor, config.MomentumWindow),
		correlations: NewCorrelationAnalyzer(config.CorrelationThreshold),
		domains:      NewDomainAnalyzer(config.AnnualizationFactor, config.RollingWindow),
		confidence:   NewConfidenceAggregator(),
	}
}

// Analyze characterizes the series. It fails fatally only on a
// data/timestamp length mismatch or a total internal failure; failures in
// independent sub-analyses degrade the result instead.
func (e *Engine) Analyze(ctx context.Context, data []float64, timestamps []int64, opts models.AnalysisOptions) (*models.HolisticAnalysis, error) {
	if len(data) != len(timestamps) {
		err := errors.NewDimensionMismatchError(len(data), len(timestamps))
		e.recordFailure("validation", err)
		return nil, err
	}

	if e.cache == nil || !e.config.CacheEnabled {
		return e.compute(ctx, data, timestamps, opts)
	}

	key := Fingerprint(data, timestamps, opts)
	result, hit, err := e.cache.GetOrCompute(key, func() (*models.HolisticAnalysis, error) {
		return e.compute(ctx, data, timestamps, opts)
	})
	if err != nil {
		return nil, err
	}

	if hit {
		e.logger.WithField("fingerprint", key).Debug("Returning cached analysis result")
		e.recordEvent("analysis.cache_hit", map[string]interface{}{"fingerprint": key})
	} else {
		e.recordEvent("analysis.cache_miss", map[string]interface{}{"fingerprint": key})
	}

	return result, nil
}

// compute runs the full pipeline once. Structural detectors read only the
// raw series and run concurrently; domain insights and confidence
// aggregation run after the fan-in point.
func (e *Engine) compute(ctx context.Context, data []float64, timestamps []int64, opts models.AnalysisOptions) (result *models.HolisticAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewAnalysisFailedError("pipeline", fmt.Errorf("panic: %v", r))
			e.recordFailure("pipeline", err)
		}
	}()

	start := time.Now()
	window := opts.WindowFor(len(data))

	var (
		wg            sync.WaitGroup
		cycles        []models.Cycle
		decomposition *models.Decomposition
		changePoints  []models.ChangePoint
		segments      []models.TrendSegment
		anomalies     []models.Anomaly
		correlations  []models.Correlation
	)

	wg.Add(3)

	// Decomposition chain: cycles feed the seasonal fold, the smoothed
	// trend feeds change point detection.
	go func() {
		defer wg.Done()
		defer e.recoverStage("decomposition")
		cycles = e.periodicity.DetectCycles(data)
		d, derr := e.decomposer.DecomposeWith(data, window, cycles)
		if derr != nil {
			e.logger.WithError(derr).Warn("Decomposition unavailable")
			e.recordFailure("decomposition", derr)
			return
		}
		decomposition = d
		changePoints = e.changePoints.Detect(d.Trend)
		segments = e.changePoints.Segments(data, changePoints)
	}()

	go func() {
		defer wg.Done()
		defer e.recoverStage("anomalies")
		anomalies = e.anomalies.FindAnomalies(data)
	}()

	go func() {
		defer wg.Done()
		defer e.recoverStage("correlations")
		correlations = e.correlations.Scan(data, timestamps, window)
	}()

	wg.Wait()

	if ctx.Err() != nil {
		return nil, errors.NewAnalysisFailedError("pipeline", ctx.Err())
	}

	var trend []float64
	if decomposition != nil {
		trend = decomposition.Trend
	}

	stats, serr := e.statistics.ComputeStatistics(data, trend)
	if serr != nil {
		e.logger.WithError(serr).Warn("Statistics unavailable")
		e.recordFailure("statistics", serr)
	}

	insights, derr := e.domains.Analyze(opts.Domain, data, trend, cycles)
	if derr != nil {
		e.logger.WithError(derr).WithField("domain", opts.Domain).Warn("Domain insights unavailable")
		e.recordFailure("domain", derr)
	}

	tsAnalysis := models.TimeSeriesAnalysis{
		Decomposition: decomposition,
		Cycles:        cycles,
		ChangePoints:  changePoints,
		Anomalies:     anomalies,
		TrendSegments: segments,
	}

	confidence, quality, recommendations := e.confidence.Aggregate(data, timestamps, &tsAnalysis, stats, insights)

	result = &models.HolisticAnalysis{
		TimeSeries:   tsAnalysis,
		Stats:        stats,
		Insights:     insights,
		Correlations: correlations,
		Metadata: models.AnalysisMetadata{
			AnalysisID:      uuid.NewString(),
			Confidence:      confidence,
			Quality:         quality,
			Recommendations: recommendations,
			ComputedAt:      time.Now().UTC(),
			ProcessingTime:  time.Since(start),
		},
	}

	e.recordEvent("analysis.completed", map[string]interface{}{
		"duration_seconds": time.Since(start).Seconds(),
		"observations":     len(data),
		"domain":           string(opts.Domain),
	})

	return result, nil
}

// recoverStage contains a panic inside one pipeline stage so a misbehaving
// detector degrades its own sub-result instead of crashing the process.
func (e *Engine) recoverStage(stage string) {
	if r := recover(); r != nil {
		err := errors.NewAnalysisFailedError(stage, fmt.Errorf("panic: %v", r))
		e.logger.WithError(err).WithField("stage", stage).Warn("Analysis stage panicked")
		e.recordFailure(stage, err)
	}
}

// FlushCache discards all memoized results.
func (e *Engine) FlushCache() {
	if e.cache != nil {
		e.cache.Flush()
	}
}

// recordEvent forwards telemetry to the sink. A misbehaving sink never
// affects the analysis.
func (e *Engine) recordEvent(name string, payload map[string]interface{}) {
	if e.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithField("event", name).Warn("Telemetry sink panicked")
		}
	}()
	e.sink.RecordEvent(name, payload)
}

func (e *Engine) recordFailure(stage string, err error) {
	e.recordEvent("analysis.failure", map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}
