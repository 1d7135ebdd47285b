package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferloop/tsinsight/internal/analysis"
	"github.com/inferloop/tsinsight/internal/config"
	"github.com/inferloop/tsinsight/pkg/models"
)

type AnalyzeOptions struct {
	InputFile     string
	Domain        string
	ContextWindow int
	OutputFormat  string
	OutputFile    string
}

func NewAnalyzeCmd(logger *logrus.Logger, cfgFile *string) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze time series data patterns and characteristics",
		Long: `Analyze time series data to understand trend, seasonality, change
points, anomalies, and domain-specific risk characteristics.`,
		Example: `  # Basic analysis
  tsinsight analyze --input sensor_data.csv

  # Financial risk characterization
  tsinsight analyze --input prices.csv --domain financial

  # JSON output with a custom context window
  tsinsight analyze --input data.csv --window 30 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(logger, *cfgFile, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input CSV file of timestamp,value rows (required)")
	cmd.Flags().StringVarP(&opts.Domain, "domain", "d", "", "Domain analyzer (financial, medical, environmental)")
	cmd.Flags().IntVar(&opts.ContextWindow, "window", 0, "Context window (default max(10, n/10))")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "Output format (text, json)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")

	cmd.MarkFlagRequired("input")

	return cmd
}

func runAnalyze(logger *logrus.Logger, cfgFile string, opts *AnalyzeOptions) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	data, timestamps, err := readSeriesCSV(opts.InputFile)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"input":        opts.InputFile,
		"observations": len(data),
		"domain":       opts.Domain,
	}).Info("Analyzing time series")

	cache := analysis.NewAnalysisCache(cfg.CacheSize, cfg.CacheTTL)
	engine := analysis.NewEngine(cfg, cache, nil, logger)

	result, err := engine.Analyze(context.Background(), data, timestamps, models.AnalysisOptions{
		Domain:        models.Domain(opts.Domain),
		ContextWindow: opts.ContextWindow,
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.OutputFile != "" && opts.OutputFile != "-" {
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch opts.OutputFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text":
		writeTextSummary(out, result)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", opts.OutputFormat)
	}
}

// readSeriesCSV parses timestamp,value rows, tolerating a single header row.
func readSeriesCSV(path string) ([]float64, []int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	var data []float64
	var timestamps []int64
	for i, record := range records {
		ts, tsErr := strconv.ParseInt(record[0], 10, 64)
		v, vErr := strconv.ParseFloat(record[1], 64)
		if tsErr != nil || vErr != nil {
			if i == 0 {
				continue // header row
			}
			return nil, nil, fmt.Errorf("invalid row %d in %s", i+1, path)
		}
		timestamps = append(timestamps, ts)
		data = append(data, v)
	}

	if len(data) == 0 {
		return nil, nil, fmt.Errorf("no observations found in %s", path)
	}
	return data, timestamps, nil
}

func writeTextSummary(out *os.File, result *models.HolisticAnalysis) {
	fmt.Fprintf(out, "Analysis %s\n", result.Metadata.AnalysisID)
	fmt.Fprintf(out, "  Confidence: %.3f  Quality: %.3f\n", result.Metadata.Confidence, result.Metadata.Quality)

	if result.Stats != nil {
		b := result.Stats.Basic
		fmt.Fprintf(out, "  Observations: %d  Mean: %.4f  Median: %.4f  StdDev: %.4f\n", b.Count, b.Mean, b.Median, b.StdDev)
		fmt.Fprintf(out, "  Range: [%.4f, %.4f]  Skewness: %.3f  Kurtosis: %.3f\n",
			b.Min, b.Max, result.Stats.Distribution.Skewness, result.Stats.Distribution.Kurtosis)
	}

	if len(result.TimeSeries.Cycles) > 0 {
		c := result.TimeSeries.Cycles[0]
		fmt.Fprintf(out, "  Dominant cycle: period %d (strength %.3f, confidence %.3f)\n", c.Period, c.Strength, c.Confidence)
	}
	fmt.Fprintf(out, "  Change points: %d  Anomalies: %d  Trend segments: %d  Correlated windows: %d\n",
		len(result.TimeSeries.ChangePoints), len(result.TimeSeries.Anomalies),
		len(result.TimeSeries.TrendSegments), len(result.Correlations))

	if result.Insights != nil && result.Insights.Financial != nil {
		fi := result.Insights.Financial
		fmt.Fprintf(out, "  Volatility: %.4f  VaR95: %.4f  VaR99: %.4f  Expected shortfall: %.4f\n",
			fi.Volatility, fi.ValueAtRisk95, fi.ValueAtRisk99, fi.TailRisk.ExpectedShortfall)
	}

	for _, rec := range result.Metadata.Recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}
}
