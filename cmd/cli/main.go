package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferloop/tsinsight/cmd/cli/commands"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	logger := logrus.New()

	rootCmd := &cobra.Command{
		Use:   "tsinsight",
		Short: "Holistic time series characterization CLI",
		Long: `A command-line interface for characterizing time series data:
trend, seasonality, change points, anomalies, summary statistics, and
domain-specific insights with an aggregated confidence score.`,
		Version: "0.1.0",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tsinsight.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewAnalyzeCmd(logger, &cfgFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
