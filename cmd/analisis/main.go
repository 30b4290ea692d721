package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spektr-org/seguros/analysis"
)

// ============================================================================
// ANALISIS CLI — Insurance dataset report, figures and LaTeX tables
// ============================================================================

const version = "1.0.0"

var (
	verbose   bool
	strict    bool
	inputPath string
	outputDir string

	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analisis",
		Short:   "Exploratory analysis of the insurance charges dataset",
		Version: version,
		Long: `analisis loads insurance.csv, translates it to Spanish and produces:

  correlacion.png   correlation heatmap of the numeric columns
  edades.png        age histogram with a density curve
  bmi.tex           mean BMI by age group, sex and smoker status
  costos.tex        mean charges by age group, sex and smoker status

Shape, first rows, summary statistics and both tables are printed to stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runAnalysis,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject categorical values outside the translation tables")
	cmd.Flags().StringVarP(&inputPath, "input", "i", analysis.InputFile, "Path to the insurance CSV")
	cmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Directory for figures and tables")
	return cmd
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	summary, err := analysis.Run(
		analysis.WithInput(inputPath),
		analysis.WithOutputDir(outputDir),
		analysis.WithStrict(strict),
		analysis.WithLogger(logger),
		analysis.WithStdout(cmd.OutOrStdout()),
	)
	if err != nil {
		return err
	}
	logger.Info("analysis complete",
		zap.Int("rows", summary.Rows),
		zap.Int("dropped", summary.Dropped),
		zap.Strings("outputs", summary.Outputs))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
