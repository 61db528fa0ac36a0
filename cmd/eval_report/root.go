package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/rag-insight/internal/eval"
	"github.com/DjordjeVuckovic/rag-insight/internal/report"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/factory"
	"github.com/DjordjeVuckovic/rag-insight/pkg/config/env"
)

// opts holds the validated output settings shared by every command.
var opts report.Options

var (
	formatFlag string
	sourceFlag string
	noColor    bool
	verbose    bool
)

// newRootCmd builds the command tree. Flag variables are reset to their
// defaults on every call.
func newRootCmd() *cobra.Command {
	opts = report.DefaultOptions()

	rootCmd := &cobra.Command{
		Use:   "eval_report",
		Short: "Inspect and import RAG evaluation results.",
		Long: `eval_report reads RAGAS evaluation rows from the configured record source
(SOURCE_TYPE: hf, file, pg or es) and prints per-retriever summaries or
per-query results. It also imports local result files into postgres or
elasticsearch and converts csv results to parquet.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetLogLoggerLevel(level)

			if os.Getenv("ENV_PATH") != "" {
				if err := env.LoadDotEnv(os.Getenv("ENV")); err != nil {
					slog.Debug("Skipping .env ...", "error", err)
				}
			}

			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			opts.Format = format
			opts.UseColors = !noColor && !color.NoColor
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", string(report.FormatTable), "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "record source type, overrides SOURCE_TYPE")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().IntVar(&opts.Precision, "precision", opts.Precision, "decimal places for scores")
	rootCmd.PersistentFlags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "pass threshold applied to every metric")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newMetricsCmd(), newDetailCmd(), newImportCmd(), newConvertCmd())
	return rootCmd
}

// newAssembler builds the record source selected by --source or SOURCE_TYPE.
// The returned func releases the source.
func newAssembler(ctx context.Context) (*eval.Assembler, func(), error) {
	cfg, err := factory.LoadConfigFor(source.Kind(sourceFlag))
	if err != nil {
		return nil, nil, err
	}

	built, err := factory.NewSource(ctx, cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return eval.NewAssembler(built.Source), built.Close, nil
}
