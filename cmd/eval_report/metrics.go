package main

import (
	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/rag-insight/internal/report"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show mean metrics per retriever",
		Long: `Summarize every retriever found in the record source: the mean of each
RAGAS metric, the overall average and the best performer.

Examples:
  # Remote dataset, table output
  eval_report metrics

  # Local result files as JSON
  eval_report metrics --source file --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assembler, closeSource, err := newAssembler(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSource()

			overview, err := assembler.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return report.WriteOverview(cmd.OutOrStdout(), overview, opts)
		},
	}
}
