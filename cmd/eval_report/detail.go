package main

import (
	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/report"
)

func newDetailCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "detail <retriever>",
		Short:     "Show per-query results for one retriever",
		ValidArgs: retrieverArgs(),
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject unknown ids before any source is built.
			if _, err := domain.ParseRetriever(args[0]); err != nil {
				return err
			}

			assembler, closeSource, err := newAssembler(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSource()

			result, err := assembler.Detailed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.WriteDetailed(cmd.OutOrStdout(), result, opts)
		},
	}
}

func retrieverArgs() []string {
	ids := domain.AllowedRetrievers()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
