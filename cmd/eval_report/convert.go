package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/parser"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/file"
)

var convertDir string

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert <retriever>.csv result files to parquet",
		Long: `Write <dir>/<retriever>.parquet next to every <retriever>.csv. Context lists are
decoded into parquet lists and unparsable metric values become nulls. The file
source prefers the parquet copy afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decoder := &parser.ListDecoder{}
			converted := 0

			for _, id := range domain.AllowedRetrievers() {
				if err := cmd.Context().Err(); err != nil {
					return err
				}

				csvPath := filepath.Join(convertDir, string(id)+file.ExtCSV)
				f, err := os.Open(csvPath)
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				if err != nil {
					return err
				}
				rows, err := file.NewCSVReader(f, filepath.Base(csvPath)).Read()
				_ = f.Close()

				var parseErr *apperr.ParseError
				if errors.As(err, &parseErr) {
					return fmt.Errorf("%s has %d malformed rows, fix them before converting: %w", csvPath, len(parseErr.Rows), err)
				}
				if err != nil {
					return err
				}

				out := make([]file.ParquetRow, len(rows))
				for i, row := range rows {
					if row.Retriever == nil {
						row.Retriever = domain.StringPtr(string(id))
					}
					out[i] = file.NewParquetRow(row, decoder.Decode)
				}

				parquetPath := filepath.Join(convertDir, string(id)+file.ExtParquet)
				if err := file.WriteParquet(parquetPath, out); err != nil {
					return err
				}
				converted++
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d rows)\n", csvPath, parquetPath, len(out)); err != nil {
					return err
				}
			}

			if converted == 0 {
				return fmt.Errorf("no csv result files found in %s", convertDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&convertDir, "dir", "data/evaluation", "directory holding <retriever>.csv files")
	return cmd
}
