package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/rag-insight/internal/collector"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/processor"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/es"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/factory"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/file"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/pg"
)

var (
	importDir        string
	importTarget     string
	importRetrievers []string
	importBatchSize  int
	importReplace    bool
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import local result files into postgres or elasticsearch",
		Long: `Read <dir>/<retriever>.parquet or <dir>/<retriever>.csv for each retriever
and store the rows in the selected target. Connection settings come from
DATABASE_URL (pg) or ES_ADDRESSES and ES_INDEX (es). A pg import runs in one
transaction: with --replace the old rows are only removed if every new row
is stored.

Examples:
  eval_report import --dir data/evaluation --target pg --replace
  eval_report import --target es --retriever naive --retriever bm25`,
		Args: cobra.NoArgs,
		RunE: runImport,
	}

	cmd.Flags().StringVar(&importDir, "dir", "data/evaluation", "directory holding <retriever>.parquet or <retriever>.csv files")
	cmd.Flags().StringVar(&importTarget, "target", string(source.KindPG), "import target: pg or es")
	cmd.Flags().StringSliceVar(&importRetrievers, "retriever", nil, "retrievers to import, all when omitted")
	cmd.Flags().IntVar(&importBatchSize, "batch-size", 500, "rows per bulk write")
	cmd.Flags().BoolVar(&importReplace, "replace", false, "delete previously imported rows first (pg only)")
	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ids := make([]domain.RetrieverID, 0, len(importRetrievers))
	for _, raw := range importRetrievers {
		id, err := domain.ParseRetriever(raw)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		ids = domain.AllowedRetrievers()
	}

	sink, err := newImportSink(ctx, source.Kind(importTarget), ids)
	if err != nil {
		return err
	}
	defer sink.close()

	pipeline := processor.NewPipeline(
		collector.NewSourceCollector(file.NewSource(importDir, nil), ids...),
		sink.storer,
		processor.WithBulk(importBatchSize),
		processor.WithName("import-"+importTarget),
	)
	stats, err := pipeline.Run(ctx)
	if err = sink.finish(ctx, err); err != nil {
		if _, werr := fmt.Fprintf(cmd.OutOrStdout(), "Import into %s failed after %d rows (%d failed)\n",
			importTarget, stats.Processed, stats.Failed); werr != nil {
			return werr
		}
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows in %d batches into %s\n",
		stats.Processed, stats.Batches, importTarget)
	return err
}

// importSink is a Storer plus the hooks that end an import run. finish
// receives the pipeline error and returns the error of the whole import.
type importSink struct {
	storer processor.Storer
	finish func(ctx context.Context, runErr error) error
	close  func()
}

func newImportSink(ctx context.Context, target source.Kind, ids []domain.RetrieverID) (*importSink, error) {
	switch target {
	case source.KindPG:
		cfg, err := factory.LoadConfigFor(source.KindPG)
		if err != nil {
			return nil, err
		}
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.PG.ConnStr})
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		tx, err := pg.NewStore(pool).Begin(ctx)
		if err != nil {
			pool.Close()
			return nil, err
		}

		if importReplace {
			for _, id := range ids {
				if _, err := tx.DeleteRetriever(ctx, id); err != nil {
					_ = tx.Rollback(context.WithoutCancel(ctx))
					pool.Close()
					return nil, err
				}
			}
		}

		return &importSink{
			storer: processor.StorerFunc(func(ctx context.Context, rows []domain.RawRow) (int64, error) {
				return tx.Insert(ctx, rows, "")
			}),
			finish: func(ctx context.Context, runErr error) error {
				if runErr != nil {
					if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
						slog.Error("Import rollback failed", "error", err)
					}
					return fmt.Errorf("import rolled back: %w", runErr)
				}
				return tx.Commit(ctx)
			},
			close: pool.Close,
		}, nil

	case source.KindES:
		if importReplace {
			return nil, fmt.Errorf("--replace is only supported for pg")
		}
		cfg, err := factory.LoadConfigFor(source.KindES)
		if err != nil {
			return nil, err
		}
		indexer, err := es.NewIndexer(ctx, cfg.ES)
		if err != nil {
			return nil, err
		}
		return &importSink{
			storer: processor.StorerFunc(func(ctx context.Context, rows []domain.RawRow) (int64, error) {
				return indexer.Index(ctx, rows, "")
			}),
			finish: func(_ context.Context, runErr error) error { return runErr },
			close:  func() {},
		}, nil

	default:
		return nil, fmt.Errorf("invalid import target %q, expected pg or es", target)
	}
}
