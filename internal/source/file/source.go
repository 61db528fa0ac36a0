// Package file reads evaluation rows from one local file per retriever.
package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
)

const (
	ExtCSV     = ".csv"
	ExtParquet = ".parquet"
)

type Config struct {
	Dir string `envconfig:"FILE_SOURCE_DIR" default:"data/evaluation"`
}

// Source resolves <dir>/<retriever>.parquet, falling back to
// <dir>/<retriever>.csv.
type Source struct {
	dir     string
	metrics *observability.Metrics
}

var _ source.RecordSource = (*Source)(nil)

func NewSource(dir string, metrics *observability.Metrics) *Source {
	return &Source{dir: dir, metrics: metrics}
}

func (s *Source) Kind() source.Kind {
	return source.KindFile
}

func (s *Source) Fetch(ctx context.Context, retriever domain.RetrieverID) (*source.Batch, error) {
	if err := domain.ValidateRetriever(retriever); err != nil {
		return nil, err
	}

	start := time.Now()
	batch, err := s.read(ctx, retriever)
	s.metrics.RecordSourceFetch(string(source.KindFile), observability.FetchStatus(err), time.Since(start))
	return batch, err
}

// FetchAll reads every retriever file that exists. Retrievers without a file
// have not been evaluated yet and are skipped.
func (s *Source) FetchAll(ctx context.Context) (*source.Batch, error) {
	start := time.Now()
	batch, err := s.readAll(ctx)
	s.metrics.RecordSourceFetch(string(source.KindFile), observability.FetchStatus(err), time.Since(start))
	return batch, err
}

func (s *Source) readAll(ctx context.Context) (*source.Batch, error) {
	all := &source.Batch{}
	for _, id := range domain.AllowedRetrievers() {
		batch, err := s.read(ctx, id)
		if err != nil {
			var notFound *apperr.NotFoundError
			if errors.As(err, &notFound) {
				slog.Debug("No evaluation file for retriever", "retriever", id, "dir", s.dir)
				continue
			}
			return nil, err
		}
		all.Rows = append(all.Rows, batch.Rows...)
		all.Total += batch.Total
	}

	if len(all.Rows) == 0 {
		return nil, apperr.NewNotFound("evaluation results", source.AllRetrievers)
	}
	return all, nil
}

func (s *Source) read(ctx context.Context, retriever domain.RetrieverID) (*source.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(retriever)
	if err != nil {
		return nil, err
	}

	var rows []domain.RawRow
	switch filepath.Ext(path) {
	case ExtParquet:
		rows, err = ReadParquet(path)
	default:
		rows, err = readCSVFile(path)
	}

	var parseErr *apperr.ParseError
	if err != nil && !errors.As(err, &parseErr) {
		return nil, err
	}

	// Per-retriever files may omit the retriever column.
	for i := range rows {
		if rows[i].Retriever == nil {
			rows[i].Retriever = domain.StringPtr(string(retriever))
		}
	}

	if parseErr != nil {
		return &source.Batch{Rows: rows, Total: len(rows)}, parseErr
	}
	return &source.Batch{Rows: rows, Total: len(rows)}, nil
}

func (s *Source) resolve(retriever domain.RetrieverID) (string, error) {
	for _, ext := range []string{ExtParquet, ExtCSV} {
		path := filepath.Join(s.dir, string(retriever)+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", apperr.NewNotFound("evaluation results for retriever", string(retriever))
}

func readCSVFile(path string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return NewCSVReader(f, filepath.Base(path)).Read()
}
