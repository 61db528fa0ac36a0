package file

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

// ParquetRow is the column layout of the published evaluation datasets.
// Nullable columns are pointers so absence survives into domain.RawRow.
type ParquetRow struct {
	Retriever         *string  `parquet:"retriever,optional,snappy"`
	UserInput         *string  `parquet:"user_input,optional,snappy"`
	RetrievedContexts []string `parquet:"retrieved_contexts,list"`
	ReferenceContexts []string `parquet:"reference_contexts,list"`
	Response          *string  `parquet:"response,optional,snappy"`
	Reference         *string  `parquet:"reference,optional,snappy"`
	SynthesizerName   *string  `parquet:"synthesizer_name,optional,snappy"`
	Faithfulness      *float64 `parquet:"faithfulness,optional"`
	AnswerRelevancy   *float64 `parquet:"answer_relevancy,optional"`
	ContextPrecision  *float64 `parquet:"context_precision,optional"`
	ContextRecall     *float64 `parquet:"context_recall,optional"`
}

func (p ParquetRow) toRaw() domain.RawRow {
	return domain.RawRow{
		Retriever:         p.Retriever,
		UserInput:         p.UserInput,
		Response:          p.Response,
		Reference:         p.Reference,
		SynthesizerName:   p.SynthesizerName,
		RetrievedContexts: optionalList(p.RetrievedContexts),
		ReferenceContexts: optionalList(p.ReferenceContexts),
		Faithfulness:      domain.OptionalFloat(p.Faithfulness),
		AnswerRelevancy:   domain.OptionalFloat(p.AnswerRelevancy),
		ContextPrecision:  domain.OptionalFloat(p.ContextPrecision),
		ContextRecall:     domain.OptionalFloat(p.ContextRecall),
	}
}

// NewParquetRow converts a raw row for WriteParquet. Encoded context lists
// are decoded with decode; absent lists stay absent.
func NewParquetRow(row domain.RawRow, decode func(any) []string) ParquetRow {
	return ParquetRow{
		Retriever:         row.Retriever,
		UserInput:         row.UserInput,
		Response:          row.Response,
		Reference:         row.Reference,
		SynthesizerName:   row.SynthesizerName,
		RetrievedContexts: decodeOptional(row.RetrievedContexts, decode),
		ReferenceContexts: decodeOptional(row.ReferenceContexts, decode),
		Faithfulness:      domain.NullableMetric(row.Faithfulness),
		AnswerRelevancy:   domain.NullableMetric(row.AnswerRelevancy),
		ContextPrecision:  domain.NullableMetric(row.ContextPrecision),
		ContextRecall:     domain.NullableMetric(row.ContextRecall),
	}
}

func decodeOptional(v any, decode func(any) []string) []string {
	if v == nil {
		return nil
	}
	return decode(v)
}

func optionalList(v []string) any {
	if v == nil {
		return nil
	}
	return v
}

func ReadParquet(path string) ([]domain.RawRow, error) {
	records, err := parquet.ReadFile[ParquetRow](path)
	if err != nil {
		return nil, fmt.Errorf("reading parquet file %s: %w", path, err)
	}

	rows := make([]domain.RawRow, len(records))
	for i, rec := range records {
		rows[i] = rec.toRaw()
	}
	return rows, nil
}

// WriteParquet writes rows in the layout ReadParquet expects.
func WriteParquet(path string, rows []ParquetRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[ParquetRow](f)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
