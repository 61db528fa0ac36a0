package es

import (
	"time"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

// Document is the indexed shape of one evaluation row. RetrieverID holds the
// normalized label and is mapped as a keyword for exact term filtering.
type Document struct {
	RetrieverID       string    `json:"retriever_id"`
	Retriever         string    `json:"retriever"`
	RowIdx            int       `json:"row_idx"`
	UserInput         *string   `json:"user_input,omitempty"`
	RetrievedContexts any       `json:"retrieved_contexts,omitempty"`
	ReferenceContexts any       `json:"reference_contexts,omitempty"`
	Response          *string   `json:"response,omitempty"`
	Reference         *string   `json:"reference,omitempty"`
	SynthesizerName   *string   `json:"synthesizer_name,omitempty"`
	Faithfulness      *float64  `json:"faithfulness,omitempty"`
	AnswerRelevancy   *float64  `json:"answer_relevancy,omitempty"`
	ContextPrecision  *float64  `json:"context_precision,omitempty"`
	ContextRecall     *float64  `json:"context_recall,omitempty"`
	ImportedAt        time.Time `json:"imported_at"`
}

func toDocument(row domain.RawRow, label string, idx int, now time.Time) Document {
	return Document{
		RetrieverID:       domain.NormalizeRetrieverName(label),
		Retriever:         label,
		RowIdx:            idx,
		UserInput:         row.UserInput,
		RetrievedContexts: row.RetrievedContexts,
		ReferenceContexts: row.ReferenceContexts,
		Response:          row.Response,
		Reference:         row.Reference,
		SynthesizerName:   row.SynthesizerName,
		Faithfulness:      domain.NullableMetric(row.Faithfulness),
		AnswerRelevancy:   domain.NullableMetric(row.AnswerRelevancy),
		ContextPrecision:  domain.NullableMetric(row.ContextPrecision),
		ContextRecall:     domain.NullableMetric(row.ContextRecall),
		ImportedAt:        now,
	}
}
