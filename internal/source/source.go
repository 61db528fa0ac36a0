// Package source defines where evaluation rows come from. Variants live in
// sub-packages and are selected by internal/source/factory.
package source

import (
	"context"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

// Kind names a RecordSource variant, used in logs and metric labels.
type Kind string

const (
	KindHF   Kind = "hf"
	KindFile Kind = "file"
	KindPG   Kind = "pg"
	KindES   Kind = "es"
)

// AllRetrievers identifies a FetchAll lookup in errors returned to clients,
// which must not carry paths, tables or index names.
const AllRetrievers = "all retrievers"

type Batch struct {
	Rows []domain.RawRow
	// Total is the row count reported by the source, which may exceed len(Rows)
	// when the source was capped.
	Total int
}

type RecordSource interface {
	// Fetch returns rows that may contain the requested retriever. Callers filter
	// by normalized retriever name. Implementations validate the id before any I/O.
	Fetch(ctx context.Context, retriever domain.RetrieverID) (*Batch, error)
	// FetchAll returns rows across every retriever.
	FetchAll(ctx context.Context) (*Batch, error)
	Kind() Kind
}
