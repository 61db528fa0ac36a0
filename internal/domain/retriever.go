package domain

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
)

// RetrieverID is the canonical, normalized name of a retrieval strategy.
type RetrieverID string

const (
	RetrieverNaive        RetrieverID = "naive"
	RetrieverBM25         RetrieverID = "bm25"
	RetrieverEnsemble     RetrieverID = "ensemble"
	RetrieverCohereRerank RetrieverID = "cohere_rerank"
)

// DefaultStrategy is the retriever the graph backend runs when none is requested.
const DefaultStrategy = RetrieverCohereRerank

var allowedRetrievers = []RetrieverID{
	RetrieverNaive,
	RetrieverBM25,
	RetrieverEnsemble,
	RetrieverCohereRerank,
}

var SupportedRetrievers = map[RetrieverID]bool{
	RetrieverNaive:        true,
	RetrieverBM25:         true,
	RetrieverEnsemble:     true,
	RetrieverCohereRerank: true,
}

// AllowedRetrievers returns the allow-list in its canonical order.
func AllowedRetrievers() []RetrieverID {
	out := make([]RetrieverID, len(allowedRetrievers))
	copy(out, allowedRetrievers)
	return out
}

// NormalizeRetrieverName maps a free-form label such as "Cohere Rerank" to
// its canonical form "cohere_rerank". Only lowercasing and space replacement
// are applied, so the result is stable under repeated application.
func NormalizeRetrieverName(raw string) string {
	return strings.ReplaceAll(strings.ToLower(raw), " ", "_")
}

// ParseRetriever checks an identifier against the allow-list. The value is
// matched as given; callers normalize free-form labels first.
func ParseRetriever(raw string) (RetrieverID, error) {
	id := RetrieverID(raw)
	if !SupportedRetrievers[id] {
		return "", apperr.NewValidation(fmt.Sprintf(
			"invalid retriever %q: must be one of: %s", raw, joinRetrievers(allowedRetrievers)))
	}
	return id, nil
}

// ValidateRetriever is the fail-fast guard every record source runs before I/O.
func ValidateRetriever(id RetrieverID) error {
	_, err := ParseRetriever(string(id))
	return err
}

func joinRetrievers(ids []RetrieverID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
