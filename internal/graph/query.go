package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

// SubmitQuery creates a thread unless one is reused, runs the graph and
// shapes the final state for the query console.
func (c *Client) SubmitQuery(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperr.NewValidation("question is required")
	}

	strategy := domain.DefaultStrategy
	if req.Retriever != "" {
		id, err := domain.ParseRetriever(req.Retriever)
		if err != nil {
			return nil, err
		}
		strategy = id
	}

	threadID := req.ThreadID
	if threadID != "" {
		if _, err := uuid.Parse(threadID); err != nil {
			return nil, apperr.NewValidationWrap("invalid thread_id", err)
		}
	} else {
		thread, err := c.CreateThread(ctx, map[string]any{"strategy": string(strategy)})
		if err != nil {
			return nil, err
		}
		threadID = thread.ThreadID
	}

	result, err := c.InvokeGraph(ctx, threadID, question, 0)
	if err != nil {
		return nil, err
	}

	contexts := result.Context
	if contexts == nil {
		contexts = []domain.Document{}
	}

	return &domain.QueryResponse{
		Answer:    result.Response,
		Contexts:  contexts,
		Strategy:  string(strategy),
		Manifests: ExtractProvenance(contexts),
		ThreadID:  threadID,
	}, nil
}

// ExtractProvenance collects metadata.file_path and metadata.source values,
// deduplicated in first-seen order. Documents without them are skipped.
func ExtractProvenance(docs []domain.Document) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, doc := range docs {
		for _, key := range []string{"file_path", "source"} {
			v, ok := doc.Metadata[key].(string)
			if !ok || v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
