package observability

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
)

// FetchStatus classifies a fetch error into the status label used by
// SourceFetchCounter.
func FetchStatus(err error) string {
	if err == nil {
		return "ok"
	}

	var notFound *apperr.NotFoundError
	var timeout *apperr.TimeoutError
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
