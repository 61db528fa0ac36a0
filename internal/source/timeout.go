package source

import (
	"context"
	"errors"
	"time"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
)

// WithTimeout runs fn under a deadline of d. When the deadline, and not the
// caller, ends the call the error is reported as *apperr.TimeoutError so it
// can be told apart from transport failures. A non-positive d disables it.
func WithTimeout(ctx context.Context, d time.Duration, op string, fn func(ctx context.Context) (*Batch, error)) (*Batch, error) {
	if d <= 0 {
		return fn(ctx)
	}

	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	batch, err := fn(tctx)
	if err == nil {
		return batch, nil
	}
	// fn may give up before the deadline passes when it knows it cannot finish
	// in time, reporting context.DeadlineExceeded itself.
	if ctx.Err() == nil && (errors.Is(tctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)) {
		return nil, apperr.NewTimeout(op, d, err)
	}
	return nil, err
}
