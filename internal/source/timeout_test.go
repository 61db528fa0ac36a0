package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
)

func blockUntilDone(ctx context.Context) (*Batch, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	t.Run("returns result within deadline", func(t *testing.T) {
		batch, err := WithTimeout(t.Context(), time.Second, "fetch", func(context.Context) (*Batch, error) {
			return &Batch{Total: 3}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, batch.Total)
	})

	t.Run("deadline yields timeout error", func(t *testing.T) {
		_, err := WithTimeout(t.Context(), 20*time.Millisecond, "fetch rows", blockUntilDone)

		var timeoutErr *apperr.TimeoutError
		require.True(t, errors.As(err, &timeoutErr))
		assert.Equal(t, "fetch rows", timeoutErr.Op)
		assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("early deadline error is a timeout", func(t *testing.T) {
		_, err := WithTimeout(t.Context(), time.Minute, "fetch rows", func(context.Context) (*Batch, error) {
			return nil, fmt.Errorf("rate limiter: %w", context.DeadlineExceeded)
		})

		var timeoutErr *apperr.TimeoutError
		require.True(t, errors.As(err, &timeoutErr))
		assert.Equal(t, time.Minute, timeoutErr.Timeout)
	})

	t.Run("caller cancellation is not a timeout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := WithTimeout(ctx, time.Second, "fetch", blockUntilDone)

		var timeoutErr *apperr.TimeoutError
		assert.False(t, errors.As(err, &timeoutErr))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := WithTimeout(t.Context(), time.Second, "fetch", func(context.Context) (*Batch, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("zero duration disables the deadline", func(t *testing.T) {
		_, err := WithTimeout(t.Context(), 0, "fetch", func(ctx context.Context) (*Batch, error) {
			_, hasDeadline := ctx.Deadline()
			assert.False(t, hasDeadline)
			return &Batch{}, nil
		})
		require.NoError(t, err)
	})
}
