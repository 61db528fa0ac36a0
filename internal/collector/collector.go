package collector

import "context"

// Result carries either one collected item or the error that interrupted
// collection of a single stream.
type Result[T any] struct {
	Item T
	Err  error
}

// Collector streams items on the returned channel and closes it once every
// underlying stream is exhausted or ctx is done.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}

// Drain consumes ch to completion, returning all items and the first error.
func Drain[T any](ch <-chan Result[T]) ([]T, error) {
	var (
		items    []T
		firstErr error
	)
	for res := range ch {
		if res.Err != nil {
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		items = append(items, res.Item)
	}
	return items, firstErr
}
