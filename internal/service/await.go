package service

import (
	"context"
	"time"

	"simplefit/internal/async"
)

// DefaultAwaitTimeout bounds a blocking read when none is configured.
const DefaultAwaitTimeout = 5 * time.Second

// awaitResult runs fn in the background and waits at most timeout for it.
// Errors are translated into the service taxonomy using op, entity and id.
func awaitResult[T any](ctx context.Context, timeout time.Duration, op, entity, id string, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultAwaitTimeout
	}
	v, err := async.Go(ctx, fn).Await(timeout)
	if err != nil {
		var zero T
		return zero, translate(err, op, entity, id)
	}
	return v, nil
}
