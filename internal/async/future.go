// Package async bridges background work to callers that need a bounded wait.
package async

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned by Await when the bound expires before the work does.
var ErrTimeout = errors.New("async: timed out waiting for result")

// State is the tri-state of a Result.
type State int

const (
	Loading State = iota
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is a snapshot of a Future: still loading, succeeded with Value, or failed with Err.
type Result[T any] struct {
	State State
	Value T
	Err   error
}

func (r Result[T]) IsLoading() bool { return r.State == Loading }

// Future is the eventual outcome of one background call.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Go runs fn in a new goroutine and returns its Future.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		v, err := fn(ctx)
		f.Resolve(v, err)
	}()
	return f
}

// Resolved returns an already completed Future.
func Resolved[T any](v T, err error) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v, err)
	return f
}

// Resolve completes the Future. Only the first call has any effect.
func (f *Future[T]) Resolve(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// Done is closed once the Future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future resolves or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}

// Await blocks for at most timeout. It returns ErrTimeout if the work is still
// running; the work itself is not cancelled.
func (f *Future[T]) Await(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-f.done:
		return f.val, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// Poll returns the current Result without blocking.
func (f *Future[T]) Poll() Result[T] {
	select {
	case <-f.done:
		if f.err != nil {
			return Result[T]{State: Error, Err: f.err}
		}
		return Result[T]{State: Success, Value: f.val}
	default:
		return Result[T]{State: Loading}
	}
}
