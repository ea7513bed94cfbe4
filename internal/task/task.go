package task

import (
	"context"
	"errors"
)

// ErrCanceled is returned by Await when the task was canceled before it
// produced a result.
var ErrCanceled = errors.New("task canceled")

// Task is the result of an asynchronous unit of work. It settles exactly
// once with either a value or an error.
type Task[T any] struct {
	done   chan struct{}
	val    T
	err    error
	cancel context.CancelFunc
}

// Go starts fn on its own goroutine and returns a Task for its result.
// The function receives a context derived from ctx; Cancel stops it.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer cancel()
		t.val, t.err = fn(ctx)
		close(t.done)
	}()

	return t
}

// Cancel requests cancellation of the task's work. The task still settles:
// a canceled function is expected to return its context's error.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Await blocks until the task settles or ctx is done, whichever comes
// first. Awaiting a settled task multiple times returns the same result.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Settled reports whether the task has produced its result.
func (t *Task[T]) Settled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// All awaits every task and returns their values in argument order.
// The join is all-or-nothing: on the first failure the remaining tasks are
// canceled, all are still awaited so no goroutine is left running, and the
// first error is returned. The value slice is returned even on failure —
// holding the results of the tasks that did succeed and zero values for
// the rest — so callers can release partially produced resources.
func All[T any](ctx context.Context, tasks ...*Task[T]) ([]T, error) {
	vals := make([]T, len(tasks))
	var firstErr error

	for i, t := range tasks {
		v, err := t.Await(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
				for _, rest := range tasks[i+1:] {
					rest.Cancel()
				}
			}
			continue
		}
		vals[i] = v
	}

	return vals, firstErr
}
