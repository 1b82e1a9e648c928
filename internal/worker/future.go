package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
)

// Future is the result of an asynchronous operation. It resolves exactly once.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that is already complete.
func Resolved[T any](v T, err error) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v, err)
	return f
}

// Resolve completes the future. Later calls are ignored.
func (f *Future[T]) Resolve(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx ends. Cancelling ctx stops
// the wait, not the operation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Get blocks until the future resolves.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.val, f.err
}

type funcJob[T any] struct {
	name   string
	ctx    context.Context
	fn     func(context.Context) (T, error)
	future *Future[T]
}

func (j *funcJob[T]) Name() string { return j.name }

func (j *funcJob[T]) Run(workerCtx context.Context) (err error) {
	var v T
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewStorageError(j.name, fmt.Errorf("panic: %v", r))
		}
		j.future.Resolve(v, err)
	}()

	ctx := logger.NewContext(context.WithoutCancel(j.ctx), logger.FromContext(workerCtx))
	v, err = j.fn(ctx)
	return err
}

// Go runs fn on the pool and returns its future. The caller's context supplies
// values only; its cancellation does not abort fn. When the pool is stopped
// the future fails immediately with a StorageError.
func Go[T any](ctx context.Context, p *Pool, name string, fn func(context.Context) (T, error)) *Future[T] {
	f := NewFuture[T]()
	job := &funcJob[T]{name: name, ctx: ctx, fn: fn, future: f}
	if err := p.Submit(job); err != nil {
		var zero T
		f.Resolve(zero, errors.WithOp(name, errors.NewStorageError("submit", err)))
	}
	return f
}
