/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Loom Labs
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package future provides a single-assignment container for the result of an
// asynchronous computation. The runtime uses it to offload blocking work
// from actor handlers so a handler never retains a scheduler worker across
// an unbounded blocking operation.
package future

import (
	"context"
	"sync"
)

// Future represents a value which may or may not currently be available,
// but will be available at some point, or an error if that value could not
// be produced.
type Future interface {
	// Await blocks until the Future is completed or context is canceled and
	// returns either a result or an error.
	Await(context.Context) (any, error)

	// complete completes the Future with either a value or an error.
	// It is used by [completable] internally.
	complete(any, error)
}

// New creates a Future that runs the given task in its own goroutine and
// completes with the task's result or error.
func New(task func() (any, error)) Future {
	comp := newCompletable()
	go func() {
		result, err := task()
		if err != nil {
			comp.Failure(err)
			return
		}
		comp.Success(result)
	}()
	return comp.Future()
}

// future implements the Future interface.
type future struct {
	acceptOnce   sync.Once
	completeOnce sync.Once
	done         chan any
	value        any
	err          error
}

var _ Future = (*future)(nil)

func newFuture() Future {
	return &future{
		done: make(chan any, 1),
	}
}

// wait blocks once, until the Future result is available or until the
// context is canceled.
func (f *future) wait(ctx context.Context) {
	f.acceptOnce.Do(func() {
		select {
		case result := <-f.done:
			f.setResult(result)
		case <-ctx.Done():
			f.setResult(ctx.Err())
		}
	})
}

func (f *future) setResult(result any) {
	switch value := result.(type) {
	case error:
		f.err = value
	default:
		f.value = value
	}
}

// Await blocks until the Future is completed or context is canceled and
// returns either a result or an error.
func (f *future) Await(ctx context.Context) (any, error) {
	f.wait(ctx)
	return f.value, f.err
}

func (f *future) complete(value any, err error) {
	f.completeOnce.Do(func() {
		if err != nil {
			f.done <- err
			return
		}
		f.done <- value
	})
}

// completable is a writable, single-assignment container which completes a
// Future.
type completable interface {
	// Success completes the underlying Future with a value.
	Success(any)
	// Failure fails the underlying Future with an error.
	Failure(error)
	// Future returns the underlying Future.
	Future() Future
}

type completer struct {
	once   sync.Once
	future Future
}

var _ completable = (*completer)(nil)

func newCompletable() completable {
	return &completer{
		future: newFuture(),
	}
}

func (c *completer) Success(value any) {
	c.once.Do(func() {
		c.future.complete(value, nil)
	})
}

func (c *completer) Failure(err error) {
	c.once.Do(func() {
		c.future.complete(nil, err)
	})
}

func (c *completer) Future() Future {
	return c.future
}
