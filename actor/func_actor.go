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

package actor

import "context"

// FuncActor adapts a plain function into an Actor. It is handy for small
// stateless handlers and in tests.
type FuncActor struct {
	preStart func(ctx context.Context) error
	receive  Behavior
	postStop func(ctx context.Context) error
}

var _ Actor = (*FuncActor)(nil)

// FuncOption customizes a FuncActor.
type FuncOption func(*FuncActor)

// WithPreStart sets the PreStart hook of a FuncActor.
func WithPreStart(fn func(ctx context.Context) error) FuncOption {
	return func(fa *FuncActor) {
		fa.preStart = fn
	}
}

// WithPostStop sets the PostStop hook of a FuncActor.
func WithPostStop(fn func(ctx context.Context) error) FuncOption {
	return func(fa *FuncActor) {
		fa.postStop = fn
	}
}

// NewFuncActor creates a FuncActor from the given receive function.
func NewFuncActor(receive Behavior, opts ...FuncOption) *FuncActor {
	fa := &FuncActor{receive: receive}
	for _, opt := range opts {
		opt(fa)
	}
	return fa
}

// Fn returns a Factory producing FuncActors from the given receive function.
func Fn(receive Behavior, opts ...FuncOption) Factory {
	return func() Actor {
		return NewFuncActor(receive, opts...)
	}
}

// PreStart implements Actor.
func (fa *FuncActor) PreStart(ctx context.Context) error {
	if fa.preStart != nil {
		return fa.preStart(ctx)
	}
	return nil
}

// Receive implements Actor.
func (fa *FuncActor) Receive(ctx *ReceiveContext) {
	fa.receive(ctx)
}

// PostStop implements Actor.
func (fa *FuncActor) PostStop(ctx context.Context) error {
	if fa.postStop != nil {
		return fa.postStop(ctx)
	}
	return nil
}
