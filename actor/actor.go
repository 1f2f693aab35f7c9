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

import (
	"context"
)

// Actor defines the core interface for an actor in the runtime.
//
// Actors are lightweight, isolated units of computation that communicate
// exclusively via message passing. Each actor has its own mailbox and
// processes messages one at a time, which makes its state safe without
// explicit synchronization.
//
// State must be initialized in PreStart, never in the constructor: when a
// supervised cell is restarted the runtime builds a brand-new instance from
// the spawn Factory and runs PreStart again, guaranteeing a clean slate.
type Actor interface {
	// PreStart is invoked once before the actor begins processing messages
	// and again after every supervised restart. Returning an error fails the
	// (re)start.
	PreStart(ctx context.Context) error

	// Receive handles a single message delivered to the actor's mailbox.
	// It is never invoked concurrently for the same actor instance.
	//
	// The handler reports its outcome through the context:
	//   - return normally to continue processing,
	//   - call ctx.Err to report a recoverable failure to supervision,
	//   - call ctx.Stop to request self-termination,
	//   - a panic is treated like ctx.Err with the recovered reason.
	//
	// Long-running or blocking operations must be offloaded with
	// ctx.PipeTo so the handler does not retain a scheduler worker.
	Receive(ctx *ReceiveContext)

	// PostStop is invoked after the actor has processed its final message
	// and is about to terminate. Use it to release owned resources.
	PostStop(ctx context.Context) error
}

// Factory builds a fresh actor instance. Spawn takes a factory rather than
// an instance so a restart reinitializes the actor from scratch instead of
// resuming the failed instance.
type Factory func() Actor

// Behavior is a single message-handling function. Actors can switch
// behavior at runtime with ReceiveContext.Become and friends.
type Behavior func(ctx *ReceiveContext)
