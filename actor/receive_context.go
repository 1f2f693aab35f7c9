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
	"time"

	"github.com/loomlabs/loom/future"
	"github.com/loomlabs/loom/log"
)

// ReceiveContext carries a single message through an actor's Receive
// handler. It exposes the message, the participants, and the operations the
// handler may perform while processing: replying, reporting failure,
// switching behavior, spawning children, and offloading blocking work.
//
// A ReceiveContext is pooled. It must not be retained after Receive
// returns.
type ReceiveContext struct {
	ctx         context.Context
	message     any
	sender      *PID
	self        *PID
	response    chan any
	synchronous bool
	err         error
	stopped     bool
}

// build populates a pooled context for a delivery.
func (rctx *ReceiveContext) build(ctx context.Context, from, to *PID, message any, synchronous bool) *ReceiveContext {
	rctx.ctx = ctx
	rctx.message = message
	rctx.sender = from
	rctx.self = to
	rctx.synchronous = synchronous
	if synchronous {
		rctx.response = getResponseChan()
	}
	return rctx
}

func (rctx *ReceiveContext) reset() {
	rctx.ctx = nil
	rctx.message = nil
	rctx.sender = nil
	rctx.self = nil
	rctx.response = nil
	rctx.synchronous = false
	rctx.err = nil
	rctx.stopped = false
}

// Context returns the go context attached to the delivery.
func (rctx *ReceiveContext) Context() context.Context {
	if rctx.ctx == nil {
		return context.Background()
	}
	return rctx.ctx
}

// Message returns the message being processed.
func (rctx *ReceiveContext) Message() any {
	return rctx.message
}

// Sender returns the PID that sent the message. For messages sent from
// outside any actor it returns the system's NoSender PID.
func (rctx *ReceiveContext) Sender() *PID {
	return rctx.sender
}

// Self returns the PID of the actor processing the message.
func (rctx *ReceiveContext) Self() *PID {
	return rctx.self
}

// Logger returns the actor's logger.
func (rctx *ReceiveContext) Logger() log.Logger {
	return rctx.self.Logger()
}

// Response sends a reply to an Ask. Calling it for a Tell delivery is a
// no-op apart from a log notice.
func (rctx *ReceiveContext) Response(resp any) {
	if !rctx.synchronous || rctx.response == nil {
		rctx.self.Logger().Warnf("actor=(%s) replied to a fire-and-forget message", rctx.self.Name())
		return
	}
	select {
	case rctx.response <- resp:
	default:
	}
}

// Err reports a recoverable failure to supervision. The cell transitions to
// Faulted after the handler returns and its policy decides restart or stop.
func (rctx *ReceiveContext) Err(err error) {
	rctx.err = err
}

// Stop requests self-termination once the current message completes.
func (rctx *ReceiveContext) Stop() {
	rctx.stopped = true
}

// Become replaces the actor's current behavior with the given one.
func (rctx *ReceiveContext) Become(behavior Behavior) {
	rctx.self.behaviors.replace(behavior)
}

// BecomeStacked makes the given behavior current while keeping the previous
// one underneath for UnBecomeStacked.
func (rctx *ReceiveContext) BecomeStacked(behavior Behavior) {
	rctx.self.behaviors.push(behavior)
}

// UnBecomeStacked reverts to the behavior active before the last
// BecomeStacked.
func (rctx *ReceiveContext) UnBecomeStacked() {
	rctx.self.behaviors.pop()
}

// UnBecome resets the actor to its default Receive behavior.
func (rctx *ReceiveContext) UnBecome() {
	rctx.self.behaviors.reset(rctx.self.defaultBehavior())
}

// Tell sends a fire-and-forget message to the given actor with Self as
// sender. Delivery failures land in the deadletters stream.
func (rctx *ReceiveContext) Tell(to *PID, message any) {
	if err := rctx.self.Tell(rctx.Context(), to, message); err != nil {
		rctx.self.Logger().Warnf("actor=(%s) failed to tell (%s): %v", rctx.self.Name(), to.Name(), err)
	}
}

// Ask sends a request to the given actor and blocks for the reply up to the
// timeout. Blocking in a handler retains a scheduler worker; prefer PipeTo
// when the wait may be long.
func (rctx *ReceiveContext) Ask(to *PID, message any, timeout time.Duration) (any, error) {
	return rctx.self.Ask(rctx.Context(), to, message, timeout)
}

// Spawn creates a child of the current actor.
func (rctx *ReceiveContext) Spawn(name string, factory Factory, opts ...SpawnOption) (*PID, error) {
	return rctx.self.SpawnChild(rctx.Context(), name, factory, opts...)
}

// Watch registers interest in the termination of the given actor. A
// Terminated message is delivered when it stops.
func (rctx *ReceiveContext) Watch(cid *PID) {
	rctx.self.Watch(cid)
}

// UnWatch cancels a prior Watch.
func (rctx *ReceiveContext) UnWatch(cid *PID) {
	rctx.self.UnWatch(cid)
}

// PipeTo runs the task off the scheduler and delivers its result to the
// given actor as an ordinary message. On task failure the error is wrapped
// in a deadletter. The current handler returns immediately.
func (rctx *ReceiveContext) PipeTo(to *PID, task func() (any, error)) {
	self := rctx.self
	ctx := context.WithoutCancel(rctx.Context())
	f := future.New(task)
	go func() {
		result, err := f.Await(ctx)
		if err != nil {
			self.system.deadletter(self, to, nil, err.Error())
			return
		}
		if err := self.Tell(ctx, to, result); err != nil {
			self.Logger().Warnf("actor=(%s) failed to pipe result to (%s): %v", self.Name(), to.Name(), err)
		}
	}()
}

// getError returns the failure reported by the handler, if any.
func (rctx *ReceiveContext) getError() error {
	return rctx.err
}

// stopRequested reports whether the handler asked for self-termination.
func (rctx *ReceiveContext) stopRequested() bool {
	return rctx.stopped
}
