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
	"time"

	"github.com/loomlabs/loom/address"
)

// EventsTopic is the eventstream topic carrying lifecycle events.
const EventsTopic = "loom.actors.lifecycle"

// DeadlettersTopic is the eventstream topic carrying undeliverable messages.
const DeadlettersTopic = "loom.actors.deadletters"

// Event is implemented by all lifecycle events published to EventsTopic.
type Event interface {
	// EventAddress returns the address of the actor the event concerns.
	EventAddress() *address.Address
	// Transition returns the lifecycle state the actor moved into.
	Transition() LifecycleState
}

// ActorStarted is published when an actor has completed PreStart and is
// ready to process messages.
type ActorStarted struct {
	Address   *address.Address
	Timestamp time.Time
}

func (e *ActorStarted) EventAddress() *address.Address { return e.Address }
func (e *ActorStarted) Transition() LifecycleState     { return Running }

// ActorFailed is published when a message handler panics or reports an
// error and the cell transitions to Faulted.
type ActorFailed struct {
	Address   *address.Address
	Reason    error
	Message   any
	Timestamp time.Time
}

func (e *ActorFailed) EventAddress() *address.Address { return e.Address }
func (e *ActorFailed) Transition() LifecycleState     { return Faulted }

// ActorRestarted is published after supervision successfully restarted a
// faulted actor with a fresh instance.
type ActorRestarted struct {
	Address   *address.Address
	Timestamp time.Time
}

func (e *ActorRestarted) EventAddress() *address.Address { return e.Address }
func (e *ActorRestarted) Transition() LifecycleState     { return Running }

// ActorStopped is published once an actor has fully terminated and left the
// registry.
type ActorStopped struct {
	Address   *address.Address
	Timestamp time.Time
}

func (e *ActorStopped) EventAddress() *address.Address { return e.Address }
func (e *ActorStopped) Transition() LifecycleState     { return Stopped }

// EscalationRaised is published when an actor exhausted its restart budget
// and its terminal failure was escalated to the parent.
type EscalationRaised struct {
	Address   *address.Address
	Reason    error
	Timestamp time.Time
}

func (e *EscalationRaised) EventAddress() *address.Address { return e.Address }
func (e *EscalationRaised) Transition() LifecycleState     { return Stopped }

// Deadletter is published to DeadlettersTopic when a message could not be
// delivered or was discarded during shutdown.
type Deadletter struct {
	From      *address.Address
	To        *address.Address
	Message   any
	Reason    string
	Timestamp time.Time
}
