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

// Package errors defines the error taxonomy of the runtime. Failures are
// contained at the lowest level that has a policy for them; these sentinels
// are how callers distinguish the recoverable cases.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidActorSystemName is returned when the actor system name contains
	// invalid characters. A valid name must consist of only alphanumeric
	// characters with optional non-leading hyphens or underscores.
	ErrInvalidActorSystemName = errors.New("invalid ActorSystem name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrNameRequired is returned when an actor system name is required but not provided.
	ErrNameRequired = errors.New("actor system name is required")

	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrMailboxFull is returned when a message cannot be enqueued because the
	// target mailbox reached its capacity. The caller decides whether to retry
	// or drop the message.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrMailboxClosed is returned when enqueueing into a disposed mailbox.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrRequestTimeout indicates that an Ask message timed out while waiting
	// for a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrActorNotFound indicates that the specified actor could not be found
	// in the system registry.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorAlreadyExists is returned when spawning an actor under a name
	// that is already registered.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrReservedName is returned when attempting to register an actor with a
	// reserved name.
	ErrReservedName = errors.New("actor name is reserved")

	// ErrInitFailure is returned when the actor's PreStart hook fails during
	// initialization.
	ErrInitFailure = errors.New("preStart failed")

	// ErrActorSystemNotStarted indicates that the actor system has not been
	// started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted is returned when starting a running system.
	ErrActorSystemAlreadyStarted = errors.New("actor system is already running")

	// ErrSystemShuttingDown is returned when a user message is sent while the
	// system-wide shutdown is in progress.
	ErrSystemShuttingDown = errors.New("actor system is shutting down")

	// ErrRestartBudgetExceeded indicates the actor exhausted its restart
	// window and was stopped.
	ErrRestartBudgetExceeded = errors.New("restart budget exceeded")

	// ErrPeerNotRunning is returned by a tunnel endpoint swap when the
	// replacement endpoint's actor is not in the Running state. The tunnel is
	// left wired to the old endpoint.
	ErrPeerNotRunning = errors.New("replacement endpoint is not running")

	// ErrTunnelGone is returned by a tunnel endpoint swap when the tunnel was
	// concurrently torn down by either endpoint's termination.
	ErrTunnelGone = errors.New("tunnel has been torn down")

	// ErrEndpointNotLinked is returned when the endpoint given to a swap is
	// not one of the tunnel's current endpoints.
	ErrEndpointNotLinked = errors.New("endpoint is not part of the tunnel")
)

// PanicError wraps the value recovered from a panicking message handler so
// supervision can treat it as a regular failure reason.
type PanicError struct {
	err error
}

// NewPanicError creates a PanicError from the given cause.
func NewPanicError(err error) *PanicError {
	return &PanicError{err: err}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

// Unwrap returns the underlying cause.
func (e *PanicError) Unwrap() error {
	return e.err
}
