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

// LifecycleState is the state of an actor cell.
//
// The legal transitions form a small machine:
//
//	Starting -> Running -> Stopping -> Stopped
//	Running  -> Faulted -> Restarting -> Running
//	Faulted  -> Stopping (restart budget exhausted or NeverRestart)
//
// Transitions are driven exclusively by the scheduler and supervision; user
// code observes the state but never sets it.
type LifecycleState uint32

const (
	// Starting means the cell is running PreStart and is not yet
	// processing messages.
	Starting LifecycleState = iota
	// Running means the cell accepts and processes messages.
	Running
	// Stopping means the cell no longer accepts new messages and is
	// tearing down.
	Stopping
	// Stopped is terminal. The cell has left the registry.
	Stopped
	// Faulted means a handler failed and supervision is deciding the
	// cell's fate. No messages are processed while faulted.
	Faulted
	// Restarting means supervision is rebuilding the actor instance.
	Restarting
)

func (s LifecycleState) String() string {
	switch s {
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	case Stopped:
		return "Stopped"
	case Faulted:
		return "Faulted"
	case Restarting:
		return "Restarting"
	default:
		return "Unknown"
	}
}
