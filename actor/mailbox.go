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

// Mailbox is the per-actor message queue.
//
// Implementations must support concurrent producers and exactly one
// consumer (the scheduler worker currently running the cell). Messages
// from a given sender are dequeued in the order they were enqueued.
type Mailbox interface {
	// Enqueue adds a message to the mailbox. The returned error reports
	// the overflow policy outcome: ErrMailboxFull when a bounded mailbox
	// rejects or times out, ErrMailboxClosed after Dispose.
	Enqueue(msg *ReceiveContext) error
	// Dequeue removes and returns the oldest message, or nil when the
	// mailbox is empty. Only the single consumer may call it.
	Dequeue() *ReceiveContext
	// IsEmpty reports whether the mailbox has no pending messages.
	IsEmpty() bool
	// Len returns the number of pending messages.
	Len() int64
	// Dispose releases the mailbox resources. Enqueue fails afterwards.
	Dispose()
}
