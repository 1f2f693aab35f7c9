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

	"go.uber.org/atomic"

	"github.com/loomlabs/loom/errors"
	"github.com/loomlabs/loom/internal/timer"
)

// BlockingMailbox is a fixed-capacity mailbox whose Enqueue blocks the
// sender while the mailbox is full, up to a bounded wait. The bounded wait
// prevents the self-send deadlock where an actor fills its own mailbox and
// then blocks its scheduler worker forever: when the wait elapses the send
// fails with ErrMailboxFull instead.
type BlockingMailbox struct {
	messages chan *ReceiveContext
	timeout  time.Duration
	timers   *timer.Pool
	disposed *atomic.Bool
}

var _ Mailbox = (*BlockingMailbox)(nil)

// NewBlockingMailbox creates a blocking mailbox with the given capacity
// and maximum enqueue wait. Non-positive values fall back to
// DefaultMailboxCapacity and DefaultEnqueueTimeout.
func NewBlockingMailbox(capacity int, timeout time.Duration) *BlockingMailbox {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	if timeout <= 0 {
		timeout = DefaultEnqueueTimeout
	}
	return &BlockingMailbox{
		messages: make(chan *ReceiveContext, capacity),
		timeout:  timeout,
		timers:   timer.NewPool(),
		disposed: atomic.NewBool(false),
	}
}

// Enqueue adds a message, waiting up to the configured timeout when the
// mailbox is full.
func (m *BlockingMailbox) Enqueue(msg *ReceiveContext) error {
	if m.disposed.Load() {
		return errors.ErrMailboxClosed
	}
	select {
	case m.messages <- msg:
		return nil
	default:
	}

	t := m.timers.Get(m.timeout)
	defer m.timers.Put(t)

	select {
	case m.messages <- msg:
		return nil
	case <-t.C:
		return errors.ErrMailboxFull
	}
}

// Dequeue removes and returns the oldest message or nil when empty.
func (m *BlockingMailbox) Dequeue() *ReceiveContext {
	select {
	case msg := <-m.messages:
		return msg
	default:
		return nil
	}
}

// IsEmpty reports whether the mailbox is empty.
func (m *BlockingMailbox) IsEmpty() bool {
	return len(m.messages) == 0
}

// Len returns the number of pending messages.
func (m *BlockingMailbox) Len() int64 {
	return int64(len(m.messages))
}

// Dispose marks the mailbox closed. The channel is left open so that
// senders blocked in Enqueue drain out through their timeout.
func (m *BlockingMailbox) Dispose() {
	m.disposed.Store(true)
}
