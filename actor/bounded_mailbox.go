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
	"github.com/Workiva/go-datastructures/queue"

	"github.com/loomlabs/loom/errors"
)

// BoundedMailbox is a fixed-capacity mailbox that rejects new messages
// when full. Enqueue never blocks.
type BoundedMailbox struct {
	buffer *queue.RingBuffer
}

var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a rejecting mailbox with the given capacity.
// A non-positive capacity falls back to DefaultMailboxCapacity.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	return &BoundedMailbox{
		buffer: queue.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue adds a message. It returns ErrMailboxFull when the mailbox is at
// capacity and ErrMailboxClosed after Dispose.
func (m *BoundedMailbox) Enqueue(msg *ReceiveContext) error {
	ok, err := m.buffer.Offer(msg)
	if err != nil {
		return errors.ErrMailboxClosed
	}
	if !ok {
		return errors.ErrMailboxFull
	}
	return nil
}

// Dequeue removes and returns the oldest message or nil when empty.
func (m *BoundedMailbox) Dequeue() *ReceiveContext {
	if m.buffer.Len() > 0 {
		msg, err := m.buffer.Get()
		if err != nil {
			return nil
		}
		return msg.(*ReceiveContext)
	}
	return nil
}

// IsEmpty reports whether the mailbox is empty.
func (m *BoundedMailbox) IsEmpty() bool {
	return m.buffer.Len() == 0
}

// Len returns the number of pending messages.
func (m *BoundedMailbox) Len() int64 {
	return int64(m.buffer.Len())
}

// Dispose releases the underlying ring buffer.
func (m *BoundedMailbox) Dispose() {
	m.buffer.Dispose()
}
