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
	"github.com/loomlabs/loom/internal/queue"
)

// UnboundedMailbox is a lock-free unbounded mailbox. It is the mailbox of
// the system actors, which must never reject a lifecycle message.
type UnboundedMailbox struct {
	queue *queue.MpscQueue[*ReceiveContext]
}

var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates an unbounded mailbox.
func NewUnboundedMailbox() *UnboundedMailbox {
	return &UnboundedMailbox{
		queue: queue.NewMpscQueue[*ReceiveContext](),
	}
}

// Enqueue adds a message. It never fails.
func (m *UnboundedMailbox) Enqueue(msg *ReceiveContext) error {
	m.queue.Push(msg)
	return nil
}

// Dequeue removes and returns the oldest message or nil when empty.
func (m *UnboundedMailbox) Dequeue() *ReceiveContext {
	msg, ok := m.queue.Pop()
	if !ok {
		return nil
	}
	return msg
}

// IsEmpty reports whether the mailbox is empty.
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.queue.IsEmpty()
}

// Len returns the number of pending messages.
func (m *UnboundedMailbox) Len() int64 {
	return m.queue.Len()
}

// Dispose is a no-op for the unbounded mailbox.
func (m *UnboundedMailbox) Dispose() {}
