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
	"sync"

	"go.uber.org/atomic"

	"github.com/loomlabs/loom/errors"
)

// DroppingMailbox is a fixed-capacity mailbox that evicts its oldest
// message to make room for a new one. Enqueue never blocks and never
// rejects; the eviction count is observable via Dropped.
type DroppingMailbox struct {
	mu       sync.Mutex
	ring     []*ReceiveContext
	head     int
	count    int
	dropped  *atomic.Int64
	disposed bool
}

var _ Mailbox = (*DroppingMailbox)(nil)

// NewDroppingMailbox creates a drop-oldest mailbox with the given capacity.
// A non-positive capacity falls back to DefaultMailboxCapacity.
func NewDroppingMailbox(capacity int) *DroppingMailbox {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	return &DroppingMailbox{
		ring:    make([]*ReceiveContext, capacity),
		dropped: atomic.NewInt64(0),
	}
}

// Enqueue adds a message, evicting the oldest pending message when at
// capacity.
func (m *DroppingMailbox) Enqueue(msg *ReceiveContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return errors.ErrMailboxClosed
	}
	if m.count == len(m.ring) {
		// evict the oldest
		m.ring[m.head] = nil
		m.head = (m.head + 1) % len(m.ring)
		m.count--
		m.dropped.Inc()
	}
	tail := (m.head + m.count) % len(m.ring)
	m.ring[tail] = msg
	m.count++
	return nil
}

// Dequeue removes and returns the oldest message or nil when empty.
func (m *DroppingMailbox) Dequeue() *ReceiveContext {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		return nil
	}
	msg := m.ring[m.head]
	m.ring[m.head] = nil
	m.head = (m.head + 1) % len(m.ring)
	m.count--
	return msg
}

// IsEmpty reports whether the mailbox is empty.
func (m *DroppingMailbox) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count == 0
}

// Len returns the number of pending messages.
func (m *DroppingMailbox) Len() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(m.count)
}

// Dropped returns the number of messages evicted since creation.
func (m *DroppingMailbox) Dropped() int64 {
	return m.dropped.Load()
}

// Dispose marks the mailbox closed and releases pending messages.
func (m *DroppingMailbox) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
	m.ring = make([]*ReceiveContext, len(m.ring))
	m.head = 0
	m.count = 0
}
