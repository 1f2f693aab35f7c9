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

package queue

import (
	"sync/atomic"
)

// mpscNode is a single link in the queue.
type mpscNode[T any] struct {
	next  atomic.Pointer[mpscNode[T]]
	value T
}

// MpscQueue is an unbounded Multi-Producer-Single-Consumer queue.
// Any number of goroutines may Push concurrently; exactly one goroutine
// must Pop. FIFO ordering is preserved across all producers.
//
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type MpscQueue[T any] struct {
	head   atomic.Pointer[mpscNode[T]] // producers only
	tail   *mpscNode[T]                // consumer only
	length atomic.Int64
}

// NewMpscQueue creates an instance of MpscQueue.
func NewMpscQueue[T any]() *MpscQueue[T] {
	dummy := new(mpscNode[T])
	q := &MpscQueue[T]{tail: dummy}
	q.head.Store(dummy)
	return q
}

// Push appends the given value to the queue. It never blocks and is safe
// for concurrent producers.
func (q *MpscQueue[T]) Push(value T) {
	n := &mpscNode[T]{value: value}
	prev := q.head.Swap(n)
	prev.next.Store(n)
	q.length.Add(1)
}

// Pop removes the value at the queue tail. It returns false when the queue
// is empty. It must be called from a single consumer goroutine only.
func (q *MpscQueue[T]) Pop() (T, bool) {
	var zero T
	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}

	q.tail = next
	value := next.value
	next.value = zero
	q.length.Add(-1)
	return value, true
}

// Len returns the queue length snapshot.
func (q *MpscQueue[T]) Len() int64 {
	return q.length.Load()
}

// IsEmpty returns true when the queue has no pending values.
// Must be called from the consumer goroutine.
func (q *MpscQueue[T]) IsEmpty() bool {
	return q.tail.next.Load() == nil
}
