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

package collection

import "sync"

// List is a slice that can be safely shared between goroutines.
type List[T any] struct {
	mu   sync.RWMutex
	data []T
}

// NewList creates a thread-safe list.
func NewList[T any]() *List[T] {
	return &List[T]{data: []T{}}
}

// Append adds an item at the end of the list.
func (l *List[T]) Append(item T) {
	l.mu.Lock()
	l.data = append(l.data, item)
	l.mu.Unlock()
}

// AppendMany adds the given items at the end of the list.
func (l *List[T]) AppendMany(items ...T) {
	l.mu.Lock()
	l.data = append(l.data, items...)
	l.mu.Unlock()
}

// Items returns a snapshot copy of the list content.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	out := make([]T, len(l.data))
	copy(out, l.data)
	l.mu.RUnlock()
	return out
}

// Delete removes the item at the given index. Out-of-range indexes are
// ignored.
func (l *List[T]) Delete(index int) {
	l.mu.Lock()
	if index >= 0 && index < len(l.data) {
		l.data = append(l.data[:index], l.data[index+1:]...)
	}
	l.mu.Unlock()
}

// Len returns the number of items in the list.
func (l *List[T]) Len() int {
	l.mu.RLock()
	n := len(l.data)
	l.mu.RUnlock()
	return n
}

// Reset empties the list while keeping the allocated capacity.
func (l *List[T]) Reset() {
	l.mu.Lock()
	l.data = l.data[:0]
	l.mu.Unlock()
}
