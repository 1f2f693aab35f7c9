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

package shardedmap

import (
	"sync"

	"github.com/zeebo/xxh3"
)

const shardCount = 32

// Map is a string-keyed concurrent map sharded by xxh3 to keep lock
// contention away from the spawn/stop hot path. The registry of live actors
// is the one structure mutated by many workers at once, so it gets its own
// synchronization independent of actor-state protection.
type Map[V any] struct {
	shards [shardCount]shard[V]
}

type shard[V any] struct {
	mu   sync.RWMutex
	data map[string]V
}

// New creates a sharded map.
func New[V any]() *Map[V] {
	m := new(Map[V])
	for i := range m.shards {
		m.shards[i].data = make(map[string]V)
	}
	return m
}

func (m *Map[V]) shardOf(key string) *shard[V] {
	return &m.shards[xxh3.HashString(key)%shardCount]
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.shardOf(key)
	s.mu.RLock()
	value, ok := s.data[key]
	s.mu.RUnlock()
	return value, ok
}

// Set stores the value under key.
func (m *Map[V]) Set(key string, value V) {
	s := m.shardOf(key)
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
}

// SetIfAbsent stores the value under key only when no entry exists yet.
// It reports whether the value was stored. The check and the store happen
// under one shard lock, so two concurrent callers cannot both win.
func (m *Map[V]) SetIfAbsent(key string, value V) bool {
	s := m.shardOf(key)
	s.mu.Lock()
	if _, ok := s.data[key]; ok {
		s.mu.Unlock()
		return false
	}
	s.data[key] = value
	s.mu.Unlock()
	return true
}

// Delete removes the value stored under key.
func (m *Map[V]) Delete(key string) {
	s := m.shardOf(key)
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

// Len returns the total number of entries.
func (m *Map[V]) Len() int {
	total := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		total += len(s.data)
		s.mu.RUnlock()
	}
	return total
}

// Range calls fn for every entry until fn returns false.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		for k, v := range s.data {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Reset removes every entry.
func (m *Map[V]) Reset() {
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		s.data = make(map[string]V)
		s.mu.Unlock()
	}
}
