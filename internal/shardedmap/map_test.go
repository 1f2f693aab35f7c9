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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("set get delete", func(t *testing.T) {
		m := New[int]()
		_, ok := m.Get("missing")
		assert.False(t, ok)

		m.Set("one", 1)
		m.Set("two", 2)
		value, ok := m.Get("one")
		require.True(t, ok)
		assert.Equal(t, 1, value)
		assert.Equal(t, 2, m.Len())

		m.Set("one", 11)
		value, _ = m.Get("one")
		assert.Equal(t, 11, value)
		assert.Equal(t, 2, m.Len())

		m.Delete("one")
		_, ok = m.Get("one")
		assert.False(t, ok)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("set if absent admits exactly one writer per key", func(t *testing.T) {
		m := New[int]()
		require.True(t, m.SetIfAbsent("slot", 1))
		assert.False(t, m.SetIfAbsent("slot", 2))
		value, ok := m.Get("slot")
		require.True(t, ok)
		assert.Equal(t, 1, value)

		var wg sync.WaitGroup
		wins := make(chan int, 8)
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				if m.SetIfAbsent("contested", id) {
					wins <- id
				}
			}(w)
		}
		wg.Wait()
		close(wins)
		assert.Len(t, wins, 1)
	})

	t.Run("range visits every entry and honors early stop", func(t *testing.T) {
		m := New[int]()
		for i := 0; i < 50; i++ {
			m.Set(fmt.Sprintf("key-%d", i), i)
		}

		visited := make(map[string]int)
		m.Range(func(key string, value int) bool {
			visited[key] = value
			return true
		})
		assert.Len(t, visited, 50)

		count := 0
		m.Range(func(string, int) bool {
			count++
			return false
		})
		assert.Equal(t, 1, count)
	})

	t.Run("reset empties the map", func(t *testing.T) {
		m := New[string]()
		m.Set("a", "A")
		m.Set("b", "B")
		m.Reset()
		assert.Zero(t, m.Len())
		_, ok := m.Get("a")
		assert.False(t, ok)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		m := New[int]()
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(base int) {
				defer wg.Done()
				for i := 0; i < 500; i++ {
					m.Set(fmt.Sprintf("w%d-%d", base, i), i)
				}
			}(w)
		}
		wg.Wait()
		assert.Equal(t, 8*500, m.Len())
	})
}
