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

package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	t.Run("mints a unique id per spawn", func(t *testing.T) {
		first := New("worker", "sys")
		second := New("worker", "sys")
		assert.NotEqual(t, first.ID(), second.ID())
		assert.False(t, first.Equals(second))
		assert.True(t, first.Equals(first))
	})

	t.Run("renders the path root-first", func(t *testing.T) {
		root := New("root", "sys")
		child := NewWithParent("child", root)
		grandchild := NewWithParent("leaf", child)
		assert.Equal(t, "loom://sys/root/child/leaf", grandchild.String())
		assert.Equal(t, "sys", grandchild.System())
		assert.True(t, child.Equals(grandchild.Parent()))
	})

	t.Run("validates names", func(t *testing.T) {
		require.NoError(t, New("good-name_2", "sys").Validate())
		require.ErrorIs(t, New("-bad", "sys").Validate(), ErrInvalidName)
		require.ErrorIs(t, New("", "sys").Validate(), ErrInvalidName)
		require.ErrorIs(t, New("ok", "bad system").Validate(), ErrInvalidName)
	})

	t.Run("no-sender compares equal to itself only by identity", func(t *testing.T) {
		assert.True(t, NoSender().Equals(NoSender()))
		assert.False(t, NoSender().Equals(New("x", "sys")))
	})
}
