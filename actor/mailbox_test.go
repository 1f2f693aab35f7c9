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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomlabs/loom/errors"
)

func makeMessage(payload any) *ReceiveContext {
	return &ReceiveContext{message: payload}
}

func TestBoundedMailbox(t *testing.T) {
	t.Run("rejects when full", func(t *testing.T) {
		mailbox := NewBoundedMailbox(2)
		require.NoError(t, mailbox.Enqueue(makeMessage(1)))
		require.NoError(t, mailbox.Enqueue(makeMessage(2)))
		err := mailbox.Enqueue(makeMessage(3))
		require.ErrorIs(t, err, errors.ErrMailboxFull)
		assert.EqualValues(t, 2, mailbox.Len())
	})
	t.Run("accepts again after a dequeue", func(t *testing.T) {
		mailbox := NewBoundedMailbox(2)
		require.NoError(t, mailbox.Enqueue(makeMessage(1)))
		require.NoError(t, mailbox.Enqueue(makeMessage(2)))
		require.Equal(t, 1, mailbox.Dequeue().Message())
		require.NoError(t, mailbox.Enqueue(makeMessage(3)))
		require.Equal(t, 2, mailbox.Dequeue().Message())
		require.Equal(t, 3, mailbox.Dequeue().Message())
		assert.True(t, mailbox.IsEmpty())
		assert.Nil(t, mailbox.Dequeue())
	})
	t.Run("fails after dispose", func(t *testing.T) {
		mailbox := NewBoundedMailbox(2)
		mailbox.Dispose()
		require.ErrorIs(t, mailbox.Enqueue(makeMessage(1)), errors.ErrMailboxClosed)
	})
	t.Run("preserves fifo order across producers", func(t *testing.T) {
		mailbox := NewBoundedMailbox(1000)
		var wg sync.WaitGroup
		for p := 0; p < 10; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					require.NoError(t, mailbox.Enqueue(makeMessage(p*100+i)))
				}
			}(p)
		}
		wg.Wait()
		require.EqualValues(t, 1000, mailbox.Len())

		// per-producer order must hold in the interleaving
		lastSeen := make(map[int]int)
		for msg := mailbox.Dequeue(); msg != nil; msg = mailbox.Dequeue() {
			value := msg.Message().(int)
			producer := value / 100
			if last, ok := lastSeen[producer]; ok {
				assert.Greater(t, value, last)
			}
			lastSeen[producer] = value
		}
	})
}

func TestBlockingMailbox(t *testing.T) {
	t.Run("blocks then succeeds when space frees up", func(t *testing.T) {
		mailbox := NewBlockingMailbox(1, time.Second)
		require.NoError(t, mailbox.Enqueue(makeMessage(1)))

		done := make(chan error, 1)
		go func() {
			done <- mailbox.Enqueue(makeMessage(2))
		}()

		time.Sleep(50 * time.Millisecond)
		require.Equal(t, 1, mailbox.Dequeue().Message())
		require.NoError(t, <-done)
		require.Equal(t, 2, mailbox.Dequeue().Message())
	})
	t.Run("bounded wait prevents deadlock", func(t *testing.T) {
		mailbox := NewBlockingMailbox(1, 50*time.Millisecond)
		require.NoError(t, mailbox.Enqueue(makeMessage(1)))
		start := time.Now()
		err := mailbox.Enqueue(makeMessage(2))
		require.ErrorIs(t, err, errors.ErrMailboxFull)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})
	t.Run("fails after dispose", func(t *testing.T) {
		mailbox := NewBlockingMailbox(1, time.Second)
		mailbox.Dispose()
		require.ErrorIs(t, mailbox.Enqueue(makeMessage(1)), errors.ErrMailboxClosed)
	})
}

func TestDroppingMailbox(t *testing.T) {
	t.Run("evicts the oldest when full", func(t *testing.T) {
		mailbox := NewDroppingMailbox(2)
		require.NoError(t, mailbox.Enqueue(makeMessage(1)))
		require.NoError(t, mailbox.Enqueue(makeMessage(2)))
		require.NoError(t, mailbox.Enqueue(makeMessage(3)))
		assert.EqualValues(t, 1, mailbox.Dropped())
		require.Equal(t, 2, mailbox.Dequeue().Message())
		require.Equal(t, 3, mailbox.Dequeue().Message())
		assert.Nil(t, mailbox.Dequeue())
	})
	t.Run("wraps around the ring", func(t *testing.T) {
		mailbox := NewDroppingMailbox(3)
		for i := 1; i <= 7; i++ {
			require.NoError(t, mailbox.Enqueue(makeMessage(i)))
		}
		assert.EqualValues(t, 4, mailbox.Dropped())
		require.Equal(t, 5, mailbox.Dequeue().Message())
		require.Equal(t, 6, mailbox.Dequeue().Message())
		require.Equal(t, 7, mailbox.Dequeue().Message())
	})
	t.Run("fails after dispose", func(t *testing.T) {
		mailbox := NewDroppingMailbox(2)
		mailbox.Dispose()
		require.ErrorIs(t, mailbox.Enqueue(makeMessage(1)), errors.ErrMailboxClosed)
	})
}

func TestUnboundedMailbox(t *testing.T) {
	mailbox := NewUnboundedMailbox()
	for i := 0; i < 10_000; i++ {
		require.NoError(t, mailbox.Enqueue(makeMessage(i)))
	}
	require.EqualValues(t, 10_000, mailbox.Len())
	for i := 0; i < 10_000; i++ {
		require.Equal(t, i, mailbox.Dequeue().Message())
	}
	assert.True(t, mailbox.IsEmpty())
}
