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

package tunnel

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/loomlabs/loom/actor"
	"github.com/loomlabs/loom/errors"
	"github.com/loomlabs/loom/log"
)

const waitFor = 3 * time.Second
const tick = 10 * time.Millisecond

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStream is a controllable endpoint stream: the test feeds the bytes
// the relay will Read and inspects the bytes the endpoint actor Writes.
type fakeStream struct {
	mu        sync.Mutex
	inbox     chan []byte
	written   bytes.Buffer
	gated     bool
	gate      chan struct{}
	entered   chan struct{}
	gateOnce  sync.Once
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		inbox:   make(chan []byte),
		closed:  make(chan struct{}),
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
}

// newGatedStream blocks the first Write until openGate is called.
func newGatedStream() *fakeStream {
	s := newFakeStream()
	s.gated = true
	return s
}

func (s *fakeStream) Read(p []byte) (int, error) {
	select {
	case data := <-s.inbox:
		return copy(p, data), nil
	case <-s.closed:
		return 0, io.EOF
	}
}

func (s *fakeStream) Write(p []byte) (int, error) {
	if s.gated {
		select {
		case s.entered <- struct{}{}:
		default:
		}
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.Write(p)
}

func (s *fakeStream) feed(data []byte) {
	s.inbox <- data
}

func (s *fakeStream) output() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, s.written.Len())
	copy(out, s.written.Bytes())
	return out
}

func (s *fakeStream) openGate() {
	s.gateOnce.Do(func() {
		close(s.gate)
	})
}

func (s *fakeStream) close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

func startSystem(t *testing.T) actor.ActorSystem {
	t.Helper()
	system, err := actor.NewActorSystem("tunnelSys", actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(context.TODO()))
	t.Cleanup(func() {
		if system.Running() {
			require.NoError(t, system.Stop(context.TODO()))
		}
	})
	return system
}

func spawnPair(t *testing.T, system actor.ActorSystem) (*Endpoint, *fakeStream, *Endpoint, *fakeStream) {
	t.Helper()
	ctx := context.TODO()
	streamA := newFakeStream()
	streamB := newFakeStream()
	a, err := SpawnEndpoint(ctx, system, "side-a", streamA)
	require.NoError(t, err)
	b, err := SpawnEndpoint(ctx, system, "side-b", streamB)
	require.NoError(t, err)
	return a, streamA, b, streamB
}

func TestLink(t *testing.T) {
	t.Run("relays both directions in order", func(t *testing.T) {
		system := startSystem(t)
		a, streamA, b, streamB := spawnPair(t, system)

		tun, err := Link(system, a, b)
		require.NoError(t, err)
		defer func() {
			tun.Close()
			streamA.close()
			streamB.close()
		}()

		streamA.feed([]byte{1})
		streamA.feed([]byte{2})
		streamA.feed([]byte{3})
		require.Eventually(t, func() bool {
			return bytes.Equal(streamB.output(), []byte{1, 2, 3})
		}, waitFor, tick)
		assert.EqualValues(t, 3, b.Cursor())

		streamB.feed([]byte{9})
		require.Eventually(t, func() bool {
			return bytes.Equal(streamA.output(), []byte{9})
		}, waitFor, tick)
		assert.EqualValues(t, 1, a.Cursor())
	})

	t.Run("requires running endpoints", func(t *testing.T) {
		system := startSystem(t)
		a, streamA, b, streamB := spawnPair(t, system)
		defer streamA.close()
		defer streamB.close()

		require.NoError(t, b.PID().Shutdown(context.TODO()))
		_, err := Link(system, a, b)
		require.ErrorIs(t, err, errors.ErrPeerNotRunning)
	})

	t.Run("tears down when a current endpoint terminates", func(t *testing.T) {
		system := startSystem(t)
		a, streamA, b, streamB := spawnPair(t, system)
		defer streamA.close()
		defer streamB.close()

		tun, err := Link(system, a, b)
		require.NoError(t, err)

		require.NoError(t, b.PID().Shutdown(context.TODO()))
		require.Eventually(t, tun.Closed, waitFor, tick)
	})
}

func TestReplaceEndpoint(t *testing.T) {
	ctx := context.TODO()

	t.Run("replays buffered bytes to the replacement exactly once", func(t *testing.T) {
		system := startSystem(t)
		streamA := newFakeStream()
		streamB := newGatedStream()
		a, err := SpawnEndpoint(ctx, system, "origin", streamA)
		require.NoError(t, err)
		b, err := SpawnEndpoint(ctx, system, "old", streamB)
		require.NoError(t, err)

		tun, err := Link(system, a, b)
		require.NoError(t, err)
		defer func() {
			tun.Close()
			streamA.close()
			streamB.close()
		}()

		// byte 1 is stuck in the old endpoint's Write; 2 and 3 stay
		// buffered in the relay
		streamA.feed([]byte{1})
		<-streamB.entered
		streamA.feed([]byte{2})
		streamA.feed([]byte{3})

		streamC := newFakeStream()
		defer streamC.close()
		c, err := SpawnEndpoint(ctx, system, "fresh", streamC)
		require.NoError(t, err)

		swapped := make(chan error, 1)
		go func() {
			swapped <- tun.ReplaceEndpoint(b, c)
		}()

		// the swap parks on the in-flight delivery and only then proceeds
		select {
		case err := <-swapped:
			t.Fatalf("swap finished before the in-flight delivery: %v", err)
		case <-time.After(100 * time.Millisecond):
		}
		streamB.openGate()
		require.NoError(t, <-swapped)

		require.Eventually(t, func() bool {
			return bytes.Equal(streamC.output(), []byte{2, 3})
		}, waitFor, tick)
		// the old endpoint saw only the byte it acknowledged
		assert.Equal(t, []byte{1}, streamB.output())
		assert.EqualValues(t, 1, b.Cursor())
		assert.EqualValues(t, 2, c.Cursor())

		// newer traffic flows to the replacement only
		streamA.feed([]byte{4})
		require.Eventually(t, func() bool {
			return bytes.Equal(streamC.output(), []byte{2, 3, 4})
		}, waitFor, tick)
		assert.Equal(t, []byte{1}, streamB.output())

		// the reverse direction now reads from the replacement; a chunk
		// handed to the swapped-out pump is dropped, not relayed
		streamB.feed([]byte{9})
		streamC.feed([]byte{7})
		require.Eventually(t, func() bool {
			return bytes.Equal(streamA.output(), []byte{7})
		}, waitFor, tick)
	})

	t.Run("rejects a stopped replacement and keeps the old wiring", func(t *testing.T) {
		system := startSystem(t)
		a, streamA, b, streamB := spawnPair(t, system)

		tun, err := Link(system, a, b)
		require.NoError(t, err)
		defer func() {
			tun.Close()
			streamA.close()
			streamB.close()
		}()

		streamC := newFakeStream()
		defer streamC.close()
		c, err := SpawnEndpoint(ctx, system, "stillborn", streamC)
		require.NoError(t, err)
		require.NoError(t, c.PID().Shutdown(ctx))

		require.ErrorIs(t, tun.ReplaceEndpoint(b, c), errors.ErrPeerNotRunning)

		// traffic still reaches the old endpoint
		streamA.feed([]byte{5})
		require.Eventually(t, func() bool {
			return bytes.Equal(streamB.output(), []byte{5})
		}, waitFor, tick)
	})

	t.Run("rejects an endpoint that is not linked", func(t *testing.T) {
		system := startSystem(t)
		a, streamA, b, streamB := spawnPair(t, system)

		tun, err := Link(system, a, b)
		require.NoError(t, err)
		defer func() {
			tun.Close()
			streamA.close()
			streamB.close()
		}()

		streamX := newFakeStream()
		defer streamX.close()
		x, err := SpawnEndpoint(ctx, system, "stranger", streamX)
		require.NoError(t, err)
		streamY := newFakeStream()
		defer streamY.close()
		y, err := SpawnEndpoint(ctx, system, "other", streamY)
		require.NoError(t, err)

		require.ErrorIs(t, tun.ReplaceEndpoint(x, y), errors.ErrEndpointNotLinked)
	})

	t.Run("fails on a closed tunnel", func(t *testing.T) {
		system := startSystem(t)
		a, streamA, b, streamB := spawnPair(t, system)

		tun, err := Link(system, a, b)
		require.NoError(t, err)
		tun.Close()
		streamA.close()
		streamB.close()

		streamC := newFakeStream()
		defer streamC.close()
		c, err := SpawnEndpoint(ctx, system, "too-late", streamC)
		require.NoError(t, err)

		require.ErrorIs(t, tun.ReplaceEndpoint(b, c), errors.ErrTunnelGone)
	})

	t.Run("a swapped-out endpoint may stop without killing the tunnel", func(t *testing.T) {
		system := startSystem(t)
		a, streamA, b, streamB := spawnPair(t, system)

		tun, err := Link(system, a, b)
		require.NoError(t, err)
		defer func() {
			tun.Close()
			streamA.close()
			streamB.close()
		}()

		streamC := newFakeStream()
		defer streamC.close()
		c, err := SpawnEndpoint(ctx, system, "upgrade", streamC)
		require.NoError(t, err)
		require.NoError(t, tun.ReplaceEndpoint(b, c))

		require.NoError(t, b.PID().Shutdown(ctx))
		time.Sleep(100 * time.Millisecond)
		assert.False(t, tun.Closed())

		streamA.feed([]byte{8})
		require.Eventually(t, func() bool {
			return bytes.Equal(streamC.output(), []byte{8})
		}, waitFor, tick)
	})
}
