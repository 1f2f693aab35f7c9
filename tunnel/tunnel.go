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
	"context"
	goerrors "errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	uberatomic "go.uber.org/atomic"

	"github.com/loomlabs/loom/actor"
	"github.com/loomlabs/loom/errors"
	"github.com/loomlabs/loom/internal/types"
	"github.com/loomlabs/loom/log"
)

// relay carries bytes in one direction: read from source's stream, buffer,
// deliver to sink's actor. The sink pointer is what a hot swap replaces.
// A pending swap raises the pause gate before waiting out the in-flight
// delivery; deliveries park on the gate between frames, so every frame
// buffered at swap time is replayed to the replacement in order.
type relay struct {
	tun       *Tunnel
	source    atomic.Pointer[Endpoint]
	sink      atomic.Pointer[Endpoint]
	frames    chan *Frame
	deliverMu sync.Mutex                     // held for the duration of one delivery
	pause     atomic.Pointer[chan types.Unit] // non-nil while a swap is pending
}

func newRelay(t *Tunnel, source, sink *Endpoint) *relay {
	r := &relay{
		tun:    t,
		frames: make(chan *Frame, t.bufferSize),
	}
	r.source.Store(source)
	r.sink.Store(sink)
	return r
}

// pump reads chunks from src's stream into the frame buffer until src is
// swapped out, the stream ends, or the tunnel closes. A full buffer blocks
// the read loop, pushing backpressure onto the source. ReplaceEndpoint
// starts a fresh pump for the replacement, so a stale pump just exits; a
// chunk its read consumed concurrently with the swap is dropped, not
// relayed.
func (r *relay) pump(src *Endpoint) {
	t := r.tun
	for {
		buf := make([]byte, t.chunkSize)
		n, err := src.stream.Read(buf)
		if r.source.Load() != src {
			if n > 0 {
				t.logger.Debugf("tunnel pump dropped %d bytes read from swapped-out endpoint (%s)", n, src.pid.Name())
			}
			return
		}
		if n > 0 {
			select {
			case r.frames <- &Frame{Data: buf[:n]}:
			case <-t.closedCh:
				return
			}
		}
		if err != nil {
			if !goerrors.Is(err, io.EOF) {
				t.logger.Warnf("tunnel pump from (%s) failed: %v", src.pid.Name(), err)
			}
			t.Close()
			return
		}
		select {
		case <-t.closedCh:
			return
		default:
		}
	}
}

// forward delivers buffered frames to the current sink.
func (r *relay) forward() {
	t := r.tun
	for {
		select {
		case frame := <-r.frames:
			if !r.deliver(frame) {
				t.Close()
				return
			}
		case <-t.closedCh:
			return
		}
	}
}

// deliver sends one frame to the sink's actor and waits for the ack. The
// cursor only advances on acknowledgement, so an endpoint never observes a
// byte twice and never skips one. A delivery starting while a swap is
// pending parks until the swap resolves, whatever the mutex scheduling.
func (r *relay) deliver(frame *Frame) bool {
	for {
		if gate := r.pause.Load(); gate != nil {
			select {
			case <-*gate:
			case <-r.tun.closedCh:
				return false
			}
			continue
		}
		r.deliverMu.Lock()
		if r.pause.Load() == nil {
			break
		}
		r.deliverMu.Unlock()
	}
	defer r.deliverMu.Unlock()
	sink := r.sink.Load()
	reply, err := r.tun.system.Ask(context.Background(), sink.pid, frame, r.tun.askTimeout)
	if err != nil {
		r.tun.logger.Warnf("tunnel delivery to (%s) failed: %v", sink.pid.Name(), err)
		return false
	}
	if ack, ok := reply.(*frameAck); ok {
		sink.cursor.Add(int64(ack.n))
	}
	return true
}

// Tunnel is a bidirectional bridge between two endpoints. It exists only
// while both sides are alive: the termination of a current endpoint tears
// the tunnel down.
type Tunnel struct {
	system     actor.ActorSystem
	logger     log.Logger
	left       *relay // first endpoint -> second endpoint
	right      *relay // second endpoint -> first endpoint
	swapMu     sync.Mutex
	bufferSize int
	chunkSize  int
	askTimeout time.Duration
	closed     *uberatomic.Bool
	closedCh   chan types.Unit
}

// Link wires two endpoints together and starts relaying in both
// directions. Both endpoint actors must be running.
func Link(system actor.ActorSystem, a, b *Endpoint, opts ...Option) (*Tunnel, error) {
	if a == nil || b == nil || !a.pid.IsRunning() || !b.pid.IsRunning() {
		return nil, errors.ErrPeerNotRunning
	}
	t := &Tunnel{
		system:   system,
		logger:   system.Logger(),
		closed:   uberatomic.NewBool(false),
		closedCh: make(chan types.Unit),
	}
	cfg := newConfig(opts...)
	t.bufferSize = cfg.bufferSize
	t.chunkSize = cfg.chunkSize
	t.askTimeout = cfg.askTimeout
	if cfg.logger != nil {
		t.logger = cfg.logger
	}

	t.left = newRelay(t, a, b)
	t.right = newRelay(t, b, a)

	go t.left.pump(a)
	go t.left.forward()
	go t.right.pump(b)
	go t.right.forward()
	t.watch(a)
	t.watch(b)

	t.logger.Infof("tunnel linked (%s) <-> (%s)", a.pid.Name(), b.pid.Name())
	return t, nil
}

// Endpoints returns the current endpoints of both sides.
func (t *Tunnel) Endpoints() (*Endpoint, *Endpoint) {
	return t.left.source.Load(), t.right.source.Load()
}

// Closed reports whether the tunnel has been torn down.
func (t *Tunnel) Closed() bool {
	return t.closed.Load()
}

// Done returns a channel closed when the tunnel is torn down.
func (t *Tunnel) Done() <-chan types.Unit {
	return t.closedCh
}

// Close tears the tunnel down. It is idempotent and never touches the
// endpoint actors: their lifecycle is their supervisor's business.
func (t *Tunnel) Close() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	close(t.closedCh)
	t.logger.Info("tunnel closed")
}

// ReplaceEndpoint atomically swaps old for replacement while traffic keeps
// flowing from the unchanged peer:
//
//  1. deliveries toward the side being replaced are paused: the pause gate
//     goes up first, then the in-flight delivery is waited out,
//  2. bytes read but not yet acknowledged stay in the relay buffer,
//  3. the sink pointer flips to the replacement,
//  4. buffered bytes replay to the replacement in order,
//  5. the gate comes down and deliveries resume.
//
// Every relayed byte is observed by exactly one endpoint on the replaced
// side. On error the tunnel is left wired to old: ErrPeerNotRunning when
// the replacement is not running, ErrTunnelGone when the tunnel was
// concurrently torn down, ErrEndpointNotLinked when old is not a current
// endpoint.
func (t *Tunnel) ReplaceEndpoint(old, replacement *Endpoint) error {
	if t.closed.Load() {
		return errors.ErrTunnelGone
	}
	if replacement == nil || !replacement.pid.IsRunning() {
		return errors.ErrPeerNotRunning
	}

	t.swapMu.Lock()
	defer t.swapMu.Unlock()

	var in, out *relay
	switch {
	case t.left.sink.Load() == old:
		in, out = t.left, t.right
	case t.right.sink.Load() == old:
		in, out = t.right, t.left
	default:
		return errors.ErrEndpointNotLinked
	}

	resume := make(chan types.Unit)
	in.pause.Store(&resume)
	defer func() {
		in.pause.Store(nil)
		close(resume)
	}()

	in.deliverMu.Lock()
	defer in.deliverMu.Unlock()

	// the world may have moved while we were acquiring the pause
	if t.closed.Load() {
		return errors.ErrTunnelGone
	}
	if !replacement.pid.IsRunning() {
		return errors.ErrPeerNotRunning
	}
	if !in.sink.CompareAndSwap(old, replacement) {
		return errors.ErrEndpointNotLinked
	}
	// the reverse direction reads from the replacement's stream; the pump
	// pinned to old exits once it notices the rebind
	out.source.Store(replacement)
	go out.pump(replacement)
	t.watch(replacement)

	t.logger.Infof("tunnel endpoint (%s) replaced by (%s)", old.pid.Name(), replacement.pid.Name())
	return nil
}

// watch tears the tunnel down when a current endpoint terminates. An
// endpoint that was swapped out may stop freely.
func (t *Tunnel) watch(e *Endpoint) {
	go func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-t.closedCh
			cancel()
		}()
		if err := e.pid.AwaitTermination(ctx); err != nil {
			return // tunnel closed first
		}
		if t.isCurrent(e) {
			t.logger.Infof("tunnel endpoint (%s) terminated", e.pid.Name())
			t.Close()
		}
	}()
}

func (t *Tunnel) isCurrent(e *Endpoint) bool {
	return t.left.source.Load() == e || t.right.source.Load() == e
}
