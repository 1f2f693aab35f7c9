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

	"go.uber.org/atomic"

	"github.com/loomlabs/loom/actor"
)

// Endpoint pairs an actor with the stream it serves. The cursor tracks how
// many relayed bytes this endpoint has acknowledged, which is what makes a
// hot swap resume without loss or duplication.
type Endpoint struct {
	pid    *actor.PID
	stream Stream
	cursor *atomic.Int64
}

// NewEndpoint wraps an already spawned actor and its stream.
func NewEndpoint(pid *actor.PID, stream Stream) *Endpoint {
	return &Endpoint{
		pid:    pid,
		stream: stream,
		cursor: atomic.NewInt64(0),
	}
}

// PID returns the endpoint's actor.
func (e *Endpoint) PID() *actor.PID {
	return e.pid
}

// Stream returns the endpoint's stream.
func (e *Endpoint) Stream() Stream {
	return e.stream
}

// Cursor returns the number of bytes delivered to and acknowledged by this
// endpoint.
func (e *Endpoint) Cursor() int64 {
	return e.cursor.Load()
}

// endpointActor writes relayed frames to the endpoint's stream and
// acknowledges them. A write failure is reported to supervision.
type endpointActor struct {
	stream Stream
}

var _ actor.Actor = (*endpointActor)(nil)

func (a *endpointActor) PreStart(context.Context) error { return nil }

func (a *endpointActor) Receive(rctx *actor.ReceiveContext) {
	switch frame := rctx.Message().(type) {
	case *Frame:
		n, err := a.stream.Write(frame.Data)
		if err != nil {
			rctx.Err(err)
			return
		}
		rctx.Response(&frameAck{n: n})
	default:
		rctx.Logger().Warnf("endpoint actor=(%s) dropped unexpected %T", rctx.Self().Name(), frame)
	}
}

func (a *endpointActor) PostStop(context.Context) error { return nil }

// SpawnEndpoint spawns a stock endpoint actor for the given stream and
// returns the Endpoint ready for Link or ReplaceEndpoint.
func SpawnEndpoint(ctx context.Context, system actor.ActorSystem, name string, stream Stream, opts ...actor.SpawnOption) (*Endpoint, error) {
	pid, err := system.Spawn(ctx, name, func() actor.Actor {
		return &endpointActor{stream: stream}
	}, opts...)
	if err != nil {
		return nil, err
	}
	return NewEndpoint(pid, stream), nil
}
