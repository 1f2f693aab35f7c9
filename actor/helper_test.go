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
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/loomlabs/loom/eventstream"
	"github.com/loomlabs/loom/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startTestSystem(t *testing.T) ActorSystem {
	t.Helper()
	system, err := NewActorSystem("testSys", WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(context.TODO()))
	t.Cleanup(func() {
		if system.Running() {
			require.NoError(t, system.Stop(context.TODO()))
		}
	})
	return system
}

// snapshotRequest asks a recorder for everything it has seen so far.
type snapshotRequest struct{}

// failRequest makes a recorder report the given failure.
type failRequest struct {
	reason error
}

// panicRequest makes a recorder panic.
type panicRequest struct{}

// stopRequest makes a recorder terminate itself.
type stopRequest struct{}

// recorder keeps every message it receives. It is the workhorse of the
// lifecycle tests: it can fail, panic or stop on demand.
type recorder struct {
	mu       sync.Mutex
	messages []any
}

var _ Actor = (*recorder)(nil)

func newRecorder() Actor { return &recorder{} }

func (r *recorder) PreStart(context.Context) error { return nil }

func (r *recorder) Receive(rctx *ReceiveContext) {
	switch msg := rctx.Message().(type) {
	case snapshotRequest:
		r.mu.Lock()
		snapshot := make([]any, len(r.messages))
		copy(snapshot, r.messages)
		r.mu.Unlock()
		rctx.Response(snapshot)
	case failRequest:
		rctx.Err(msg.reason)
	case panicRequest:
		panic("boom")
	case stopRequest:
		rctx.Stop()
	default:
		r.mu.Lock()
		r.messages = append(r.messages, msg)
		r.mu.Unlock()
	}
}

func (r *recorder) PostStop(context.Context) error { return nil }

// sleeper delays on every message, to keep mailboxes busy.
type sleeper struct {
	delay time.Duration
}

func (s *sleeper) PreStart(context.Context) error { return nil }

func (s *sleeper) Receive(rctx *ReceiveContext) {
	time.Sleep(s.delay)
	if _, ok := rctx.Message().(snapshotRequest); ok {
		rctx.Response("done")
	}
}

func (s *sleeper) PostStop(context.Context) error { return nil }

// collectEvents appends everything currently queued on the subscriber.
func collectEvents(sub eventstream.Subscriber, sink *[]any) {
	for message := range sub.Iterator() {
		*sink = append(*sink, message.Payload())
	}
}

func failf(reason string) failRequest {
	return failRequest{reason: fmt.Errorf("%s", reason)}
}
