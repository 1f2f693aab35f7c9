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

// Package tunnel bridges two actors with a bidirectional byte relay. Bytes
// read from one endpoint's stream are forwarded, in order and exactly once,
// to the peer endpoint's actor, which writes them to its own stream. Either
// endpoint can be hot-swapped while traffic flows.
package tunnel

import "io"

// Stream is the byte source and sink of an endpoint. Reads feed the relay
// toward the peer; writes receive the bytes relayed from the peer.
// Backpressure is carried by blocking Read and Write.
type Stream interface {
	io.Reader
	io.Writer
}

// Frame is one relayed chunk. It is delivered to the receiving endpoint's
// actor as a request and acknowledged once the bytes reached the stream.
type Frame struct {
	Data []byte
}

// frameAck is the endpoint actor's reply to a delivered Frame.
type frameAck struct {
	n int
}
