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
	"time"

	"github.com/loomlabs/loom/actor"
	"github.com/loomlabs/loom/log"
)

const (
	// DefaultBufferSize is the number of frames a relay direction buffers
	// between the reader and the forwarder.
	DefaultBufferSize = 64
	// DefaultChunkSize is the read size of the relay pump.
	DefaultChunkSize = 4096
)

type config struct {
	bufferSize int
	chunkSize  int
	askTimeout time.Duration
	logger     log.Logger
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		bufferSize: DefaultBufferSize,
		chunkSize:  DefaultChunkSize,
		askTimeout: actor.DefaultAskTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a tunnel at Link time.
type Option func(*config)

// WithBufferSize sets the per-direction frame buffer capacity.
func WithBufferSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.bufferSize = size
		}
	}
}

// WithChunkSize sets the relay read size.
func WithChunkSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.chunkSize = size
		}
	}
}

// WithDeliveryTimeout bounds the wait for an endpoint's frame ack. An
// expired wait tears the tunnel down.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		if timeout > 0 {
			cfg.askTimeout = timeout
		}
	}
}

// WithTunnelLogger overrides the system logger for tunnel diagnostics.
func WithTunnelLogger(logger log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
