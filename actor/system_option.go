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
	"time"

	"github.com/loomlabs/loom/log"
	"github.com/loomlabs/loom/supervisor"
)

// SystemOption configures an actor system at construction time.
type SystemOption func(*actorSystem)

// WithLogger sets the system logger.
func WithLogger(logger log.Logger) SystemOption {
	return func(x *actorSystem) {
		x.logger = logger
	}
}

// WithWorkers sets the number of scheduler workers. The default is
// GOMAXPROCS.
func WithWorkers(workers int) SystemOption {
	return func(x *actorSystem) {
		x.workers = workers
	}
}

// WithThroughput sets how many messages a worker processes for one actor
// before moving on to the next ready actor.
func WithThroughput(throughput int) SystemOption {
	return func(x *actorSystem) {
		x.throughput = throughput
	}
}

// WithAskTimeout sets the fallback timeout of system-level Ask calls.
func WithAskTimeout(timeout time.Duration) SystemOption {
	return func(x *actorSystem) {
		x.askTimeout = timeout
	}
}

// WithShutdownTimeout sets the default hard deadline of graceful stops.
func WithShutdownTimeout(timeout time.Duration) SystemOption {
	return func(x *actorSystem) {
		x.shutdownTimeout = timeout
	}
}

// WithGuardianStrategy sets how the user guardian treats terminal child
// failures. The default RestartOnFailure contains them; NeverRestart makes
// any escalation reaching the guardian fatal for the whole system.
func WithGuardianStrategy(strategy supervisor.Strategy) SystemOption {
	return func(x *actorSystem) {
		x.guardianStrategy = strategy
	}
}
