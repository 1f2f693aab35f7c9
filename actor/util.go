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

import "time"

const (
	// DefaultMailboxCapacity is the bounded mailbox capacity used when a
	// spawn does not provide its own mailbox.
	DefaultMailboxCapacity = 1024

	// DefaultThroughput is the number of messages a scheduler worker
	// processes for one actor before moving to the next ready actor.
	DefaultThroughput = 300

	// DefaultEnqueueTimeout bounds the wait of a blocking mailbox send.
	DefaultEnqueueTimeout = time.Second

	// DefaultAskTimeout bounds request/response exchanges when the caller
	// does not provide a timeout.
	DefaultAskTimeout = 5 * time.Second

	// DefaultShutdownTimeout is the hard deadline applied to a graceful
	// actor stop before teardown is forced.
	DefaultShutdownTimeout = 3 * time.Second

	// DefaultInitMaxRetries is the number of PreStart attempts before a
	// spawn fails.
	DefaultInitMaxRetries = 5

	// DefaultInitTimeout bounds the PreStart retry loop of a spawn.
	DefaultInitTimeout = time.Second
)

const (
	rootGuardianName = "loom.system.root"
	userGuardianName = "loom.system.user"
	noSenderName     = "loom.system.nosender"
)
