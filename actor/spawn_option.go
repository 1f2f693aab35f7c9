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

	"github.com/loomlabs/loom/supervisor"
)

// spawnConfig collects the per-actor settings of a spawn.
type spawnConfig struct {
	mailbox         Mailbox
	policy          *supervisor.Policy
	drainOnStop     bool
	initMaxRetries  int
	initTimeout     time.Duration
	shutdownTimeout time.Duration
	isSystem        bool
}

func newSpawnConfig(opts ...SpawnOption) *spawnConfig {
	cfg := &spawnConfig{
		policy:          supervisor.NewPolicy(),
		initMaxRetries:  DefaultInitMaxRetries,
		initTimeout:     DefaultInitTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.mailbox == nil {
		cfg.mailbox = NewBoundedMailbox(DefaultMailboxCapacity)
	}
	return cfg
}

// SpawnOption configures a single actor at spawn time.
type SpawnOption func(*spawnConfig)

// WithMailbox sets the actor's mailbox. The default is a rejecting bounded
// mailbox of DefaultMailboxCapacity.
func WithMailbox(mailbox Mailbox) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.mailbox = mailbox
	}
}

// WithSupervisor attaches a supervision policy to the actor.
func WithSupervisor(policy *supervisor.Policy) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.policy = policy
	}
}

// WithDrainOnStop makes a graceful stop finish processing the pending
// mailbox before terminating. The default discards pending messages to the
// deadletters stream.
func WithDrainOnStop() SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.drainOnStop = true
	}
}

// WithInitMaxRetries sets how many times PreStart is attempted before the
// spawn fails.
func WithInitMaxRetries(max int) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.initMaxRetries = max
	}
}

// WithInitTimeout bounds the PreStart retry loop of a spawn.
func WithInitTimeout(timeout time.Duration) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.initTimeout = timeout
	}
}

// WithStopTimeout sets the hard deadline of a graceful stop, overriding
// the system-wide default.
func WithStopTimeout(timeout time.Duration) SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.shutdownTimeout = timeout
	}
}

// asSystemActor marks internal cells. System actors use unbounded
// mailboxes and reserved names.
func asSystemActor() SpawnOption {
	return func(cfg *spawnConfig) {
		cfg.isSystem = true
		cfg.mailbox = NewUnboundedMailbox()
	}
}
