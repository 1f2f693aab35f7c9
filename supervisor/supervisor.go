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

// Package supervisor defines the restart policy applied to a faulty actor.
// A policy decides, per failure, whether the cell is rebuilt from its
// behavior factory or stopped; exhausting the restart budget always stops
// the cell and escalates one level up the supervision tree.
package supervisor

import (
	"sync"
	"time"
)

// Strategy determines how a supervisor reacts to a child failure.
type Strategy int

const (
	// RestartOnFailure restarts the child when the handler reported a
	// recoverable failure, within the restart budget. This is the default.
	RestartOnFailure Strategy = iota

	// AlwaysRestart restarts the child on any failure, including init
	// failures, within the restart budget.
	AlwaysRestart

	// NeverRestart stops the child on the first failure and escalates a
	// failure notice to the parent.
	NeverRestart
)

// String returns the text representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case RestartOnFailure:
		return "RestartOnFailure"
	case AlwaysRestart:
		return "AlwaysRestart"
	case NeverRestart:
		return "NeverRestart"
	default:
		return "Unknown"
	}
}

const (
	// DefaultMaxRestarts is the number of restarts allowed within the
	// sliding window before the cell is stopped.
	DefaultMaxRestarts uint32 = 3
	// DefaultWindow is the width of the sliding restart window.
	DefaultWindow = 30 * time.Second
	// DefaultBackoffInitial is the first restart delay.
	DefaultBackoffInitial = 100 * time.Millisecond
	// DefaultBackoffMax caps the exponential restart delay.
	DefaultBackoffMax = 2 * time.Second
)

// Option configures a Policy.
type Option func(*Policy)

// WithStrategy sets the restart strategy.
func WithStrategy(strategy Strategy) Option {
	return func(p *Policy) {
		p.mu.Lock()
		p.strategy = strategy
		p.mu.Unlock()
	}
}

// WithRestartBudget sets the maximum number of restarts tolerated within the
// given sliding window. The (maxRestarts+1)-th failure inside the window
// stops the actor and escalates.
func WithRestartBudget(maxRestarts uint32, window time.Duration) Option {
	return func(p *Policy) {
		p.mu.Lock()
		p.maxRestarts = maxRestarts
		p.window = window
		p.mu.Unlock()
	}
}

// WithBackoff sets the restart backoff schedule. Delay starts at initial and
// doubles up to max between successive restart attempts.
func WithBackoff(initial, max time.Duration) Option {
	return func(p *Policy) {
		p.mu.Lock()
		p.backoffInitial = initial
		p.backoffMax = max
		p.mu.Unlock()
	}
}

// Policy is the supervision policy attached to an actor cell. The zero
// configuration restarts on failure up to DefaultMaxRestarts times within
// DefaultWindow, with exponential backoff.
type Policy struct {
	mu             sync.Mutex
	strategy       Strategy
	maxRestarts    uint32
	window         time.Duration
	backoffInitial time.Duration
	backoffMax     time.Duration
}

// NewPolicy creates a supervision policy.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		strategy:       RestartOnFailure,
		maxRestarts:    DefaultMaxRestarts,
		window:         DefaultWindow,
		backoffInitial: DefaultBackoffInitial,
		backoffMax:     DefaultBackoffMax,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Strategy returns the restart strategy.
func (p *Policy) Strategy() Strategy {
	p.mu.Lock()
	strategy := p.strategy
	p.mu.Unlock()
	return strategy
}

// MaxRestarts returns the restart budget inside the sliding window.
func (p *Policy) MaxRestarts() uint32 {
	p.mu.Lock()
	maxRestarts := p.maxRestarts
	p.mu.Unlock()
	return maxRestarts
}

// Window returns the width of the sliding restart window.
func (p *Policy) Window() time.Duration {
	p.mu.Lock()
	window := p.window
	p.mu.Unlock()
	return window
}

// BackoffInitial returns the first restart delay.
func (p *Policy) BackoffInitial() time.Duration {
	p.mu.Lock()
	initial := p.backoffInitial
	p.mu.Unlock()
	return initial
}

// BackoffMax returns the restart delay ceiling.
func (p *Policy) BackoffMax() time.Duration {
	p.mu.Lock()
	max := p.backoffMax
	p.mu.Unlock()
	return max
}
