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

package supervisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPolicy(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		policy := NewPolicy()
		assert.Equal(t, RestartOnFailure, policy.Strategy())
		assert.Equal(t, DefaultMaxRestarts, policy.MaxRestarts())
		assert.Equal(t, DefaultWindow, policy.Window())
		assert.Equal(t, DefaultBackoffInitial, policy.BackoffInitial())
		assert.Equal(t, DefaultBackoffMax, policy.BackoffMax())
	})

	t.Run("options override the defaults", func(t *testing.T) {
		policy := NewPolicy(
			WithStrategy(AlwaysRestart),
			WithRestartBudget(10, time.Minute),
			WithBackoff(time.Millisecond, 50*time.Millisecond),
		)
		assert.Equal(t, AlwaysRestart, policy.Strategy())
		assert.EqualValues(t, 10, policy.MaxRestarts())
		assert.Equal(t, time.Minute, policy.Window())
		assert.Equal(t, time.Millisecond, policy.BackoffInitial())
		assert.Equal(t, 50*time.Millisecond, policy.BackoffMax())
	})
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "RestartOnFailure", RestartOnFailure.String())
	assert.Equal(t, "AlwaysRestart", AlwaysRestart.String())
	assert.Equal(t, "NeverRestart", NeverRestart.String())
	assert.Equal(t, "Unknown", Strategy(42).String())
}
