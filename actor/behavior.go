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

import "sync"

// behaviorStack tracks the actor's active message handler. The bottom of
// the stack is always the actor's Receive method.
type behaviorStack struct {
	mu    sync.Mutex
	stack []Behavior
}

func newBehaviorStack(initial Behavior) *behaviorStack {
	return &behaviorStack{stack: []Behavior{initial}}
}

// current returns the behavior at the top of the stack.
func (b *behaviorStack) current() Behavior {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stack[len(b.stack)-1]
}

// replace swaps the top of the stack with the given behavior.
func (b *behaviorStack) replace(behavior Behavior) {
	b.mu.Lock()
	b.stack[len(b.stack)-1] = behavior
	b.mu.Unlock()
}

// push makes the given behavior current, keeping the previous one below.
func (b *behaviorStack) push(behavior Behavior) {
	b.mu.Lock()
	b.stack = append(b.stack, behavior)
	b.mu.Unlock()
}

// pop restores the previous behavior. The bottom entry never pops.
func (b *behaviorStack) pop() {
	b.mu.Lock()
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	b.mu.Unlock()
}

// reset drops everything but the given behavior.
func (b *behaviorStack) reset(initial Behavior) {
	b.mu.Lock()
	b.stack = []Behavior{initial}
	b.mu.Unlock()
}
