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

// Terminated notifies a watcher that a watched actor has fully stopped.
type Terminated struct {
	// ActorID is the unique identifier of the terminated actor.
	ActorID string
	// ActorName is the registered name of the terminated actor.
	ActorName string
}

// ChildFailed notifies a parent that a child exhausted its restart budget
// and was stopped. It is delivered to guardians and to parents whose policy
// absorbs terminal child failures.
type ChildFailed struct {
	// ActorID is the unique identifier of the failed child.
	ActorID string
	// ActorName is the registered name of the failed child.
	ActorName string
	// Reason is the failure that exhausted the budget.
	Reason error
}
