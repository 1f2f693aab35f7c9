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

const contextPoolSize = 512

// contextPool recycles ReceiveContexts across the hot message path. A
// channel beats sync.Pool here because contexts are released on a different
// goroutine than the one that acquired them.
var contextPool = make(chan *ReceiveContext, contextPoolSize)

func getContext() *ReceiveContext {
	select {
	case rctx := <-contextPool:
		return rctx
	default:
		return new(ReceiveContext)
	}
}

func releaseContext(rctx *ReceiveContext) {
	rctx.reset()
	select {
	case contextPool <- rctx:
	default:
	}
}

// responsePool recycles the single-slot reply channels of the Ask path.
var responsePool = sync.Pool{
	New: func() any {
		return make(chan any, 1)
	},
}

func getResponseChan() chan any {
	return responsePool.Get().(chan any)
}

func releaseResponseChan(ch chan any) {
	// drain a reply nobody consumed before reuse
	select {
	case <-ch:
	default:
	}
	responsePool.Put(ch)
}
