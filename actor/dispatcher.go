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
	"runtime"
	"sync"

	"github.com/loomlabs/loom/internal/queue"
	"github.com/loomlabs/loom/internal/types"
	"github.com/loomlabs/loom/log"
)

// dispatcher runs all actors of a system on a fixed pool of workers. Actors
// do not own goroutines: a cell with pending messages is pushed onto the
// ready queue and whichever worker claims it processes up to throughput
// messages before requeueing it, which keeps one busy actor from starving
// the rest.
//
// An actor is on the ready queue at most once (scheduled flag) and is
// processed by at most one worker at a time (the cell's idle/busy latch),
// preserving the single-consumer mailbox contract.
type dispatcher struct {
	logger     log.Logger
	ready      *queue.MpscQueue[*PID]
	wake       chan types.Unit
	tasks      chan *PID
	stop       chan types.Unit
	stopOnce   sync.Once
	wg         sync.WaitGroup
	workers    int
	throughput int
}

func newDispatcher(workers, throughput int, logger log.Logger) *dispatcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if throughput <= 0 {
		throughput = DefaultThroughput
	}
	return &dispatcher{
		logger:     logger,
		ready:      queue.NewMpscQueue[*PID](),
		wake:       make(chan types.Unit, 1),
		tasks:      make(chan *PID),
		stop:       make(chan types.Unit),
		workers:    workers,
		throughput: throughput,
	}
}

func (d *dispatcher) start() {
	d.wg.Add(d.workers + 1)
	go d.feed()
	for i := 0; i < d.workers; i++ {
		go d.work()
	}
	d.logger.Infof("dispatcher started with %d workers, throughput %d", d.workers, d.throughput)
}

// shutdown stops accepting work and waits for the in-flight batches to
// finish.
func (d *dispatcher) shutdown() {
	d.stopOnce.Do(func() {
		close(d.stop)
	})
	d.wg.Wait()
}

// schedule marks the cell ready. Duplicate schedules collapse: a cell sits
// on the ready queue at most once.
func (d *dispatcher) schedule(pid *PID) {
	if pid.scheduled.CompareAndSwap(false, true) {
		d.ready.Push(pid)
		select {
		case d.wake <- types.Unit{}:
		default:
		}
	}
}

// feed is the single consumer of the ready queue. It hands ready cells to
// whichever worker is free.
func (d *dispatcher) feed() {
	defer d.wg.Done()
	for {
		pid, ok := d.ready.Pop()
		if !ok {
			select {
			case <-d.wake:
				continue
			case <-d.stop:
				return
			}
		}
		select {
		case d.tasks <- pid:
		case <-d.stop:
			return
		}
	}
}

func (d *dispatcher) work() {
	defer d.wg.Done()
	for {
		select {
		case pid := <-d.tasks:
			if pid.processBatch(d.throughput) {
				d.schedule(pid)
			}
		case <-d.stop:
			return
		}
	}
}
