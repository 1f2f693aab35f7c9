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
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/loomlabs/loom/address"
	"github.com/loomlabs/loom/errors"
	"github.com/loomlabs/loom/internal/timer"
	"github.com/loomlabs/loom/internal/types"
	"github.com/loomlabs/loom/log"
	"github.com/loomlabs/loom/supervisor"
)

// processing latch values. A cell is claimed by at most one scheduler
// worker at a time.
const (
	idleLatch int32 = iota
	busyLatch
)

var askTimers = timer.NewPool()

// PID is the handle to a running actor cell. It owns the actor instance,
// its mailbox and its lifecycle state, and is the only way to interact with
// the actor.
//
// A PID is cheap to share: all operations are safe for concurrent use.
type PID struct {
	addr    *address.Address
	factory Factory
	system  *actorSystem
	mailbox Mailbox
	logger  log.Logger

	actorMu   sync.RWMutex
	actor     Actor
	behaviors *behaviorStack

	policy *supervisor.Policy

	state      *atomic.Uint32
	processing *atomic.Int32
	scheduled  *atomic.Bool
	stopSignal *atomic.Bool

	restartMu    sync.Mutex
	restartTimes []time.Time

	processedCount *atomic.Int64
	restartCount   *atomic.Int64
	failureCount   *atomic.Int64
	lastFault      *atomic.Error

	initMaxRetries  int
	initTimeout     time.Duration
	shutdownTimeout time.Duration
	drainOnStop     bool
	isSystem        bool

	stopLocker sync.Mutex
	doneOnce   sync.Once
	done       chan types.Unit
}

// newPID builds and initializes an actor cell. The actor instance is
// created from the factory and PreStart runs before the PID is returned.
func newPID(ctx context.Context, addr *address.Address, factory Factory, system *actorSystem, cfg *spawnConfig) (*PID, error) {
	pid := &PID{
		addr:            addr,
		factory:         factory,
		system:          system,
		mailbox:         cfg.mailbox,
		logger:          system.logger,
		policy:          cfg.policy,
		state:           atomic.NewUint32(uint32(Starting)),
		processing:      atomic.NewInt32(idleLatch),
		scheduled:       atomic.NewBool(false),
		stopSignal:      atomic.NewBool(false),
		processedCount:  atomic.NewInt64(0),
		restartCount:    atomic.NewInt64(0),
		failureCount:    atomic.NewInt64(0),
		lastFault:       atomic.NewError(nil),
		initMaxRetries:  cfg.initMaxRetries,
		initTimeout:     cfg.initTimeout,
		shutdownTimeout: cfg.shutdownTimeout,
		drainOnStop:     cfg.drainOnStop,
		isSystem:        cfg.isSystem,
		done:            make(chan types.Unit),
	}
	pid.actor = factory()
	pid.behaviors = newBehaviorStack(pid.defaultBehavior())

	if err := pid.init(ctx); err != nil {
		return nil, err
	}
	pid.state.Store(uint32(Running))
	return pid, nil
}

// init runs PreStart with bounded retries.
func (p *PID) init(ctx context.Context) error {
	cancelCtx, cancel := context.WithTimeout(ctx, p.initTimeout)
	defer cancel()
	retrier := retry.NewRetrier(p.initMaxRetries, p.policy.BackoffInitial(), p.policy.BackoffMax())
	if err := retrier.RunContext(cancelCtx, p.currentActor().PreStart); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInitFailure, err)
	}
	return nil
}

// ID returns the unique identifier of the actor.
func (p *PID) ID() string {
	return p.addr.ID()
}

// Name returns the registered name of the actor.
func (p *PID) Name() string {
	return p.addr.Name()
}

// Address returns the actor's address.
func (p *PID) Address() *address.Address {
	return p.addr
}

// Equals reports whether both PIDs reference the same actor incarnation.
func (p *PID) Equals(other *PID) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.addr.Equals(other.addr)
}

// State returns the current lifecycle state.
func (p *PID) State() LifecycleState {
	return LifecycleState(p.state.Load())
}

// IsRunning reports whether the cell accepts and processes messages.
func (p *PID) IsRunning() bool {
	return p.State() == Running
}

// Logger returns the logger of the actor system.
func (p *PID) Logger() log.Logger {
	return p.logger
}

// Parent returns the supervising PID, or nil for a root cell.
func (p *PID) Parent() *PID {
	return p.system.actors.parent(p)
}

// Children returns a snapshot of the direct children.
func (p *PID) Children() []*PID {
	return p.system.actors.children(p)
}

// Child looks a direct child up by name.
func (p *PID) Child(name string) (*PID, error) {
	for _, child := range p.Children() {
		if child.Name() == name {
			return child, nil
		}
	}
	return nil, errors.ErrActorNotFound
}

// ProcessedCount returns the number of messages the cell handled so far,
// across restarts.
func (p *PID) ProcessedCount() int64 {
	return p.processedCount.Load()
}

// RestartCount returns the number of supervised restarts performed.
func (p *PID) RestartCount() int64 {
	return p.restartCount.Load()
}

// FailureCount returns the number of faults the cell suffered so far,
// across restarts.
func (p *PID) FailureCount() int64 {
	return p.failureCount.Load()
}

// CrashReport returns the reason of the most recent fault, or nil when the
// actor never failed.
func (p *PID) CrashReport() error {
	return p.lastFault.Load()
}

// SpawnChild creates a child actor supervised by this one.
func (p *PID) SpawnChild(ctx context.Context, name string, factory Factory, opts ...SpawnOption) (*PID, error) {
	return p.system.spawn(ctx, p, name, factory, opts...)
}

// Watch registers interest in the termination of the given actor. The
// watcher receives a Terminated message when it stops.
func (p *PID) Watch(cid *PID) {
	p.system.actors.addWatcher(cid, p)
}

// UnWatch cancels a prior Watch.
func (p *PID) UnWatch(cid *PID) {
	p.system.actors.removeWatcher(cid, p)
}

// Tell sends a fire-and-forget message to the given actor. It returns an
// error when the message cannot be accepted: the target is not alive or
// its mailbox rejected the message.
func (p *PID) Tell(ctx context.Context, to *PID, message any) error {
	return to.deliver(ctx, p, message)
}

// Ask sends a request to the given actor and blocks until the reply, the
// timeout, or the target's termination, whichever comes first.
func (p *PID) Ask(ctx context.Context, to *PID, message any, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		return nil, errors.ErrInvalidTimeout
	}
	if !to.acceptsMessages() {
		return nil, errors.ErrDead
	}
	rctx := getContext().build(ctx, p, to, message, true)
	response := rctx.response
	if err := to.enqueue(rctx); err != nil {
		return nil, err
	}

	t := askTimers.Get(timeout)
	defer askTimers.Put(t)

	select {
	case reply := <-response:
		releaseResponseChan(response)
		return reply, nil
	case <-to.done:
		// the reply may already be buffered when the target stops right
		// after responding; it wins over the termination signal
		select {
		case reply := <-response:
			releaseResponseChan(response)
			return reply, nil
		default:
		}
		return nil, errors.ErrDead
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.C:
		return nil, errors.ErrRequestTimeout
	}
}

// Shutdown stops the actor gracefully. The stop request is observed by the
// scheduler like a message: the cell finishes the message in flight, then
// drains or discards its mailbox depending on its spawn configuration,
// stops its children, runs PostStop and leaves the registry. When the
// graceful path exceeds the shutdown timeout the teardown is forced.
// Stopping an already stopped actor is a no-op.
func (p *PID) Shutdown(ctx context.Context) error {
	if p.State() == Stopped {
		return nil
	}
	p.stopSignal.Store(true)
	p.system.scheduler.schedule(p)

	t := askTimers.Get(p.shutdownTimeout)
	defer askTimers.Put(t)

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		p.logger.Warnf("actor=(%s) graceful stop exceeded %v, forcing teardown", p.Name(), p.shutdownTimeout)
		return p.stop(context.WithoutCancel(ctx))
	}
}

// stop is the teardown entry point for callers outside the scheduler
// worker, which already owns the processing latch. It claims the latch so
// the mailbox never sees a second consumer, then runs doStop.
func (p *PID) stop(ctx context.Context) error {
	for !p.processing.CompareAndSwap(idleLatch, busyLatch) {
		if p.State() == Stopped {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	defer p.processing.Store(idleLatch)
	return p.doStop(ctx)
}

// AwaitTermination blocks the caller until the actor has fully stopped.
func (p *PID) AwaitTermination(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deliver is the receiving half of Tell.
func (p *PID) deliver(ctx context.Context, from *PID, message any) error {
	if !p.acceptsMessages() {
		p.system.deadletter(from, p, message, errors.ErrDead.Error())
		return errors.ErrDead
	}
	rctx := getContext().build(ctx, from, p, message, false)
	return p.enqueue(rctx)
}

func (p *PID) enqueue(rctx *ReceiveContext) error {
	if err := p.mailbox.Enqueue(rctx); err != nil {
		p.system.deadletter(rctx.sender, p, rctx.message, err.Error())
		releaseContext(rctx)
		return err
	}
	p.system.scheduler.schedule(p)
	return nil
}

// acceptsMessages reports whether the mailbox takes new messages. A
// faulted or restarting cell still accepts: supervision decides what
// happens to the backlog.
func (p *PID) acceptsMessages() bool {
	switch p.State() {
	case Running, Faulted, Restarting:
		return true
	default:
		return false
	}
}

func (p *PID) currentActor() Actor {
	p.actorMu.RLock()
	actor := p.actor
	p.actorMu.RUnlock()
	return actor
}

func (p *PID) defaultBehavior() Behavior {
	return func(rctx *ReceiveContext) {
		p.currentActor().Receive(rctx)
	}
}

// processBatch is the scheduler worker entry point. It claims the cell,
// handles up to throughput messages and reports whether the cell should be
// requeued. At most one worker runs a given cell at a time.
func (p *PID) processBatch(throughput int) bool {
	p.scheduled.Store(false)
	if !p.processing.CompareAndSwap(idleLatch, busyLatch) {
		return false
	}
	defer p.processing.Store(idleLatch)

	for i := 0; i < throughput; i++ {
		if p.stopSignal.Load() {
			_ = p.doStop(context.Background())
			return false
		}
		if p.State() != Running {
			return false
		}
		rctx := p.mailbox.Dequeue()
		if rctx == nil {
			return false
		}
		if !p.handleReceived(rctx) {
			return false
		}
	}
	return !p.mailbox.IsEmpty() || p.stopSignal.Load()
}

// handleReceived runs one message through the current behavior. It returns
// false when processing must not continue: the handler faulted or asked to
// stop.
func (p *PID) handleReceived(rctx *ReceiveContext) bool {
	var fault error
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok {
					fault = errors.NewPanicError(err)
					return
				}
				fault = errors.NewPanicError(fmt.Errorf("%v", r))
			}
		}()
		p.behaviors.current()(rctx)
		fault = rctx.getError()
	}
	run()

	p.processedCount.Inc()
	ctx := context.WithoutCancel(rctx.Context())
	message := rctx.message
	stop := rctx.stopRequested()
	releaseContext(rctx)

	if fault != nil {
		p.handleFault(fault, message)
		return false
	}
	if stop {
		_ = p.doStop(ctx)
		return false
	}
	return true
}

// handleFault moves the cell to Faulted and hands it to supervision. The
// scheduler stops touching the cell until supervision resolves its fate.
func (p *PID) handleFault(reason error, message any) {
	if !p.state.CompareAndSwap(uint32(Running), uint32(Faulted)) {
		return
	}
	p.failureCount.Inc()
	p.lastFault.Store(reason)
	p.logger.Errorf("actor=(%s) failed while processing %T: %v", p.Name(), message, reason)
	p.system.publishEvent(&ActorFailed{
		Address:   p.addr,
		Reason:    reason,
		Message:   message,
		Timestamp: time.Now(),
	})
	go p.supervise(reason)
}

// supervise applies the cell's policy to the failure. It runs off the
// scheduler so backoff delays never hold a worker.
func (p *PID) supervise(reason error) {
	switch p.policy.Strategy() {
	case supervisor.NeverRestart:
		p.stopAndEscalate(reason)
	default:
		if !p.recordRestart(time.Now()) {
			p.stopAndEscalate(fmt.Errorf("%w: %v", errors.ErrRestartBudgetExceeded, reason))
			return
		}
		if err := p.restart(context.Background()); err != nil {
			if p.policy.Strategy() == supervisor.AlwaysRestart {
				p.supervise(err)
				return
			}
			p.stopAndEscalate(err)
		}
	}
}

// recordRestart prunes the sliding window and reserves a restart slot. It
// returns false when the budget is exhausted.
func (p *PID) recordRestart(now time.Time) bool {
	p.restartMu.Lock()
	defer p.restartMu.Unlock()
	cutoff := now.Add(-p.policy.Window())
	kept := p.restartTimes[:0]
	for _, ts := range p.restartTimes {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	p.restartTimes = kept
	if uint32(len(p.restartTimes)) >= p.policy.MaxRestarts() {
		return false
	}
	p.restartTimes = append(p.restartTimes, now)
	return true
}

// restartsInWindow returns how many restart slots are currently used.
func (p *PID) restartsInWindow() int {
	p.restartMu.Lock()
	defer p.restartMu.Unlock()
	return len(p.restartTimes)
}

// restart rebuilds the actor from its factory after the backoff delay. The
// faulted backlog is discarded: messages addressed to the failed
// incarnation do not leak into the fresh one.
func (p *PID) restart(ctx context.Context) error {
	if !p.state.CompareAndSwap(uint32(Faulted), uint32(Restarting)) {
		return errors.ErrDead
	}

	// exclusive mailbox access: workers only consume while Running
	for !p.processing.CompareAndSwap(idleLatch, busyLatch) {
		time.Sleep(time.Millisecond)
	}
	discarded := 0
	for rctx := p.mailbox.Dequeue(); rctx != nil; rctx = p.mailbox.Dequeue() {
		p.system.deadletter(rctx.sender, p, rctx.message, "discarded on restart")
		releaseContext(rctx)
		discarded++
	}
	p.processing.Store(idleLatch)
	if discarded > 0 {
		p.logger.Warnf("actor=(%s) restarting, discarded %d pending messages", p.Name(), discarded)
	}

	time.Sleep(p.backoffDelay())

	fresh := p.factory()
	p.actorMu.Lock()
	p.actor = fresh
	p.actorMu.Unlock()
	p.behaviors.reset(p.defaultBehavior())

	if err := p.init(ctx); err != nil {
		return err
	}
	if !p.state.CompareAndSwap(uint32(Restarting), uint32(Running)) {
		return errors.ErrDead
	}
	p.restartCount.Inc()
	p.logger.Infof("actor=(%s) restarted", p.Name())
	p.system.publishEvent(&ActorRestarted{Address: p.addr, Timestamp: time.Now()})
	if !p.mailbox.IsEmpty() || p.stopSignal.Load() {
		p.system.scheduler.schedule(p)
	}
	return nil
}

// backoffDelay doubles from the policy's initial delay per used restart
// slot, capped at the policy's max.
func (p *PID) backoffDelay() time.Duration {
	delay := p.policy.BackoffInitial()
	for i := 1; i < p.restartsInWindow(); i++ {
		delay *= 2
		if delay >= p.policy.BackoffMax() {
			return p.policy.BackoffMax()
		}
	}
	return delay
}

// stopAndEscalate terminates the cell and raises a failure notice one
// level up the supervision tree.
func (p *PID) stopAndEscalate(reason error) {
	parent := p.system.actors.parent(p)
	p.system.publishEvent(&EscalationRaised{
		Address:   p.addr,
		Reason:    reason,
		Timestamp: time.Now(),
	})
	_ = p.stop(context.Background())
	p.system.handleEscalation(p, parent, reason)
}

// doStop is the single teardown path. It is idempotent. The caller must own
// the processing latch: a scheduler worker calls it directly from its batch,
// every other caller goes through stop.
func (p *PID) doStop(ctx context.Context) error {
	p.stopLocker.Lock()
	defer p.stopLocker.Unlock()
	if p.State() == Stopped {
		return nil
	}
	p.state.Store(uint32(Stopping))
	p.logger.Infof("actor=(%s) is stopping", p.Name())

	if p.drainOnStop {
		for rctx := p.mailbox.Dequeue(); rctx != nil; rctx = p.mailbox.Dequeue() {
			if !p.handleDraining(rctx) {
				break
			}
		}
	} else {
		discarded := 0
		for rctx := p.mailbox.Dequeue(); rctx != nil; rctx = p.mailbox.Dequeue() {
			p.system.deadletter(rctx.sender, p, rctx.message, "discarded on stop")
			releaseContext(rctx)
			discarded++
		}
		if discarded > 0 {
			p.logger.Infof("actor=(%s) discarded %d pending messages on stop", p.Name(), discarded)
		}
	}

	if children := p.system.actors.children(p); len(children) > 0 {
		eg, egCtx := errgroup.WithContext(ctx)
		for _, child := range children {
			child := child
			eg.Go(func() error {
				return child.Shutdown(egCtx)
			})
		}
		if err := eg.Wait(); err != nil {
			p.logger.Warnf("actor=(%s) failed to stop some children: %v", p.Name(), err)
		}
	}

	p.runPostStop(ctx)

	for _, watcher := range p.system.actors.watchers(p) {
		notice := &Terminated{ActorID: p.ID(), ActorName: p.Name()}
		_ = watcher.deliver(ctx, p.system.noSender, notice)
	}

	p.system.unregister(p)
	p.mailbox.Dispose()
	p.state.Store(uint32(Stopped))
	p.doneOnce.Do(func() {
		close(p.done)
	})
	p.system.publishEvent(&ActorStopped{Address: p.addr, Timestamp: time.Now()})
	p.logger.Infof("actor=(%s) stopped", p.Name())
	return nil
}

// handleDraining processes one backlog message during a draining stop.
// Failures during the drain are logged, never supervised.
func (p *PID) handleDraining(rctx *ReceiveContext) bool {
	var fault error
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				fault = fmt.Errorf("%v", r)
			}
		}()
		p.behaviors.current()(rctx)
		fault = rctx.getError()
	}
	run()
	p.processedCount.Inc()
	releaseContext(rctx)
	if fault != nil {
		p.logger.Warnf("actor=(%s) failed during stop drain: %v", p.Name(), fault)
		return false
	}
	return true
}

// runPostStop invokes PostStop, containing panics so teardown always
// completes.
func (p *PID) runPostStop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("actor=(%s) PostStop panicked: %v", p.Name(), r)
		}
	}()
	if err := p.currentActor().PostStop(ctx); err != nil {
		p.logger.Errorf("actor=(%s) PostStop failed: %v", p.Name(), err)
	}
}
