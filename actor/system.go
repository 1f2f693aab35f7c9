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
	"regexp"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/loomlabs/loom/address"
	"github.com/loomlabs/loom/errors"
	"github.com/loomlabs/loom/eventstream"
	"github.com/loomlabs/loom/internal/shardedmap"
	"github.com/loomlabs/loom/internal/types"
	"github.com/loomlabs/loom/log"
	"github.com/loomlabs/loom/supervisor"
)

// systemNamePattern constrains actor system names.
var systemNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)

// reservedPrefix marks internal actor names. User spawns cannot use it.
const reservedPrefix = "loom.system."

// ActorSystem is the root of a supervision hierarchy. It owns the
// scheduler, the name registry, the guardians and the event stream, and is
// the entry point for spawning and messaging actors.
type ActorSystem interface {
	// Name returns the name of the actor system.
	Name() string
	// Logger returns the system logger.
	Logger() log.Logger
	// Start boots the scheduler and the guardians. It must be called
	// before any other operation.
	Start(ctx context.Context) error
	// Stop terminates every actor, then the scheduler. It blocks until
	// the whole tree has stopped.
	Stop(ctx context.Context) error
	// Running reports whether the system has been started and not yet
	// stopped.
	Running() bool
	// Spawn creates a top-level actor under the user guardian. The name
	// must be unique within the system.
	Spawn(ctx context.Context, name string, factory Factory, opts ...SpawnOption) (*PID, error)
	// Kill gracefully stops the named actor. Stopping an unknown or
	// already stopped actor returns ErrActorNotFound.
	Kill(ctx context.Context, name string) error
	// Tell sends a fire-and-forget message to the given actor with the
	// system's no-sender PID as sender.
	Tell(ctx context.Context, to *PID, message any) error
	// Ask sends a request and blocks for the reply up to the timeout. A
	// non-positive timeout falls back to the system's ask timeout.
	Ask(ctx context.Context, to *PID, message any, timeout time.Duration) (any, error)
	// ActorOf resolves a registered actor by name.
	ActorOf(name string) (*PID, error)
	// Actors returns a snapshot of the user actors currently alive.
	Actors() []*PID
	// NoSender returns the PID used as sender for messages originating
	// outside any actor.
	NoSender() *PID
	// AwaitTermination blocks until the named actor has fully stopped and
	// left the registry. An empty name waits for the whole system to stop;
	// an unknown name returns immediately.
	AwaitTermination(ctx context.Context, name string) error
	// Subscribe registers a consumer of runtime events. With no topics it
	// subscribes to the lifecycle topic.
	Subscribe(topics ...string) (eventstream.Subscriber, error)
	// Unsubscribe removes a previously registered consumer.
	Unsubscribe(sub eventstream.Subscriber) error

	handleEscalation(child, parent *PID, reason error)
	publishEvent(event Event)
	deadletter(from, to *PID, message any, reason string)
}

type actorSystem struct {
	name             string
	logger           log.Logger
	started          *atomic.Bool
	stopping         *atomic.Bool
	scheduler        *dispatcher
	actors           *tree
	registry         *shardedmap.Map[*PID]
	reserved         mapset.Set[string]
	events           eventstream.Stream
	guardianStrategy supervisor.Strategy

	rootGuardian *PID
	userGuardian *PID
	noSender     *PID

	workers         int
	throughput      int
	askTimeout      time.Duration
	shutdownTimeout time.Duration

	terminated chan types.Unit
}

var _ ActorSystem = (*actorSystem)(nil)

// NewActorSystem creates an actor system with the given name. The system
// must be started before use.
func NewActorSystem(name string, opts ...SystemOption) (ActorSystem, error) {
	if name == "" {
		return nil, errors.ErrNameRequired
	}
	if !systemNamePattern.MatchString(name) {
		return nil, errors.ErrInvalidActorSystemName
	}
	system := &actorSystem{
		name:             name,
		logger:           log.DefaultLogger,
		started:          atomic.NewBool(false),
		stopping:         atomic.NewBool(false),
		actors:           newTree(),
		registry:         shardedmap.New[*PID](),
		reserved:         mapset.NewSet(rootGuardianName, userGuardianName, noSenderName),
		events:           eventstream.New(),
		guardianStrategy: supervisor.RestartOnFailure,
		throughput:       DefaultThroughput,
		askTimeout:       DefaultAskTimeout,
		shutdownTimeout:  DefaultShutdownTimeout,
		terminated:       make(chan types.Unit),
	}
	for _, opt := range opts {
		opt(system)
	}
	system.scheduler = newDispatcher(system.workers, system.throughput, system.logger)
	return system, nil
}

func (x *actorSystem) Name() string {
	return x.name
}

func (x *actorSystem) Logger() log.Logger {
	return x.logger
}

func (x *actorSystem) Running() bool {
	return x.started.Load()
}

func (x *actorSystem) Start(ctx context.Context) error {
	if x.started.Load() {
		return errors.ErrActorSystemAlreadyStarted
	}
	x.scheduler.start()

	var err error
	if x.rootGuardian, err = x.spawnSystemActor(ctx, nil, rootGuardianName, rootGuardian(x.logger)); err != nil {
		return err
	}
	if x.userGuardian, err = x.spawnSystemActor(ctx, x.rootGuardian, userGuardianName, userGuardian(x.logger)); err != nil {
		return err
	}
	if x.noSender, err = x.spawnSystemActor(ctx, x.rootGuardian, noSenderName, noSenderActor(x.logger)); err != nil {
		return err
	}

	x.started.Store(true)
	x.logger.Infof("%s started", x.name)
	return nil
}

func (x *actorSystem) Stop(ctx context.Context) error {
	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}
	if !x.stopping.CompareAndSwap(false, true) {
		// another caller is already stopping; wait for it
		select {
		case <-x.terminated:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	x.logger.Infof("%s shutting down...", x.name)

	// the root guardian cascade takes the whole tree down bottom-up
	err := x.rootGuardian.Shutdown(ctx)

	x.scheduler.shutdown()
	x.events.Close()
	x.actors.reset()
	x.registry.Reset()
	x.started.Store(false)
	close(x.terminated)
	x.logger.Infof("%s stopped", x.name)
	return err
}

func (x *actorSystem) Spawn(ctx context.Context, name string, factory Factory, opts ...SpawnOption) (*PID, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	return x.spawn(ctx, x.userGuardian, name, factory, opts...)
}

func (x *actorSystem) Kill(ctx context.Context, name string) error {
	pid, err := x.ActorOf(name)
	if err != nil {
		return err
	}
	return pid.Shutdown(ctx)
}

func (x *actorSystem) Tell(ctx context.Context, to *PID, message any) error {
	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}
	return x.noSender.Tell(ctx, to, message)
}

func (x *actorSystem) Ask(ctx context.Context, to *PID, message any, timeout time.Duration) (any, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	if timeout <= 0 {
		timeout = x.askTimeout
	}
	return x.noSender.Ask(ctx, to, message, timeout)
}

func (x *actorSystem) ActorOf(name string) (*PID, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	pid, ok := x.registry.Get(name)
	if !ok || pid == nil {
		return nil, errors.ErrActorNotFound
	}
	return pid, nil
}

func (x *actorSystem) Actors() []*PID {
	var pids []*PID
	x.registry.Range(func(_ string, pid *PID) bool {
		if pid != nil && !pid.isSystem {
			pids = append(pids, pid)
		}
		return true
	})
	return pids
}

func (x *actorSystem) NoSender() *PID {
	return x.noSender
}

func (x *actorSystem) AwaitTermination(ctx context.Context, name string) error {
	if name == "" {
		select {
		case <-x.terminated:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	pid, ok := x.registry.Get(name)
	if !ok || pid == nil {
		return nil
	}
	return pid.AwaitTermination(ctx)
}

func (x *actorSystem) Subscribe(topics ...string) (eventstream.Subscriber, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	sub := x.events.AddSubscriber()
	if len(topics) == 0 {
		topics = []string{EventsTopic}
	}
	for _, topic := range topics {
		x.events.Subscribe(sub, topic)
	}
	return sub, nil
}

func (x *actorSystem) Unsubscribe(sub eventstream.Subscriber) error {
	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}
	x.events.RemoveSubscriber(sub)
	return nil
}

// spawn is the shared implementation behind Spawn and SpawnChild.
func (x *actorSystem) spawn(ctx context.Context, parent *PID, name string, factory Factory, opts ...SpawnOption) (*PID, error) {
	if x.stopping.Load() {
		return nil, errors.ErrSystemShuttingDown
	}
	if x.reserved.Contains(name) || strings.HasPrefix(name, reservedPrefix) {
		return nil, errors.ErrReservedName
	}

	var addr *address.Address
	if parent != nil {
		addr = address.NewWithParent(name, parent.Address())
	} else {
		addr = address.New(name, x.name)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	// system-level defaults apply first, per-spawn options override
	opts = append([]SpawnOption{WithStopTimeout(x.shutdownTimeout)}, opts...)
	return x.register(ctx, parent, addr, factory, newSpawnConfig(opts...))
}

// spawnSystemActor creates an internal cell with an unbounded mailbox,
// bypassing name validation and reservation.
func (x *actorSystem) spawnSystemActor(ctx context.Context, parent *PID, name string, factory Factory) (*PID, error) {
	var addr *address.Address
	if parent != nil {
		addr = address.NewWithParent(name, parent.Address())
	} else {
		addr = address.New(name, x.name)
	}
	return x.register(ctx, parent, addr, factory, newSpawnConfig(asSystemActor()))
}

func (x *actorSystem) register(ctx context.Context, parent *PID, addr *address.Address, factory Factory, cfg *spawnConfig) (*PID, error) {
	name := addr.Name()
	// reserve the name before building the cell so two concurrent spawns of
	// the same name cannot both succeed; readers treat a nil entry as absent
	if !x.registry.SetIfAbsent(name, nil) {
		return nil, fmt.Errorf("%w: %s", errors.ErrActorAlreadyExists, name)
	}
	pid, err := newPID(ctx, addr, factory, x, cfg)
	if err != nil {
		x.registry.Delete(name)
		return nil, err
	}
	x.actors.addNode(parent, pid)
	x.registry.Set(name, pid)
	x.publishEvent(&ActorStarted{Address: addr, Timestamp: time.Now()})
	x.logger.Infof("actor=(%s) started", name)
	return pid, nil
}

// unregister removes a stopped cell from the registry and the tree.
func (x *actorSystem) unregister(pid *PID) {
	x.registry.Delete(pid.Name())
	x.actors.deleteNode(pid)
}

// handleEscalation routes a terminal child failure to its parent. Guardians
// contain escalations; an escalation with no remaining policy above it is
// fatal and shuts the system down.
func (x *actorSystem) handleEscalation(child, parent *PID, reason error) {
	notice := &ChildFailed{ActorID: child.ID(), ActorName: child.Name(), Reason: reason}
	switch {
	case parent == nil || (x.rootGuardian != nil && parent.Equals(x.rootGuardian)):
		x.systemFatal(child, reason)
	case x.userGuardian != nil && parent.Equals(x.userGuardian):
		if x.guardianStrategy == supervisor.NeverRestart {
			x.systemFatal(child, reason)
			return
		}
		_ = x.noSender.Tell(context.Background(), parent, notice)
	default:
		if parent.policy.Strategy() == supervisor.NeverRestart {
			parent.handleFault(fmt.Errorf("child=(%s) terminated: %w", child.Name(), reason), notice)
			return
		}
		_ = x.noSender.Tell(context.Background(), parent, notice)
	}
}

// systemFatal handles an escalation that reached the top of the tree with
// no policy left to contain it.
func (x *actorSystem) systemFatal(child *PID, reason error) {
	x.logger.Errorf("unrecoverable failure escalated from actor=(%s): %v, shutting down %s", child.Name(), reason, x.name)
	go func() {
		_ = x.Stop(context.Background())
	}()
}

func (x *actorSystem) publishEvent(event Event) {
	x.events.Publish(EventsTopic, event)
}

// deadletter records an undeliverable or discarded message.
func (x *actorSystem) deadletter(from, to *PID, message any, reason string) {
	letter := &Deadletter{
		Message:   message,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	if from != nil {
		letter.From = from.Address()
	}
	if to != nil {
		letter.To = to.Address()
	}
	x.events.Publish(DeadlettersTopic, letter)
}
