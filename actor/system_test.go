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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomlabs/loom/address"
	"github.com/loomlabs/loom/errors"
	"github.com/loomlabs/loom/log"
	"github.com/loomlabs/loom/supervisor"
)

func TestNewActorSystem(t *testing.T) {
	t.Run("requires a name", func(t *testing.T) {
		_, err := NewActorSystem("")
		require.ErrorIs(t, err, errors.ErrNameRequired)
	})
	t.Run("rejects an invalid name", func(t *testing.T) {
		_, err := NewActorSystem("-bad name-")
		require.ErrorIs(t, err, errors.ErrInvalidActorSystemName)
	})
	t.Run("accepts a valid name", func(t *testing.T) {
		system, err := NewActorSystem("good-name_2")
		require.NoError(t, err)
		assert.Equal(t, "good-name_2", system.Name())
	})
}

func TestSystemLifecycle(t *testing.T) {
	ctx := context.TODO()

	t.Run("operations require a started system", func(t *testing.T) {
		system, err := NewActorSystem("idle", WithLogger(log.DiscardLogger))
		require.NoError(t, err)

		_, err = system.Spawn(ctx, "early", newRecorder)
		require.ErrorIs(t, err, errors.ErrActorSystemNotStarted)
		_, err = system.ActorOf("early")
		require.ErrorIs(t, err, errors.ErrActorSystemNotStarted)
		require.ErrorIs(t, system.Stop(ctx), errors.ErrActorSystemNotStarted)
	})

	t.Run("double start fails", func(t *testing.T) {
		system := startTestSystem(t)
		require.ErrorIs(t, system.Start(ctx), errors.ErrActorSystemAlreadyStarted)
	})

	t.Run("stop terminates every actor", func(t *testing.T) {
		system, err := NewActorSystem("short-lived", WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		require.NoError(t, system.Start(ctx))

		var pids []*PID
		for _, name := range []string{"one", "two", "three"} {
			pid, err := system.Spawn(ctx, name, newRecorder)
			require.NoError(t, err)
			pids = append(pids, pid)
		}
		require.Len(t, system.Actors(), 3)

		require.NoError(t, system.Stop(ctx))
		assert.False(t, system.Running())
		for _, pid := range pids {
			assert.Equal(t, Stopped, pid.State())
		}
	})
}

func TestSpawn(t *testing.T) {
	ctx := context.TODO()

	t.Run("rejects duplicate names", func(t *testing.T) {
		system := startTestSystem(t)
		_, err := system.Spawn(ctx, "unique", newRecorder)
		require.NoError(t, err)
		_, err = system.Spawn(ctx, "unique", newRecorder)
		require.ErrorIs(t, err, errors.ErrActorAlreadyExists)
	})

	t.Run("admits exactly one of two concurrent spawns of the same name", func(t *testing.T) {
		system := startTestSystem(t)
		factory := Fn(func(*ReceiveContext) {},
			WithPreStart(func(context.Context) error {
				time.Sleep(5 * time.Millisecond)
				return nil
			}))

		var wg sync.WaitGroup
		spawnErrs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := system.Spawn(ctx, "contested", factory)
				spawnErrs <- err
			}()
		}
		wg.Wait()
		close(spawnErrs)

		var failures []error
		for err := range spawnErrs {
			if err != nil {
				failures = append(failures, err)
			}
		}
		require.Len(t, failures, 1)
		require.ErrorIs(t, failures[0], errors.ErrActorAlreadyExists)

		pid, err := system.ActorOf("contested")
		require.NoError(t, err)
		assert.NotNil(t, pid)
	})

	t.Run("rejects reserved names", func(t *testing.T) {
		system := startTestSystem(t)
		_, err := system.Spawn(ctx, "loom.system.rogue", newRecorder)
		require.ErrorIs(t, err, errors.ErrReservedName)
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		system := startTestSystem(t)
		_, err := system.Spawn(ctx, "-leading-dash", newRecorder)
		require.ErrorIs(t, err, address.ErrInvalidName)
	})

	t.Run("frees the name after the actor stops", func(t *testing.T) {
		system := startTestSystem(t)
		pid, err := system.Spawn(ctx, "recycled", newRecorder)
		require.NoError(t, err)
		require.NoError(t, pid.Shutdown(ctx))

		_, err = system.Spawn(ctx, "recycled", newRecorder)
		require.NoError(t, err)
	})

	t.Run("fails when prestart keeps failing", func(t *testing.T) {
		system := startTestSystem(t)
		_, err := system.Spawn(ctx, "stillborn", Fn(func(*ReceiveContext) {},
			WithPreStart(func(context.Context) error {
				return errors.ErrInitFailure
			})),
			WithInitMaxRetries(1), WithInitTimeout(100*time.Millisecond))
		require.ErrorIs(t, err, errors.ErrInitFailure)
		_, err = system.ActorOf("stillborn")
		require.ErrorIs(t, err, errors.ErrActorNotFound)
	})
}

func TestActorOfAndKill(t *testing.T) {
	ctx := context.TODO()
	system := startTestSystem(t)

	pid, err := system.Spawn(ctx, "findme", newRecorder)
	require.NoError(t, err)

	found, err := system.ActorOf("findme")
	require.NoError(t, err)
	assert.True(t, pid.Equals(found))

	require.NoError(t, system.Kill(ctx, "findme"))
	_, err = system.ActorOf("findme")
	require.ErrorIs(t, err, errors.ErrActorNotFound)
	require.ErrorIs(t, system.Kill(ctx, "findme"), errors.ErrActorNotFound)
}

func TestAwaitTermination(t *testing.T) {
	ctx := context.TODO()
	system := startTestSystem(t)

	pid, err := system.Spawn(ctx, "mortal", newRecorder)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- system.AwaitTermination(ctx, "mortal")
	}()
	require.NoError(t, system.Tell(ctx, pid, stopRequest{}))
	require.NoError(t, <-done)
	assert.Equal(t, Stopped, pid.State())

	// unknown names return immediately
	require.NoError(t, system.AwaitTermination(ctx, "never-existed"))

	// an empty name waits for the whole system
	done = make(chan error, 1)
	go func() {
		done <- system.AwaitTermination(ctx, "")
	}()
	require.NoError(t, system.Stop(ctx))
	require.NoError(t, <-done)
}

func TestLifecycleEvents(t *testing.T) {
	ctx := context.TODO()
	system := startTestSystem(t)

	sub, err := system.Subscribe()
	require.NoError(t, err)

	pid, err := system.Spawn(ctx, "observed", newRecorder)
	require.NoError(t, err)
	require.NoError(t, pid.Shutdown(ctx))

	var events []any
	require.Eventually(t, func() bool {
		collectEvents(sub, &events)
		var started, stopped bool
		for _, event := range events {
			switch e := event.(type) {
			case *ActorStarted:
				started = started || e.Address.Name() == "observed"
			case *ActorStopped:
				stopped = stopped || e.Address.Name() == "observed"
			}
		}
		return started && stopped
	}, waitFor, tick)
	require.NoError(t, system.Unsubscribe(sub))
}

func TestGuardianStrategy(t *testing.T) {
	ctx := context.TODO()

	t.Run("a fatal guardian policy shuts the system down", func(t *testing.T) {
		system, err := NewActorSystem("fatalistic",
			WithLogger(log.DiscardLogger),
			WithGuardianStrategy(supervisor.NeverRestart))
		require.NoError(t, err)
		require.NoError(t, system.Start(ctx))

		pid, err := system.Spawn(ctx, "trigger", newRecorder,
			WithSupervisor(supervisor.NewPolicy(supervisor.WithStrategy(supervisor.NeverRestart))))
		require.NoError(t, err)

		require.NoError(t, system.Tell(ctx, pid, failf("kaput")))
		require.Eventually(t, func() bool {
			return !system.Running()
		}, waitFor, tick)
	})
}
