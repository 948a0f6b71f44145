package core

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jmgilman/go/vfs/errors"
)

// State is a backend's lifecycle state.
type State int32

const (
	// StateUninitialized is the state of a newly constructed backend.
	StateUninitialized State = iota
	// StateInitializing is the state while Init runs.
	StateInitializing
	// StateReady is the state after a successful Init.
	StateReady
	// StateClosed is the state after Close or a failed Init.
	StateClosed
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lifecycle implements the readiness protocol shared by all bundled
// backends. Backends hold one as a private field, run their setup through
// Start and guard every operation with Await.
//
// Before readiness, Await queues at most one caller; further concurrent
// callers are rejected with NOT_READY. The zero value is not usable; create
// one with NewLifecycle.
type Lifecycle struct {
	mu     sync.Mutex
	state  State
	err    error
	ready  chan struct{}
	done   chan struct{}
	waiter *semaphore.Weighted
}

// NewLifecycle returns a Lifecycle in the Uninitialized state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
		waiter: semaphore.NewWeighted(1),
	}
}

// Start runs setup exactly once and moves to Ready on success or Closed on
// failure. Calling Start again returns a CONFLICT error without running
// setup.
func (l *Lifecycle) Start(ctx context.Context, setup func(ctx context.Context) error) error {
	l.mu.Lock()
	if l.state != StateUninitialized {
		state := l.state
		l.mu.Unlock()
		return errors.WithContext(
			errors.PathError(errors.CodeConflict, "init", "", "init already called"),
			"state", state.String(),
		)
	}
	l.state = StateInitializing
	l.mu.Unlock()

	err := setup(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Close ran while setup was in progress.
	if l.state == StateClosed {
		if err != nil {
			return err
		}
		return errors.PathError(errors.CodeClosed, "init", "", "backend closed during init")
	}

	if err != nil {
		l.state = StateClosed
		l.err = err
		close(l.done)
		return err
	}

	l.state = StateReady
	close(l.ready)
	close(l.done)
	return nil
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error that made Init fail, if any.
func (l *Lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Ready returns a channel closed once, on the transition to Ready.
func (l *Lifecycle) Ready() <-chan struct{} {
	return l.ready
}

// Done returns a channel closed once the backend leaves the
// Uninitialized/Initializing states, whether by becoming Ready, failing
// Init or being closed.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// Await returns nil once the backend is Ready. Before readiness one caller
// waits for the outcome; concurrent callers beyond it fail with NOT_READY.
// After Close, or after a failed Init, Await fails with CLOSED. The op and
// name attribute the returned error.
func (l *Lifecycle) Await(ctx context.Context, op, name string) error {
	if err := l.check(op, name); err != errNotYet {
		return err
	}

	if !l.waiter.TryAcquire(1) {
		return errors.PathError(errors.CodeNotReady, op, name, "backend not ready and another call is already waiting")
	}
	defer l.waiter.Release(1)

	select {
	case <-l.done:
		return l.check(op, name)
	case <-ctx.Done():
		return errors.WrapPath(ctx.Err(), errors.CodeNotReady, op, name, "gave up waiting for readiness")
	}
}

// Close moves to the Closed state. It reports whether the backend was Ready,
// i.e. whether the caller has resources to release.
func (l *Lifecycle) Close() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateClosed:
		return false
	case StateReady:
		l.state = StateClosed
		return true
	default:
		l.state = StateClosed
		close(l.done)
		return false
	}
}

var errNotYet = errors.New(errors.CodeNotReady, "not yet ready")

func (l *Lifecycle) check(op, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateReady:
		return nil
	case StateClosed:
		if l.err != nil {
			return errors.WrapPath(l.err, errors.CodeClosed, op, name, "backend failed to initialize")
		}
		return errors.PathError(errors.CodeClosed, op, name, "backend closed")
	default:
		return errNotYet
	}
}
