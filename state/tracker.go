// Package state tracks the loading, error and data state of SDK calls for
// UI layers that render progress and failures.
//
// A [Tracker] wraps one logical operation. Calling [Tracker.Do] flips it to
// loading, clears the previous error, runs the call, and stores either the
// result or the error. The same result is also returned, so callers that
// don't care about state can ignore the tracker entirely.
//
//	var info state.Tracker[*baaskit.AccountRecord]
//	_, err := info.Do(ctx, func(ctx context.Context) (*baaskit.AccountRecord, error) {
//	    return client.Account().Info(ctx)
//	})
//	snap := info.Snapshot() // Loading, Err, Data
package state

import (
	"context"
	"sync"
)

// Snapshot is a point-in-time copy of a [Tracker].
type Snapshot[T any] struct {
	Loading bool
	Err     error
	Data    T
}

// Tracker holds the state of one operation. The zero value is ready to use
// and is safe for concurrent use.
type Tracker[T any] struct {
	mu       sync.Mutex
	loading  int
	err      error
	data     T
	onChange []func(Snapshot[T])
}

// OnChange registers fn to be called with a fresh snapshot whenever the
// state changes. Calls happen outside the tracker's lock.
func (t *Tracker[T]) OnChange(fn func(Snapshot[T])) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.onChange = append(t.onChange, fn)
	t.mu.Unlock()
}

// Do runs fn and records its outcome. Loading stays true until every
// concurrent Do has returned. A failed call keeps the previous data. If fn
// panics, the call stops counting as loading and the panic propagates.
func (t *Tracker[T]) Do(ctx context.Context, fn func(context.Context) (T, error)) (data T, err error) {
	t.mu.Lock()
	t.loading++
	t.err = nil
	t.mu.Unlock()
	t.notify()

	completed := false
	defer func() {
		t.mu.Lock()
		t.loading--
		if completed {
			if err != nil {
				t.err = err
			} else {
				t.data = data
			}
		}
		t.mu.Unlock()
		t.notify()
	}()

	data, err = fn(ctx)
	completed = true
	return data, err
}

// Loading reports whether a call is in flight.
func (t *Tracker[T]) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading > 0
}

// Err returns the error of the most recent failed call, cleared when the
// next call starts.
func (t *Tracker[T]) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Data returns the result of the most recent successful call.
func (t *Tracker[T]) Data() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data
}

// Snapshot returns all three fields under one lock.
func (t *Tracker[T]) Snapshot() Snapshot[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Reset clears error and data. Listeners are kept.
func (t *Tracker[T]) Reset() {
	t.mu.Lock()
	var zero T
	t.err = nil
	t.data = zero
	t.mu.Unlock()
	t.notify()
}

func (t *Tracker[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{Loading: t.loading > 0, Err: t.err, Data: t.data}
}

func (t *Tracker[T]) notify() {
	t.mu.Lock()
	if len(t.onChange) == 0 {
		t.mu.Unlock()
		return
	}
	snap := t.snapshotLocked()
	listeners := make([]func(Snapshot[T]), len(t.onChange))
	copy(listeners, t.onChange)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
