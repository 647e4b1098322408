// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package barrier provides a reusable rendezvous point for a fixed number of
// goroutines. Every participant blocks in Wait until all of them have
// arrived, then all are released together and the barrier resets for the
// next trip.
//
// Usage:
//
//	b, err := barrier.New(workers)
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	// In each worker:
//	publish(myPart)
//	if err := b.Wait(ctx); err != nil {
//	    return err
//	}
//	readEveryonesParts()
//
// A barrier whose waiter gives up (context done) is broken: every other
// waiter, current and future, gets ErrBroken, so a stalled participant can
// never leave the rest blocked forever.
package barrier

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidParties is returned by New for a non-positive party count.
	ErrInvalidParties = errors.New("barrier: parties must be positive")

	// ErrBroken is returned to waiters of a barrier that another waiter
	// abandoned.
	ErrBroken = errors.New("barrier: broken")

	// ErrClosed is returned by Wait once Close has been called.
	ErrClosed = errors.New("barrier: closed")
)

// generation is one trip of the barrier. done is closed when the trip
// completes, is broken, or the barrier is closed; err is written before
// done is closed.
type generation struct {
	done chan struct{}
	err  error
}

// Barrier blocks a fixed number of parties until all have called Wait.
type Barrier struct {
	parties int

	mu      sync.Mutex
	arrived int
	gen     *generation
	broken  bool
	closed  bool
}

// New creates a barrier for the given number of parties.
func New(parties int) (*Barrier, error) {
	if parties < 1 {
		return nil, errors.Wrapf(ErrInvalidParties, "got %d", parties)
	}
	return &Barrier{
		parties: parties,
		gen:     &generation{done: make(chan struct{})},
	}, nil
}

// Parties returns the number of goroutines required to trip the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Arrived returns the number of goroutines currently waiting.
func (b *Barrier) Arrived() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.arrived
}

// Wait blocks until Parties goroutines have called Wait since the last trip.
// The last arrival releases everyone and resets the count.
//
// If ctx is done first, the barrier breaks: this call returns ctx.Err() and
// all other waiters return ErrBroken.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	switch {
	case b.closed:
		b.mu.Unlock()
		return ErrClosed
	case b.broken:
		b.mu.Unlock()
		return ErrBroken
	}

	b.arrived++
	if b.arrived == b.parties {
		b.trip(nil)
		b.mu.Unlock()
		return nil
	}
	gen := b.gen
	b.mu.Unlock()

	select {
	case <-gen.done:
		return gen.err
	case <-ctx.Done():
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		// The trip (or a break) raced with ctx; honour it.
		return gen.err
	}
	b.broken = true
	b.trip(ErrBroken)
	return ctx.Err()
}

// trip releases the current generation with err and starts a new one.
// Caller holds b.mu.
func (b *Barrier) trip(err error) {
	gen := b.gen
	gen.err = err
	close(gen.done)
	b.arrived = 0
	b.gen = &generation{done: make(chan struct{})}
}

// Close releases all waiters with ErrClosed. Subsequent Wait calls return
// ErrClosed. Calling Close multiple times is safe.
func (b *Barrier) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.trip(ErrClosed)
}
