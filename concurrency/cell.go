// File: concurrency/cell.go
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0
//
// GuardedCell binds a value to a mutex so the value is only reachable
// through a lock-bearing access token (a Rust-Mutex-style guard).
//
// Usage:
//
//	cell := concurrency.NewGuardedCell(100)
//	g := cell.Acquire() // enter critical section
//	*g.Data() += 1
//	g.Release() // leave critical section
//
//	cell.With(func(v *int) {
//	    *v += 1
//	}) // acquires and releases for you
package concurrency

import "sync"

// GuardedCell owns exactly one value of type T and one mutex. The value
// is reachable only through the CellGuard returned by Acquire.
type GuardedCell[T any] struct {
	mu   sync.Mutex
	data T
}

// NewGuardedCell takes ownership of v and returns a cell guarding it.
func NewGuardedCell[T any](v T) *GuardedCell[T] {
	return &GuardedCell[T]{data: v}
}

// CellGuard is the transient access token returned by Acquire. At most
// one CellGuard per GuardedCell exists at any moment; any other goroutine
// calling Acquire blocks until this one is released. CellGuard is
// move-only by convention: copying it and using the copy after the
// original was released would reach data outside the lock, so callers
// must not store a CellGuard anywhere but a single local variable.
type CellGuard[T any] struct {
	owner    *GuardedCell[T]
	released bool
}

// Acquire blocks until the lock is free, then returns a guard granting
// exclusive access to the underlying value.
func (c *GuardedCell[T]) Acquire() *CellGuard[T] {
	c.mu.Lock()
	return &CellGuard[T]{owner: c}
}

// Data returns a pointer to the guarded value. The pointer must not be
// retained past Release.
func (g *CellGuard[T]) Data() *T {
	assert(!g.released, "cell guard used after release")
	return &g.owner.data
}

// Release drops the lock. Releasing an already-released guard is a
// contract violation.
func (g *CellGuard[T]) Release() {
	assert(!g.released, "cell guard released twice")
	g.released = true
	g.owner.mu.Unlock()
}

// With acquires the lock, runs fn with exclusive access to the value, and
// releases the lock before returning — a closure-based shortcut for
// callers that do not need the raw Acquire/Release pair and want release
// to happen even if fn panics.
func (c *GuardedCell[T]) With(fn func(v *T)) {
	g := c.Acquire()
	defer g.Release()
	fn(g.Data())
}
