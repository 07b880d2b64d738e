// File: concurrency/spinlock.go
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0
//
// SpinLock is a busy-wait mutual-exclusion primitive for very short
// critical sections. Long waits must use GuardedCell instead.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// SpinLock is a single atomic flag: free (0) or held (1). Not reentrant.
// Fairness between waiters is not guaranteed.
type SpinLock struct {
	flag atomic.Uint32
	_    cpu.CacheLinePad // keep the flag off any neighboring hot field
}

// Lock busy-waits, retrying an atomic compare-and-swap with acquire
// ordering until it observes the previous value as free.
func (s *SpinLock) Lock() {
	for !s.flag.CompareAndSwap(0, 1) {
	}
}

// TryLock attempts to take the lock once, without waiting. It returns
// true if the lock was acquired.
func (s *SpinLock) TryLock() bool {
	return s.flag.CompareAndSwap(0, 1)
}

// Unlock clears the flag with release ordering. Calling Unlock on a lock
// that is not held is a contract violation left undetected, matching the
// reference std::atomic_flag-based implementation.
func (s *SpinLock) Unlock() {
	s.flag.Store(0)
}
