// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0

package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"
)

// TestSpinLock_MutualExclusion mirrors the balanced-counters scenario: two
// goroutines apply opposite offsets the same number of times under the
// same spin-lock, and the shared integer must return to its initial
// value.
func TestSpinLock_MutualExclusion(t *testing.T) {
	const (
		initial    = 60
		offset1    = 3
		offset2    = -3
		iterations = 10
	)

	var lock SpinLock
	shared := initial

	var go_ atomic.Bool
	var wg sync.WaitGroup
	wg.Add(2)

	run := func(offset int) {
		defer wg.Done()
		for !go_.Load() {
		}
		for i := 0; i < iterations; i++ {
			lock.Lock()
			shared += offset
			lock.Unlock()
		}
	}

	go run(offset1)
	go run(offset2)
	go_.Store(true)
	wg.Wait()

	if shared != initial {
		t.Errorf("expected final value %d, got %d", initial, shared)
	}
}

// TestSpinLock_TryLock checks that TryLock only succeeds while the lock
// is free.
func TestSpinLock_TryLock(t *testing.T) {
	var lock SpinLock

	if !lock.TryLock() {
		t.Fatal("expected first TryLock to succeed")
	}
	if lock.TryLock() {
		t.Error("expected second TryLock to fail while held")
	}
	lock.Unlock()
	if !lock.TryLock() {
		t.Error("expected TryLock to succeed after Unlock")
	}
	lock.Unlock()
}

// TestSpinLock_ManyGoroutines exercises contention across more than two
// waiters incrementing a shared counter by one each.
func TestSpinLock_ManyGoroutines(t *testing.T) {
	const goroutines = 50
	const perGoroutine = 200

	var lock SpinLock
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				lock.Lock()
				counter++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*perGoroutine {
		t.Errorf("expected counter %d, got %d", goroutines*perGoroutine, counter)
	}
}
