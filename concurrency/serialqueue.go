// File: concurrency/serialqueue.go
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0
//
// SerialTaskQueue runs dispatched tasks serially, in dispatch order, on a
// single worker goroutine it owns.
//
// Usage:
//
//	number := 0
//	q := concurrency.NewSerialTaskQueue()
//	q.Dispatch(func() { number += 1 }) // runs on worker goroutine
//	q.Dispatch(func() { number += 2 }) // runs on worker goroutine
//	q.Wait()                           // blocks until both tasks are done
//	q.Close()
//	// number == 3
//
// NewSerialTaskQueue, Dispatch, Wait, and Close must all be called from
// the same goroutine.
package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// SerialTaskQueue owns a FIFO of zero-argument callables and a single
// worker goroutine that drains it in order.
type SerialTaskQueue struct {
	mu        sync.Mutex
	cond      *sync.Cond
	pending   *queue.Queue
	destroyed bool
	waiting   bool
	joined    chan struct{}
}

// NewSerialTaskQueue creates the queue and starts its worker goroutine.
func NewSerialTaskQueue() *SerialTaskQueue {
	q := &SerialTaskQueue{
		pending: queue.New(),
		joined:  make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.work()
	return q
}

// Dispatch enqueues a task. It is a contract violation to dispatch after
// Close has begun, or while Wait is blocking.
func (q *SerialTaskQueue) Dispatch(task func()) {
	q.mu.Lock()
	assert(!q.destroyed, "dispatch after close")
	assert(!q.waiting, "dispatch while wait is blocking")
	q.pending.Add(task)
	q.mu.Unlock()

	q.cond.Signal()
}

// Wait blocks the calling goroutine until the queue becomes empty — no
// task pending and none running. It is idempotent: calling it again
// immediately after it returns returns promptly. Calling Wait while
// another Wait is blocking is a contract violation.
func (q *SerialTaskQueue) Wait() {
	q.mu.Lock()
	assert(!q.waiting, "wait while another wait is blocking")
	q.waiting = true
	for q.pending.Length() > 0 {
		q.cond.Wait()
	}
	q.waiting = false
	q.mu.Unlock()
}

// Close marks the queue destroyed, wakes the worker, and joins it.
// Pending tasks are dropped silently.
func (q *SerialTaskQueue) Close() {
	q.mu.Lock()
	assert(!q.destroyed, "close called twice")
	q.destroyed = true
	q.mu.Unlock()

	q.cond.Signal()
	<-q.joined
}

// work is the worker loop. It mirrors the run-then-pop ordering that
// makes an empty queue the exact predicate for "no task pending and none
// running": Wait can block purely on emptiness without extra bookkeeping.
func (q *SerialTaskQueue) work() {
	for {
		q.mu.Lock()
		for q.pending.Length() == 0 && !q.destroyed {
			q.cond.Wait()
		}
		if q.destroyed {
			q.mu.Unlock()
			close(q.joined)
			return
		}
		task := q.pending.Peek().(func())
		q.mu.Unlock()

		task()

		q.mu.Lock()
		q.pending.Remove()
		wakeWaiter := q.waiting && q.pending.Length() == 0
		q.mu.Unlock()

		if wakeWaiter {
			q.cond.Signal()
		}
	}
}
