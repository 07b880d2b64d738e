// File: concurrency/taskqueue.go
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0
//
// TaskQueue dispatches tasks onto a fixed-size pool of worker goroutines
// it owns, returning a per-task completion handle (Future) rather than
// running tasks synchronously or serially.
//
// Usage:
//
//	var shared atomic.Int64
//
//	q := concurrency.NewTaskQueue(2)
//	f1 := concurrency.Dispatch(q, func() int { // task 1
//	    shared.Add(1)
//	    return int(shared.Load())
//	})
//	f2 := concurrency.Dispatch(q, func() int { // task 2
//	    shared.Add(-1)
//	    return int(shared.Load())
//	})
//	f1.Wait() // blocks until task 1 is done
//	f2.Wait() // blocks until task 2 is done
//	q.Close()
//
// Tasks still pending when Close runs are dropped silently, and the
// Future handles of dropped tasks never resolve — callers must await
// every handle whose result matters before calling Close.
package concurrency

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/driftkit/concur/api"
)

var _ api.Executor = (*TaskQueue)(nil)

// Future is a one-shot completion handle yielding a dispatched task's
// result. Futures are independent: dropping one does not cancel the
// task, and a task that never runs (because the queue was closed first)
// leaves its Future permanently unresolved.
type Future[R any] struct {
	done   chan struct{}
	result R
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

func (f *Future[R]) complete(v R) {
	f.result = v
	close(f.done)
}

// Wait blocks until the task completes, discarding its result.
func (f *Future[R]) Wait() {
	<-f.done
}

// Get blocks until the task completes and returns its result.
func (f *Future[R]) Get() R {
	<-f.done
	return f.result
}

// TaskQueue owns a FIFO of type-erased, zero-argument callables and a
// fixed pool of worker goroutines that pull from it.
type TaskQueue struct {
	mu         sync.Mutex
	cond       *sync.Cond
	pending    *queue.Queue
	destroyed  bool
	numWorkers int
	wg         sync.WaitGroup
}

// NewTaskQueue spawns n worker goroutines and returns the queue that
// dispatches onto them. n must be at least 1.
func NewTaskQueue(n int) *TaskQueue {
	assert(n >= 1, "task queue worker count must be at least 1")
	q := &TaskQueue{pending: queue.New(), numWorkers: n}
	q.cond = sync.NewCond(&q.mu)
	q.wg.Add(n)
	for i := 0; i < n; i++ {
		go q.work()
	}
	return q
}

// NewSoloTaskQueue is the N=1 specialization: tasks still run on a
// dedicated worker goroutine, but never concurrently with one another.
func NewSoloTaskQueue() *TaskQueue {
	return NewTaskQueue(1)
}

// Submit implements api.Executor: it schedules task for execution,
// returning an *api.Error wrapping api.ErrExecutorClosed if the queue has
// already been closed.
func (q *TaskQueue) Submit(task func()) error {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return api.NewError(api.ErrCodeClosed, "task queue is closed").WithContext("op", "submit")
	}
	q.pending.Add(task)
	q.mu.Unlock()

	q.cond.Signal()
	return nil
}

// NumWorkers returns the fixed worker-pool size.
func (q *TaskQueue) NumWorkers() int {
	return q.numWorkers
}

// Dispatch enqueues fn and returns a Future that resolves to its result
// once some worker runs it. If the queue has already been closed, the
// returned Future is permanently unresolved — matching the silent-drop
// contract for tasks pending at close time.
func Dispatch[R any](q *TaskQueue, fn func() R) *Future[R] {
	fut := newFuture[R]()
	_ = q.Submit(func() {
		fut.complete(fn())
	})
	return fut
}

// Close marks the queue destroyed, wakes every worker, and joins them
// all. Pending tasks are dropped silently.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	assert(!q.destroyed, "close called twice")
	q.destroyed = true
	q.mu.Unlock()

	q.cond.Broadcast()
	q.wg.Wait()
}

// work is a worker's main loop. Unlike SerialTaskQueue's worker, the task
// is popped from the FIFO immediately after being taken, before the lock
// is released — no later predicate needs to distinguish "running" from
// "pending" because there is no Wait/drain operation on this queue.
func (q *TaskQueue) work() {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		for q.pending.Length() == 0 && !q.destroyed {
			q.cond.Wait()
		}
		if q.destroyed {
			q.mu.Unlock()
			return
		}
		task := q.pending.Peek().(func())
		q.pending.Remove()
		q.mu.Unlock()

		task()
	}
}
