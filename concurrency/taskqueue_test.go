// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0

package concurrency

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/driftkit/concur/api"
)

// TestTaskQueue_HandlesCompleteness mirrors the reference scenario: pool
// size 3, dispatch 7 tasks each incrementing a shared atomic by +1 if id
// is even else -1, await every handle before Close. Expected final value
// is 7 mod 2 == 1.
func TestTaskQueue_HandlesCompleteness(t *testing.T) {
	const (
		workers = 3
		tasks   = 7
	)

	q := NewTaskQueue(workers)
	defer q.Close()

	var shared atomic.Int64
	futures := make([]*Future[int64], tasks)
	for id := 0; id < tasks; id++ {
		id := id
		futures[id] = Dispatch(q, func() int64 {
			if id%2 == 0 {
				shared.Add(1)
			} else {
				shared.Add(-1)
			}
			return shared.Load()
		})
	}

	for _, f := range futures {
		f.Wait()
	}

	if got := shared.Load(); got != tasks%2 {
		t.Errorf("expected final value %d, got %d", tasks%2, got)
	}
}

func TestTaskQueue_GetReturnsResult(t *testing.T) {
	q := NewTaskQueue(2)
	defer q.Close()

	f := Dispatch(q, func() string { return "done" })
	if got := f.Get(); got != "done" {
		t.Errorf("expected %q, got %q", "done", got)
	}
}

// TestTaskQueue_NumWorkers checks the fixed pool size is reported
// correctly and never changes (no dynamic resizing is in scope).
func TestTaskQueue_NumWorkers(t *testing.T) {
	q := NewTaskQueue(4)
	defer q.Close()
	if q.NumWorkers() != 4 {
		t.Errorf("expected 4 workers, got %d", q.NumWorkers())
	}
}

// TestTaskQueue_SubmitAfterCloseReturnsError checks that Submit reports a
// structured, typed error rather than panicking once the queue is closed
// — unlike the serial queue's dispatch, which asserts.
func TestTaskQueue_SubmitAfterCloseReturnsError(t *testing.T) {
	q := NewTaskQueue(1)
	q.Close()

	err := q.Submit(func() {})
	if err == nil {
		t.Fatal("expected an error submitting to a closed queue")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || !errors.Is(err, api.ErrExecutorClosed) {
		t.Errorf("expected an *api.Error wrapping api.ErrExecutorClosed, got %v", err)
	}
}

// TestTaskQueue_DroppedFutureNeverResolves checks that a Future for a
// task dispatched to an already-closed queue never completes — callers
// must sequence their awaits before Close if results matter.
func TestTaskQueue_DroppedFutureNeverResolves(t *testing.T) {
	q := NewTaskQueue(1)
	q.Close()

	f := Dispatch(q, func() int { return 1 })
	select {
	case <-f.done:
		t.Error("expected the future for a dropped task never to resolve")
	default:
	}
}

// TestTaskQueue_CloseDropsPendingTasks checks Close terminates promptly
// even with tasks still queued, regardless of whether any of them got a
// chance to run first.
func TestTaskQueue_CloseDropsPendingTasks(t *testing.T) {
	q := NewTaskQueue(1)

	block := make(chan struct{})
	q.Submit(func() { <-block })
	for i := 0; i < 5; i++ {
		q.Submit(func() {})
	}
	close(block)
	q.Close()
}

// TestSoloTaskQueue_Determinism mirrors the reference SerialTaskQueue
// (the N=1 TaskQueue specialization, not the dispatch/Wait-based
// SerialTaskQueue of serialqueue.go): seven tasks each adding +1/-1 by id
// parity, the final value equals TASKS % 2, and the last dispatched
// future observes that same final value since tasks run one at a time in
// dispatch order.
func TestSoloTaskQueue_Determinism(t *testing.T) {
	const tasks = 7

	q := NewSoloTaskQueue()
	defer q.Close()
	if q.NumWorkers() != 1 {
		t.Fatalf("expected solo task queue to have exactly 1 worker, got %d", q.NumWorkers())
	}

	number := 0
	futures := make([]*Future[int], tasks)
	for id := 0; id < tasks; id++ {
		id := id
		futures[id] = Dispatch(q, func() int {
			if id%2 == 0 {
				number += 1
			} else {
				number -= 1
			}
			return number
		})
	}

	last := futures[len(futures)-1].Get()
	if number != tasks%2 {
		t.Errorf("expected number %d, got %d", tasks%2, number)
	}
	if last != number {
		t.Errorf("expected last future result %d to equal final number %d", last, number)
	}
}
