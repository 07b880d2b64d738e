// Package api
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
//
// Executor contract for parallel task dispatch.

package api

// Executor abstracts dispatch onto a fixed-size worker pool. Pool size is
// fixed at construction time; resizing is not part of this contract.
type Executor interface {
	// Submit schedules task for execution, returning ErrExecutorClosed
	// if the executor has been closed.
	Submit(task func()) error

	// NumWorkers returns the number of worker goroutines.
	NumWorkers() int
}
