// File: concurrency/ring.go
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0
//
// SPSCRing is a lock-free single-producer/single-consumer ring buffer.
// Implements api.Ring for cross-package consistency.
//
// The buffer holds capacity+1 slots so the empty and full states remain
// distinguishable without a separate counter: readable range is
// [readIdx, writeIdx) and writable range is [writeIdx, readIdx-1), both
// modulo len(buf). Only the producer goroutine may call Write/WriteAll;
// only the consumer goroutine may call Read/ReadAll. Mixing producers or
// consumers is undefined behavior.

package concurrency

import (
	"math"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/driftkit/concur/api"
)

var _ api.Ring[any] = (*SPSCRing[any])(nil)

// SPSCRing is a fixed-capacity, lock-free ring buffer for exactly one
// producer and one consumer goroutine.
type SPSCRing[T any] struct {
	buf []T

	writeIdx atomic.Uint64 // mutated only by the producer
	_        cpu.CacheLinePad
	readIdx  atomic.Uint64 // mutated only by the consumer
	_        cpu.CacheLinePad
}

// NewSPSCRing allocates a ring buffer for the requested capacity. One
// extra slot is reserved internally to disambiguate empty from full.
func NewSPSCRing[T any](capacity int) *SPSCRing[T] {
	assert(capacity > 0, "ring buffer capacity must be positive")
	assert(uint64(capacity) < math.MaxUint64/2, "ring buffer capacity too large")
	r := &SPSCRing[T]{buf: make([]T, capacity+1)}
	return r
}

// Write enqueues one element. Returns 1 on success, 0 if full.
func (r *SPSCRing[T]) Write(item T) int {
	return r.writeSlice([]T{item})
}

// WriteAll enqueues up to len(items) elements into contiguous writable
// space (possibly wrapping). Returns the count actually written; 0 if
// full.
func (r *SPSCRing[T]) WriteAll(items []T) int {
	return r.writeSlice(items)
}

func (r *SPSCRing[T]) writeSlice(data []T) int {
	// Acquire the consumer's published read index, then read our own
	// write index relaxed (only this goroutine mutates it).
	rd := r.readIdx.Load()
	wr := r.writeIdx.Load()

	if r.isFull(rd, wr) || len(data) == 0 {
		return 0
	}

	avail := r.writable(rd, wr)
	n := len(data)
	if n > avail {
		n = avail
	}

	firstPart := len(r.buf) - int(wr)
	if firstPart > n {
		firstPart = n
	}
	copy(r.buf[wr:], data[:firstPart])
	secondPart := n - firstPart
	if secondPart > 0 {
		copy(r.buf[:secondPart], data[firstPart:n])
	}

	// Release: publish the new write index so the consumer's next
	// acquire-load observes the elements just stored above it.
	r.writeIdx.Store(r.advance(wr, uint64(n)))
	return n
}

// Read dequeues one element or reports ok=false if empty.
func (r *SPSCRing[T]) Read() (item T, ok bool) {
	out := r.readSlice(1)
	if len(out) == 0 {
		return item, false
	}
	return out[0], true
}

// ReadAll dequeues all currently readable elements, in order.
func (r *SPSCRing[T]) ReadAll() []T {
	return r.readSlice(r.Cap())
}

func (r *SPSCRing[T]) readSlice(count int) []T {
	// Acquire the producer's published write index, then read our own
	// read index relaxed (only this goroutine mutates it).
	wr := r.writeIdx.Load()
	rd := r.readIdx.Load()

	if r.isEmpty(rd, wr) || count == 0 {
		return nil
	}

	avail := r.readable(rd, wr)
	n := count
	if n > avail {
		n = avail
	}

	out := make([]T, n)
	firstPart := len(r.buf) - int(rd)
	if firstPart > n {
		firstPart = n
	}
	copy(out, r.buf[rd:rd+uint64(firstPart)])
	secondPart := n - firstPart
	if secondPart > 0 {
		copy(out[firstPart:], r.buf[:secondPart])
	}

	// Release: publish the new read index so the producer's next
	// acquire-load observes the freed slots.
	r.readIdx.Store(r.advance(rd, uint64(n)))
	return out
}

// Cap returns the requested capacity N (not the N+1 slots actually
// allocated to keep empty/full distinguishable).
func (r *SPSCRing[T]) Cap() int {
	return len(r.buf) - 1
}

// writableCap returns the current writable capacity. Only meaningful
// when called from the producer goroutine.
func (r *SPSCRing[T]) writableCap() int {
	rd := r.readIdx.Load()
	wr := r.writeIdx.Load()
	return r.writable(rd, wr)
}

func (r *SPSCRing[T]) advance(idx, n uint64) uint64 {
	return (idx + n) % uint64(len(r.buf))
}

func (r *SPSCRing[T]) readable(rd, wr uint64) int {
	if wr >= rd {
		return int(wr - rd)
	}
	return r.Cap() - int(rd-wr-1)
}

func (r *SPSCRing[T]) writable(rd, wr uint64) int {
	return r.Cap() - r.readable(rd, wr)
}

func (r *SPSCRing[T]) isEmpty(rd, wr uint64) bool {
	return rd == wr
}

func (r *SPSCRing[T]) isFull(rd, wr uint64) bool {
	return (wr+1)%uint64(len(r.buf)) == rd
}
