// Package api
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
//
// Single-producer/single-consumer ring buffer contract.

package api

// Ring is the contract implemented by the SPSC ring buffer. The dynamic
// batching ring buffer built on top of it does not implement Ring: its
// Write returns nothing and it has no WriteAll, Read or Cap. Exactly one
// goroutine may call
// the write-side methods and exactly one (possibly different) goroutine
// may call the read-side methods; mixing producers or consumers is
// undefined behavior.
type Ring[T any] interface {
	// Write enqueues one element, returning 1 on success or 0 if full.
	Write(item T) int
	// WriteAll enqueues as many of items as fit into contiguous writable
	// space, returning the count actually written.
	WriteAll(items []T) int
	// Read dequeues one element, or reports ok=false if empty.
	Read() (item T, ok bool)
	// ReadAll dequeues every currently readable element, in order.
	ReadAll() []T
	// Cap returns the usable capacity (not the underlying slot count,
	// which reserves one extra slot to disambiguate empty from full).
	Cap() int
}
