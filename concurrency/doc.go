// File: concurrency/doc.go
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0
//
// Package concurrency is a small, dependency-light library of
// goroutine-coordination primitives: a guarded data cell, a spin-lock, a
// lock-free single-producer/single-consumer ring buffer, a dynamic batching
// ring buffer built on top of it, and two task queues: a serial one and a
// parallel one that returns per-task completion handles.
//
// None of the primitives call each other at runtime except the dynamic
// ring buffer, which is built directly on the SPSC ring buffer. Each one
// embodies a memory-ordering, ownership, or scheduling contract that is
// easy to get subtly wrong, which is why they are kept small and
// individually testable rather than folded into a single do-everything
// type.
package concurrency
