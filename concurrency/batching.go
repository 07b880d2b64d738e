// File: concurrency/batching.go
// Author: d. kovalenko <d.kovalenko@driftkit.dev>
// License: Apache-2.0
//
// DynamicRing absorbs producer/consumer rate mismatches on top of an
// SPSCRing without dropping items: it accumulates writes into a Batch and
// submits a batch into the inner ring once it is full (a partial batch
// only through DrainWrites or at the start of a fresh cycle), doubling the
// batch size (and halving the submission threshold) whenever the consumer
// is observed falling behind. While the inner ring is full the onhold
// batch keeps growing; its size has no bound.

package concurrency

import "github.com/driftkit/concur/api"

var _ api.Batch[any] = (*Batch[any])(nil)

// Batch is an owned, append-only sequence of T used as the unit of
// transfer across the dynamic ring buffer. It is not safe for concurrent
// use: only the producer goroutine touches an onhold Batch, and only the
// consumer goroutine touches one after it has been handed over.
type Batch[T any] struct {
	capacity int
	items    []T
}

// NewBatch allocates a batch with the given target capacity. The batch
// may grow past capacity in the overflow case described on DynamicRing.
func NewBatch[T any](capacity int) *Batch[T] {
	assert(capacity > 0, "batch capacity must be positive")
	return &Batch[T]{capacity: capacity, items: make([]T, 0, capacity)}
}

// Append adds x to the batch.
func (b *Batch[T]) Append(x T) {
	b.items = append(b.items, x)
}

// IsFull reports whether the batch has reached its target capacity.
func (b *Batch[T]) IsFull() bool {
	return len(b.items) >= b.capacity
}

// Len returns the number of items in the batch.
func (b *Batch[T]) Len() int {
	return len(b.items)
}

// Get retrieves the item at index.
func (b *Batch[T]) Get(index int) T {
	return b.items[index]
}

// Slice returns the underlying array.
func (b *Batch[T]) Slice() []T {
	return b.items
}

// DynamicRing wraps an SPSCRing of *Batch[T] handles. Capacity C of the
// inner ring must be a power of two. At most one onhold Batch exists at
// any moment, owned by the producer until it is submitted into the inner
// ring; ownership then passes to the consumer, which discards the batch
// after draining it.
type DynamicRing[T any] struct {
	buffer *SPSCRing[*Batch[T]]
	onhold *Batch[T]

	batchSizeBase int
	thresholdBase int
	batchSize     int
	threshold     int
}

// NewDynamicRing allocates a dynamic ring buffer whose inner SPSC ring has
// the given power-of-two capacity.
func NewDynamicRing[T any](capacity int) *DynamicRing[T] {
	assert(capacity > 0, "dynamic ring capacity must be positive")
	assert(capacity&(capacity-1) == 0, "dynamic ring capacity must be a power of two")
	thresholdBase := capacity / 2
	assert(thresholdBase > 0 && thresholdBase <= capacity, "dynamic ring threshold base out of range")
	return &DynamicRing[T]{
		buffer:        NewSPSCRing[*Batch[T]](capacity),
		batchSizeBase: 1,
		thresholdBase: thresholdBase,
		batchSize:     1,
		threshold:     thresholdBase,
	}
}

// Write enqueues x. It never fails or blocks: if the inner ring is
// temporarily full the item is retained in the onhold batch, which is
// allowed to grow beyond batchSize in that overflow window.
func (d *DynamicRing[T]) Write(x T) {
	writable := d.buffer.writableCap()

	// writable == Cap() means the inner ring is entirely empty: the
	// previous cycle fully drained, so start a fresh adaptation cycle.
	if writable == d.buffer.Cap() {
		d.submitOnhold()
		d.threshold = d.thresholdBase
		d.batchSize = d.batchSizeBase
	}

	if d.onhold == nil {
		d.onhold = NewBatch[T](d.batchSize)
	}
	d.onhold.Append(x)

	if writable == 0 {
		// Inner ring is full; keep retaining items in onhold no matter
		// how large it grows until the consumer drains.
		return
	}

	if d.onhold.IsFull() {
		d.submitOnhold()
		// Back-pressure adaptation: if post-submission writable
		// capacity is at or below threshold, the consumer is falling
		// behind — double the batch size and halve the threshold.
		if writable-1 <= d.threshold {
			d.threshold /= 2
			d.batchSize *= 2
		}
	}
}

// DrainWrites submits any partially-filled onhold batch if the inner ring
// has room. Returns true if nothing remains pending, false if the inner
// ring was full and the caller must retry.
func (d *DynamicRing[T]) DrainWrites() bool {
	if d.onhold == nil {
		return true
	}
	if d.buffer.writableCap() == 0 {
		return false
	}
	d.submitOnhold()
	return true
}

// ReadAll drains every batch currently in the inner ring, concatenates
// their contents in order, and returns the flattened sequence.
func (d *DynamicRing[T]) ReadAll() []T {
	batches := d.buffer.ReadAll()
	var flat []T
	for _, b := range batches {
		flat = append(flat, b.Slice()...)
	}
	return flat
}

// DynamicRingStats reports the current adaptation state for observability
// (mirrors the reference repository's Executor.Stats() map, grounded on
// internal/concurrency/executor.go's statistics accessor rather than a
// logging call — the hot Write/ReadAll path stays silent).
type DynamicRingStats struct {
	BatchSize  int
	Threshold  int
	OnholdLen  int
	InnerAdmit int // batches currently queued in the inner ring
}

// Stats reports the dynamic ring's current adaptation state.
func (d *DynamicRing[T]) Stats() DynamicRingStats {
	onholdLen := 0
	if d.onhold != nil {
		onholdLen = d.onhold.Len()
	}
	return DynamicRingStats{
		BatchSize:  d.batchSize,
		Threshold:  d.threshold,
		OnholdLen:  onholdLen,
		InnerAdmit: d.buffer.Cap() - d.buffer.writableCap(),
	}
}

func (d *DynamicRing[T]) submitOnhold() {
	if d.onhold == nil {
		return
	}
	b := d.onhold
	d.onhold = nil
	written := d.buffer.Write(b)
	assert(written == 1, "submitting a batch into a non-full inner ring must succeed")
}
