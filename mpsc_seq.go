// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPSCSeq is a CAS-based multi-producer single-consumer bounded ring.
//
// Producers use CAS to claim slots. The single consumer reads sequentially
// and publishes the head with a plain release store.
//
// Memory: n slots, each padded to a cache line.
type MPSCSeq[T any] struct {
	_        pad
	head     atomix.Uint64 // Consumer reads from here
	_        pad
	tail     atomix.Uint64 // Producers CAS here
	_        pad
	buffer   []mpscSeqSlot[T]
	mask     uint64
	capacity uint64
	gate     *gate
}

type mpscSeqSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// NewMPSCSeq creates a new CAS-based MPSC ring without a gate.
// Capacity rounds up to the next power of 2.
func NewMPSCSeq[T any](capacity int) *MPSCSeq[T] {
	return newMPSCSeq[T](capacity, false)
}

func newMPSCSeq[T any](capacity int, gated bool) *MPSCSeq[T] {
	if capacity < 2 {
		panic("evq: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPSCSeq[T]{
		buffer:   make([]mpscSeqSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}
	if gated {
		q.gate = &gate{}
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element to the ring (multiple producers safe).
// Returns ErrWouldBlock if the ring is full.
func (q *MPSCSeq[T]) Enqueue(elem *T) error {
	if q.gate == nil {
		return q.enqueue(elem)
	}
	q.gate.enter()
	err := q.enqueue(elem)
	q.gate.leave()
	return err
}

func (q *MPSCSeq[T]) enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadAcquire()

		if tail >= head+q.capacity {
			return ErrWouldBlock
		}

		slot := &q.buffer[tail&q.mask]
		seq := slot.seq.LoadAcquire()

		if seq == tail {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *elem
				slot.seq.StoreRelease(tail + 1)
				return nil
			}
		} else if seq < tail {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element (single consumer only).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (q *MPSCSeq[T]) Dequeue() (T, error) {
	if q.gate == nil {
		return q.dequeue()
	}
	q.gate.enter()
	elem, err := q.dequeue()
	q.gate.leave()
	return elem, err
}

func (q *MPSCSeq[T]) dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	slot := &q.buffer[head&q.mask]
	seq := slot.seq.LoadAcquire()

	if seq != head+1 {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := slot.data
	var zero T
	slot.data = zero
	slot.seq.StoreRelease(head + q.capacity)
	q.head.StoreRelease(head + 1)

	return elem, nil
}

// Exclusive freezes the ring and rewrites its contents through fn.
// Returns ErrNotGated unless the ring was built with Gated().
//
// While frozen, the caller of Exclusive is the only consumer, so it may run
// on any goroutine even though Dequeue is single-consumer.
func (q *MPSCSeq[T]) Exclusive(fn func(items []T) []T) error {
	if q.gate == nil {
		return ErrNotGated
	}
	q.gate.freeze()
	defer q.gate.thaw()

	items := make([]T, 0, q.occupancy())
	for {
		elem, err := q.dequeue()
		if err != nil {
			break
		}
		items = append(items, elem)
	}
	kept := fn(items)
	for i := range kept {
		if err := q.enqueue(&kept[i]); err != nil {
			return err
		}
	}
	return nil
}

// Cap returns the ring capacity.
func (q *MPSCSeq[T]) Cap() int {
	return int(q.capacity)
}

// occupancy is a racy snapshot of the number of stored elements.
func (q *MPSCSeq[T]) occupancy() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, q.capacity))
}
