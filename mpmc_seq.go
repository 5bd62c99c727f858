// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMCSeq is a CAS-based multi-producer multi-consumer bounded ring.
//
// Every slot carries a sequence number that names the generation it is in:
//   - seq == pos: free for the producer claiming pos
//   - seq == pos+1: holds the element written at pos
//   - anything else: another goroutine is mid-operation, retry
//
// Producers and consumers CAS only the cursors; slot payloads are copied
// outside the CAS and published by a release store of the sequence.
//
// Memory: n slots, each padded to a cache line.
type MPMCSeq[T any] struct {
	_        pad
	tail     atomix.Uint64 // Producer index
	_        pad
	head     atomix.Uint64 // Consumer index
	_        pad
	buffer   []mpmcSeqSlot[T]
	mask     uint64
	capacity uint64
	gate     *gate
}

type mpmcSeqSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// NewMPMCSeq creates a new CAS-based MPMC ring without a gate.
// Capacity rounds up to the next power of 2.
func NewMPMCSeq[T any](capacity int) *MPMCSeq[T] {
	return newMPMCSeq[T](capacity, false)
}

func newMPMCSeq[T any](capacity int, gated bool) *MPMCSeq[T] {
	if capacity < 2 {
		panic("evq: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMCSeq[T]{
		buffer:   make([]mpmcSeqSlot[T], n),
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

// Enqueue adds an element to the ring.
// Returns ErrWouldBlock if the ring is full.
func (q *MPMCSeq[T]) Enqueue(elem *T) error {
	if q.gate == nil {
		return q.enqueue(elem)
	}
	q.gate.enter()
	err := q.enqueue(elem)
	q.gate.leave()
	return err
}

func (q *MPMCSeq[T]) enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *elem
				slot.seq.StoreRelease(tail + 1)
				return nil
			}
		} else if diff < 0 {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the ring.
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (q *MPMCSeq[T]) Dequeue() (T, error) {
	if q.gate == nil {
		return q.dequeue()
	}
	q.gate.enter()
	elem, err := q.dequeue()
	q.gate.leave()
	return elem, err
}

func (q *MPMCSeq[T]) dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(head + q.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Exclusive freezes the ring and rewrites its contents through fn.
// Returns ErrNotGated unless the ring was built with Gated().
//
// Elements returned by fn beyond the ring capacity are discarded and
// reported as ErrWouldBlock.
func (q *MPMCSeq[T]) Exclusive(fn func(items []T) []T) error {
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
func (q *MPMCSeq[T]) Cap() int {
	return int(q.capacity)
}

// occupancy is a racy snapshot of the number of stored elements.
func (q *MPMCSeq[T]) occupancy() int {
	head := q.head.LoadAcquire()
	tail := q.tail.LoadAcquire()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, q.capacity))
}
