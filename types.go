// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

// Queue is the combined producer-consumer interface for a bounded ring.
//
// Queue provides non-blocking Enqueue and Dequeue operations. Both operations
// return ErrWouldBlock when they cannot proceed (ring full or empty).
//
// The interface intentionally excludes length because accurate counts in
// lock-free algorithms require expensive cross-core synchronization.
//
// Example:
//
//	q := evq.NewMPMCSeq[int](1024)
//
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Handle full ring
//	}
//
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The ring
// stores a copy of the pointed-to value, so the original can be modified
// after Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the ring (non-blocking).
	// Returns nil on success, ErrWouldBlock if the ring is full.
	// Safe for multiple producers on every ring type.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value. The original slot is cleared to allow
// garbage collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the ring (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the ring is empty.
	//
	// Thread safety depends on ring type:
	//   - MPSC: single consumer only
	//   - MPMC: multiple consumers safe
	Dequeue() (T, error)
}

// Freezer is implemented by gated rings.
//
// Exclusive waits until no Enqueue or Dequeue is in flight, blocks new ones,
// and hands fn every element currently stored, oldest first. The elements fn
// returns are stored back in order before the ring reopens. fn must not call
// back into the same ring.
type Freezer[T any] interface {
	Exclusive(fn func(items []T) []T) error
}

// eventRing is the storage contract of an EventQueue.
type eventRing interface {
	Queue[Event]
	Freezer[Event]
	occupancy() int
}
