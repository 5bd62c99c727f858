// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Enqueue: the ring is full (backpressure)
// For Dequeue: the ring is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation later (with backoff or yield) rather than propagating
// the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&ev)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if evq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err
//	}
var ErrWouldBlock = iox.ErrWouldBlock

var (
	// ErrQueueFull is returned by [EventQueue.PushEvent] and
	// [EventQueue.PeepEvents] when the ring has no free slot.
	// It wraps [ErrWouldBlock], so IsWouldBlock reports true for it.
	ErrQueueFull = fmt.Errorf("evq: event queue full: %w", ErrWouldBlock)

	// ErrFiltered reports that the active event filter rejected a push.
	ErrFiltered = errors.New("evq: event filtered")

	// ErrDisabled reports that the event type is disabled.
	ErrDisabled = errors.New("evq: event type disabled")

	// ErrInvalidType reports an event type outside [EventFirst, EventLast].
	ErrInvalidType = errors.New("evq: invalid event type")

	// ErrInvalidAction reports an unknown [PeepAction].
	ErrInvalidAction = errors.New("evq: invalid peep action")

	// ErrClosed is returned once [EventQueue.Quit] has been called.
	ErrClosed = errors.New("evq: event queue closed")

	// ErrNotGated is returned by Exclusive on a ring built without a gate.
	ErrNotGated = errors.New("evq: ring is not gated")

	// ErrWrongThread is the panic value used when thread checking is enabled
	// and a main-thread operation runs on another OS thread.
	ErrWrongThread = errors.New("evq: called off the owning thread")

	// ErrNilCallback is returned when a nil filter, watch or source is registered.
	ErrNilCallback = errors.New("evq: nil callback")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// IsDropped reports whether err means a push was intentionally discarded,
// either by the event filter or by the enabled mask. A dropped event is not
// a delivery failure.
func IsDropped(err error) bool {
	return errors.Is(err, ErrFiltered) || errors.Is(err, ErrDisabled)
}
