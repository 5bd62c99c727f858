// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package evq provides a bounded cross-goroutine event queue.
//
// Events are stored by value in a lock-free ring with per-slot sequence
// numbers. Any goroutine may push; one consumer goroutine pumps, polls and
// waits. Every push passes three admission checks, strictest first:
//
//   - Enabled mask: a disabled type is dropped before anything sees it
//   - Filter: a single replaceable predicate that can veto the event
//   - Watches: observers run in registration order, without veto
//
// # Quick Start
//
//	q, err := evq.New(evq.WithCapacity(1024))
//	if err != nil {
//	    return err
//	}
//	defer q.Quit()
//
//	// Any goroutine
//	ev := evq.Event{Type: evq.EventWindowResized, Payload: evq.WindowEvent{WindowID: 1, Data1: 640, Data2: 480}}
//	if err := q.PushEvent(&ev); err != nil && !evq.IsDropped(err) {
//	    // ring full or queue closed
//	}
//
//	// Consumer goroutine
//	var got evq.Event
//	for q.PollEvent(&got) {
//	    handle(got)
//	}
//
// # Push Results
//
// PushEvent separates intentional drops from lost capacity:
//
//	nil            queued
//	ErrDisabled    type disabled (IsDropped)
//	ErrFiltered    vetoed by the filter (IsDropped)
//	ErrQueueFull   ring full (IsWouldBlock)
//	ErrClosed      Quit was called
//
// The queue never retries internally. Callers decide whether to drop,
// retry with iox.Backoff, or log.
//
// # Waiting
//
// WaitEvent, WaitEventTimeout and WaitEventContext block on a wake-up token
// that every successful push posts. Each wake-up pumps the registered
// sources before checking the ring again, and spurious wake-ups cost one
// extra pass. WaitEventTimeout(ev, 0) is PollEvent.
//
// # Administration
//
// PeepEvents adds, peeks or removes events directly, bypassing the mask,
// the filter and the watches. PeepPeek, PeepGet, HasEvents, FlushEvents and
// FilterEvents freeze the ring while they scan it: producers arriving during
// the scan wait at the gate, and their events land after it.
//
// # Sources and Relays
//
// A Source is pumped by PumpEvents on the consumer goroutine. A Relay is a
// source fed from foreign goroutines: Post only buffers, and the pump replays
// the buffer through PushEvent.
//
// # Rings
//
// The ring types are usable on their own:
//
//	q := evq.NewMPMCSeq[Job](1024)                                 // MPMC
//	q := evq.BuildMPSC[Job](evq.NewBuilder(1024).SingleConsumer()) // MPSC
//	q := evq.BuildMPMC[Job](evq.NewBuilder(1024).Gated())          // freezable
//
// Enqueue and Dequeue never block; they return ErrWouldBlock when the ring
// is full or empty. Capacity rounds up to a power of two.
//
// # Thread Safety
//
// PushEvent, PeepEvents, Has*, Flush*, FilterEvents, SetEventFilter, the
// watch and source registries, the enabled mask and RegisterEvents are safe
// from any goroutine. PumpEvents, PollEvent and the waits must stay on the
// consumer goroutine. WithThreadCheck enforces this on Linux for callers
// that lock their OS thread.
package evq
