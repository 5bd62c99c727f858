// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"sync"

	"code.hybscloud.com/atomix"
	"github.com/eapache/queue"
)

// Relay buffers events posted from foreign goroutines and replays them into
// PushEvent while the queue is pumped.
//
// Use a Relay for callbacks arriving on threads owned by another runtime or
// framework, where running the filter and watches in place could re-enter
// code that is unsafe on that thread. Post only appends to a buffer under a
// mutex. The pump swaps the two buffers and replays the detached one on the
// consumer goroutine, so producers never wait on the replay.
type Relay struct {
	q      *EventQueue
	handle Handle
	limit  int

	mu      sync.Mutex
	pending *queue.Queue // written by Post
	replay  *queue.Queue // drained by the pump

	posted   atomix.Uint64
	rejected atomix.Uint64
	closed   atomix.Bool
}

// NewRelay creates a relay holding at most limit events between pumps and
// registers it as a source of q. A limit below 1 is treated as 1.
func (q *EventQueue) NewRelay(limit int) *Relay {
	r := &Relay{
		q:       q,
		limit:   max(limit, 1),
		pending: queue.New(),
		replay:  queue.New(),
	}
	r.handle, _ = q.AddSource(r)
	return r
}

// Post buffers a copy of ev for the next pump and wakes a blocked wait.
// It returns ErrQueueFull when limit events are already buffered and
// ErrClosed after the relay is closed or the queue has quit.
func (r *Relay) Post(ev Event) error {
	if r.closed.LoadAcquire() || r.q.closed.LoadAcquire() {
		return ErrClosed
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = Ticks()
	}
	r.mu.Lock()
	if r.closed.LoadAcquire() {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.pending.Length() >= r.limit {
		r.mu.Unlock()
		r.rejected.Add(1)
		return ErrQueueFull
	}
	r.pending.Add(ev)
	r.mu.Unlock()
	r.posted.Add(1)
	r.q.wake()
	return nil
}

// PumpEvents replays everything posted since the previous pump.
func (r *Relay) PumpEvents(q *EventQueue) {
	r.mu.Lock()
	r.pending, r.replay = r.replay, r.pending
	r.mu.Unlock()

	for r.replay.Length() > 0 {
		ev := r.replay.Remove().(Event)
		if err := q.PushEvent(&ev); err != nil && !IsDropped(err) {
			q.log.Debug().
				Str("type", ev.Type.String()).
				Err(err).
				Log("relay replay failed")
		}
	}
}

// Pending returns the number of events waiting for the next pump.
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending.Length()
}

// Posted returns how many events Post accepted and how many it rejected.
func (r *Relay) Posted() (accepted, rejected uint64) {
	return r.posted.Load(), r.rejected.Load()
}

// Close unregisters the relay. Events still buffered are discarded, and
// later Posts fail with ErrClosed. Close is idempotent.
func (r *Relay) Close() {
	r.mu.Lock()
	if r.closed.LoadAcquire() {
		r.mu.Unlock()
		return
	}
	r.closed.StoreRelease(true)
	r.pending = queue.New()
	r.mu.Unlock()
	r.q.RemoveSource(r.handle)
}
