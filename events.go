// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// epoch anchors event timestamps to a monotonic clock reading.
var epoch = time.Now()

// Ticks returns the monotonic nanoseconds used for event timestamps.
func Ticks() uint64 {
	return uint64(time.Since(epoch))
}

// PeepAction selects the behavior of [EventQueue.PeepEvents].
type PeepAction int

const (
	// PeepAdd enqueues the events of the buffer.
	PeepAdd PeepAction = iota
	// PeepPeek copies matching events without removing them.
	PeepPeek
	// PeepGet removes matching events and copies them into the buffer.
	PeepGet
)

func (a PeepAction) String() string {
	switch a {
	case PeepAdd:
		return "add"
	case PeepPeek:
		return "peek"
	case PeepGet:
		return "get"
	}
	return fmt.Sprintf("PeepAction(%d)", int(a))
}

// EventQueue is a bounded cross-goroutine event queue.
//
// PushEvent and PeepEvents may be called from any goroutine. PumpEvents,
// PollEvent and the waits belong to one consumer goroutine, normally the
// one driving the platform sources.
type EventQueue struct {
	ring eventRing

	hooksMu sync.Mutex
	hooks   atomic.Pointer[hooks]

	sourcesMu sync.Mutex
	sources   atomic.Pointer[[]sourceEntry]

	mask       disabledMask
	nextHandle atomix.Uint64
	userNext   atomix.Uint64

	wakeCh    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closed    atomix.Bool

	quitPending atomix.Uint64
	stopSignals func()

	ownerTID int

	log          *logiface.Logger[logiface.Event]
	verbosity    int
	dropLimiter  *catrate.Limiter
	pollInterval time.Duration

	stats counters
}

// New creates an event queue.
//
// It returns an error for a capacity below 2.
func New(opts ...Option) (*EventQueue, error) {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}
	if c.capacity < 2 {
		return nil, fmt.Errorf("evq: capacity must be >= 2, got %d", c.capacity)
	}

	b := NewBuilder(c.capacity).Gated()
	if c.singleConsumer {
		b.SingleConsumer()
	}

	q := &EventQueue{
		ring:         Build[Event](b).(eventRing),
		wakeCh:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		log:          c.logger,
		verbosity:    c.verbosity,
		pollInterval: c.pollInterval,
	}
	if len(c.dropLogRates) != 0 {
		q.dropLimiter = catrate.NewLimiter(c.dropLogRates)
	}
	q.hooks.Store(&hooks{})
	q.sources.Store(&[]sourceEntry{})
	q.userNext.StoreRelaxed(uint64(EventUser))
	for _, t := range defaultDisabled {
		q.mask.set(t, false)
	}
	if c.threadCheck {
		q.ownerTID = currentThreadID()
	}
	if c.quitSignals {
		q.stopSignals = q.notifyQuitSignals()
	}

	q.log.Debug().
		Int("capacity", q.ring.Cap()).
		Bool("single_consumer", c.singleConsumer).
		Int("verbosity", c.verbosity).
		Log("event queue started")

	return q, nil
}

// Quit shuts the queue down. Blocked waits return false, and later pushes
// fail with ErrClosed. Events still queued can be drained with PeepEvents.
// Quit is idempotent.
func (q *EventQueue) Quit() {
	q.closeOnce.Do(func() {
		q.closed.StoreRelease(true)
		close(q.done)
		if q.stopSignals != nil {
			q.stopSignals()
		}
		q.logStats()
	})
}

// PushEvent runs ev through the enabled mask, the filter and the watch list,
// then enqueues a copy.
//
// The result is nil when the event was queued, ErrDisabled or ErrFiltered
// when it was intentionally dropped (see [IsDropped]), and ErrQueueFull,
// ErrInvalidType or ErrClosed on failure.
func (q *EventQueue) PushEvent(ev *Event) error {
	if q.closed.LoadAcquire() {
		return ErrClosed
	}
	if !ev.Type.Valid() {
		return ErrInvalidType
	}
	if !q.mask.enabled(ev.Type) {
		q.stats.disabled.Add(1)
		return ErrDisabled
	}

	e := *ev
	e.Reserved = 0
	if e.Timestamp == 0 {
		e.Timestamp = Ticks()
	}

	if !q.loadHooks().run(&e) {
		q.stats.filtered.Add(1)
		return ErrFiltered
	}

	if err := q.enqueue(&e); err != nil {
		q.stats.dropped.Add(1)
		q.logDrop(&e)
		return err
	}
	q.stats.pushed.Add(1)
	q.wake()
	return nil
}

// enqueue stores ev in the ring, bypassing mask, filter and watches.
func (q *EventQueue) enqueue(ev *Event) error {
	if err := q.ring.Enqueue(ev); err != nil {
		return ErrQueueFull
	}
	q.stats.observe(q.ring.occupancy())
	q.logEvent(ev)
	return nil
}

// PeepEvents is the administrative bulk operation. It bypasses the enabled
// mask, the filter and the watch list.
//
// PeepAdd enqueues events in order and returns how many were stored,
// together with ErrQueueFull if the ring filled up first. PeepPeek and
// PeepGet copy up to len(events) queued events whose type lies in
// [minType, maxType], oldest first; PeepGet also removes them. With an empty
// buffer, PeepPeek and PeepGet count the matching events instead.
func (q *EventQueue) PeepEvents(events []Event, action PeepAction, minType, maxType Type) (int, error) {
	if q.closed.LoadAcquire() && action == PeepAdd {
		return 0, ErrClosed
	}
	switch action {
	case PeepAdd:
		for i := range events {
			if err := q.enqueue(&events[i]); err != nil {
				if i > 0 {
					q.wake()
				}
				return i, err
			}
		}
		if len(events) > 0 {
			q.wake()
		}
		return len(events), nil
	case PeepPeek, PeepGet:
		var used int
		err := q.ring.Exclusive(func(items []Event) []Event {
			kept := items[:0]
			for _, ev := range items {
				if ev.Type < minType || ev.Type > maxType {
					kept = append(kept, ev)
					continue
				}
				if len(events) == 0 {
					used++
					kept = append(kept, ev)
					continue
				}
				if used < len(events) {
					events[used] = ev
					used++
					if action == PeepGet {
						continue
					}
				}
				kept = append(kept, ev)
			}
			return kept
		})
		return used, err
	default:
		return 0, ErrInvalidAction
	}
}

// HasEvent reports whether an event of type t is queued.
func (q *EventQueue) HasEvent(t Type) bool {
	return q.HasEvents(t, t)
}

// HasEvents reports whether an event with a type in [minType, maxType] is
// queued.
func (q *EventQueue) HasEvents(minType, maxType Type) bool {
	n, _ := q.PeepEvents(nil, PeepPeek, minType, maxType)
	return n > 0
}

// FlushEvent discards every queued event of type t.
func (q *EventQueue) FlushEvent(t Type) {
	q.FlushEvents(t, t)
}

// FlushEvents discards every queued event with a type in [minType, maxType].
// Producers pushing concurrently wait at the ring gate and their events land
// after the flush, untouched.
func (q *EventQueue) FlushEvents(minType, maxType Type) {
	_ = q.ring.Exclusive(func(items []Event) []Event {
		kept := items[:0]
		for _, ev := range items {
			if ev.Type < minType || ev.Type > maxType {
				kept = append(kept, ev)
			}
		}
		return kept
	})
}

// SetEventEnabled enables or disables the type t. Only future pushes are
// affected; queued events of t stay queued until flushed. Enabling a gamepad
// type also enables the joystick types it depends on.
func (q *EventQueue) SetEventEnabled(t Type, enabled bool) {
	if q.mask.set(t, enabled) {
		q.log.Debug().
			Str("type", t.String()).
			Bool("enabled", enabled).
			Log("event type state changed")
	}
}

// IsEventEnabled reports whether pushes of type t are accepted.
func (q *EventQueue) IsEventEnabled(t Type) bool {
	return q.mask.enabled(t)
}

// RegisterEvents reserves count consecutive user event types and returns
// the first. It returns InvalidType when count <= 0 or when fewer than count
// types remain below EventLast.
func (q *EventQueue) RegisterEvents(count int) Type {
	if count <= 0 {
		return InvalidType
	}
	for {
		base := q.userNext.LoadAcquire()
		if base+uint64(count) > uint64(EventLast) {
			return InvalidType
		}
		if q.userNext.CompareAndSwapAcqRel(base, base+uint64(count)) {
			return Type(base)
		}
	}
}

// SendAppEvent pushes a header-only event of type t if t is enabled and
// reports whether it was queued.
func (q *EventQueue) SendAppEvent(t Type) bool {
	if !q.IsEventEnabled(t) {
		return false
	}
	ev := Event{Type: t}
	return q.PushEvent(&ev) == nil
}

// wake releases a blocked wait. The token channel holds at most one wake-up,
// so a push never blocks on it.
func (q *EventQueue) wake() {
	select {
	case q.wakeCh <- struct{}{}:
	default:
	}
}
