// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import "slices"

// EventFilter inspects an event.
//
// Used as the queue filter, returning false drops the event. Used as a
// watch, the result is ignored. The callback may modify *ev; the modified
// event is what gets queued. Filters run on the pushing goroutine, which may
// be any goroutine.
type EventFilter func(ev *Event) bool

// Handle identifies a registered watch or source.
type Handle uint64

// hooks is an immutable snapshot of the filter and watch list. Writers
// replace it wholesale, so a push iterating an old snapshot never sees an
// entry being removed under it.
type hooks struct {
	filter  EventFilter
	watches []watchEntry
}

type watchEntry struct {
	handle Handle
	fn     EventFilter
}

func (q *EventQueue) loadHooks() *hooks {
	return q.hooks.Load()
}

// updateHooks applies fn to a copy of the current snapshot and publishes it.
func (q *EventQueue) updateHooks(fn func(h *hooks)) {
	q.hooksMu.Lock()
	defer q.hooksMu.Unlock()
	cur := q.hooks.Load()
	next := &hooks{
		filter:  cur.filter,
		watches: slices.Clone(cur.watches),
	}
	fn(next)
	q.hooks.Store(next)
}

// SetEventFilter installs fn as the queue filter, returning the filter it
// replaces. A nil fn removes the filter. Events already queued are flushed.
// Pushes that start after SetEventFilter returns see the new filter; a push
// already in flight may still land under the old one.
func (q *EventQueue) SetEventFilter(fn EventFilter) EventFilter {
	var prev EventFilter
	q.updateHooks(func(h *hooks) {
		prev = h.filter
		h.filter = fn
	})
	q.FlushEvents(EventFirst, EventLast)
	return prev
}

// GetEventFilter returns the queue filter and whether one is installed.
func (q *EventQueue) GetEventFilter() (EventFilter, bool) {
	fn := q.loadHooks().filter
	return fn, fn != nil
}

// AddEventWatch appends fn to the watch list. Watches run in registration
// order after the filter accepts an event, and their result is ignored.
// The same function may be added more than once; each registration gets its
// own handle.
func (q *EventQueue) AddEventWatch(fn EventFilter) (Handle, error) {
	if fn == nil {
		return 0, ErrNilCallback
	}
	h := Handle(q.nextHandle.AddAcqRel(1))
	q.updateHooks(func(hk *hooks) {
		hk.watches = append(hk.watches, watchEntry{handle: h, fn: fn})
	})
	return h, nil
}

// RemoveEventWatch removes the watch registered under h and reports whether
// it was present.
func (q *EventQueue) RemoveEventWatch(h Handle) bool {
	var found bool
	q.updateHooks(func(hk *hooks) {
		i := slices.IndexFunc(hk.watches, func(w watchEntry) bool { return w.handle == h })
		if i >= 0 {
			hk.watches = slices.Delete(hk.watches, i, i+1)
			found = true
		}
	})
	return found
}

// FilterEvents runs fn once over the events currently queued and removes
// every event for which it returns false. Edits fn makes to a kept event are
// stored back. Future pushes are unaffected.
//
// The queue is frozen while fn runs: fn must not call back into q.
func (q *EventQueue) FilterEvents(fn EventFilter) {
	if fn == nil {
		return
	}
	_ = q.ring.Exclusive(func(items []Event) []Event {
		kept := items[:0]
		for i := range items {
			if fn(&items[i]) {
				kept = append(kept, items[i])
			}
		}
		return kept
	})
}

// run applies the filter and then the watches to ev.
func (h *hooks) run(ev *Event) bool {
	if h.filter != nil && !h.filter(ev) {
		return false
	}
	for _, w := range h.watches {
		w.fn(ev)
	}
	return true
}
