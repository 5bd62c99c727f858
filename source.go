// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import "slices"

// Source produces events when the queue is pumped. Platform input backends
// implement it and call PushEvent from PumpEvents.
type Source interface {
	PumpEvents(q *EventQueue)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(q *EventQueue)

// PumpEvents calls f(q).
func (f SourceFunc) PumpEvents(q *EventQueue) { f(q) }

type sourceEntry struct {
	handle Handle
	src    Source
}

// AddSource registers src to run on every pump. While at least one source
// is registered, blocking waits wake every poll interval to pump again.
func (q *EventQueue) AddSource(src Source) (Handle, error) {
	if src == nil {
		return 0, ErrNilCallback
	}
	h := Handle(q.nextHandle.AddAcqRel(1))
	q.sourcesMu.Lock()
	defer q.sourcesMu.Unlock()
	next := append(slices.Clone(*q.sources.Load()), sourceEntry{handle: h, src: src})
	q.sources.Store(&next)
	return h, nil
}

// RemoveSource unregisters the source added under h and reports whether it
// was present.
func (q *EventQueue) RemoveSource(h Handle) bool {
	q.sourcesMu.Lock()
	defer q.sourcesMu.Unlock()
	cur := *q.sources.Load()
	i := slices.IndexFunc(cur, func(s sourceEntry) bool { return s.handle == h })
	if i < 0 {
		return false
	}
	next := slices.Delete(slices.Clone(cur), i, i+1)
	q.sources.Store(&next)
	return true
}
