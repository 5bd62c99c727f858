// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

// logEvent traces a queued event when event logging is on.
func (q *EventQueue) logEvent(ev *Event) {
	if q.verbosity == 0 || (q.verbosity < 2 && ev.Type.isMotion()) {
		return
	}
	b := q.log.Debug()
	if !b.Enabled() {
		return
	}
	b.Str("type", ev.Type.String()).
		Uint64("timestamp", ev.Timestamp).
		Interface("payload", ev.Payload).
		Log("event queued")
}

// logDrop warns about a push lost to a full ring, at most as often as the
// drop limiter allows per event type.
func (q *EventQueue) logDrop(ev *Event) {
	b := q.log.Warning()
	if !b.Enabled() {
		return
	}
	if _, ok := q.dropLimiter.Allow(ev.Type); !ok {
		b.Release()
		return
	}
	b.Str("type", ev.Type.String()).
		Int("capacity", q.ring.Cap()).
		Uint64("dropped", q.stats.dropped.Load()).
		Log("event queue full, event dropped")
}

// logStats reports the lifetime counters at shutdown.
func (q *EventQueue) logStats() {
	s := q.Stats()
	q.log.Info().
		Uint64("pushed", s.Pushed).
		Uint64("filtered", s.Filtered).
		Uint64("disabled", s.Disabled).
		Uint64("dropped", s.Dropped).
		Int("max_queued", s.MaxQueued).
		Log("event queue stopped")
}
