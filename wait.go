// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"context"
	"time"
)

// PumpEvents runs every registered source, in registration order, and then
// turns pending quit signals into EventQuit. It is a no-op at the queue level
// when nothing is registered.
//
// PumpEvents belongs to the consumer goroutine.
func (q *EventQueue) PumpEvents() {
	q.checkThread()
	q.pump()
}

func (q *EventQueue) pump() {
	for _, s := range *q.sources.Load() {
		s.src.PumpEvents(q)
	}
	q.sendPendingSignalEvents()
}

// PollEvent pumps once and then removes the oldest queued event into ev.
// It never blocks and reports whether an event was available.
//
// With a nil ev, PollEvent only reports whether an event is queued and
// leaves it in place.
func (q *EventQueue) PollEvent(ev *Event) bool {
	q.checkThread()
	q.pump()
	return q.take(ev)
}

// WaitEvent blocks until an event is available and removes it into ev.
// It returns false only once the queue has been shut down with Quit.
func (q *EventQueue) WaitEvent(ev *Event) bool {
	q.checkThread()
	ok, _ := q.wait(context.Background(), ev, -1)
	return ok
}

// WaitEventTimeout waits up to timeoutMS milliseconds for an event.
// A zero timeout behaves as PollEvent and a negative one as WaitEvent.
// The wait may overrun the timeout by scheduler granularity.
func (q *EventQueue) WaitEventTimeout(ev *Event, timeoutMS int32) bool {
	q.checkThread()
	timeout := time.Duration(timeoutMS) * time.Millisecond
	if timeoutMS < 0 {
		timeout = -1
	}
	ok, _ := q.wait(context.Background(), ev, timeout)
	return ok
}

// WaitEventContext blocks until an event is available or ctx is done.
// It returns ctx.Err() on cancellation and ErrClosed after Quit.
func (q *EventQueue) WaitEventContext(ctx context.Context, ev *Event) error {
	q.checkThread()
	_, err := q.wait(ctx, ev, -1)
	return err
}

// take removes one event into ev, or checks for one when ev is nil.
func (q *EventQueue) take(ev *Event) bool {
	if ev == nil {
		return q.HasEvents(EventFirst, EventLast)
	}
	e, err := q.ring.Dequeue()
	if err != nil {
		return false
	}
	*ev = e
	return true
}

// wait pumps and takes until an event arrives. A negative timeout waits
// forever. Every wake-up re-pumps, so a spurious wake costs one pass.
func (q *EventQueue) wait(ctx context.Context, ev *Event, timeout time.Duration) (bool, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		q.pump()
		if q.take(ev) {
			return true, nil
		}
		if q.closed.LoadAcquire() {
			return false, ErrClosed
		}
		if timeout == 0 {
			return false, nil
		}

		d := time.Duration(-1)
		if timeout > 0 {
			d = time.Until(deadline)
			if d <= 0 {
				return false, nil
			}
		}
		if len(*q.sources.Load()) > 0 && (d < 0 || d > q.pollInterval) {
			d = q.pollInterval
		}

		var expired <-chan time.Time
		if d >= 0 {
			if timer == nil {
				timer = time.NewTimer(d)
			} else {
				timer.Reset(d)
			}
			expired = timer.C
		}

		select {
		case <-q.wakeCh:
		case <-expired:
		case <-q.done:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}
