// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"os"
	"os/signal"
)

// notifyQuitSignals routes quitSignals to the queue and returns the function
// that stops the routing.
//
// The handler only marks the quit as pending and wakes the consumer; the
// next pump pushes the EventQuit, so the push runs on the consumer goroutine
// like any other source.
func (q *EventQueue) notifyQuitSignals() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, quitSignals...)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-ch:
				q.log.Info().Str("signal", sig.String()).Log("quit signal received")
				q.quitPending.StoreRelease(1)
				q.wake()
			case <-stop:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(stop)
	}
}

// sendPendingSignalEvents pushes EventQuit once per received signal burst.
func (q *EventQueue) sendPendingSignalEvents() {
	if q.quitPending.LoadAcquire() == 0 || !q.quitPending.CompareAndSwapAcqRel(1, 0) {
		return
	}
	if q.IsEventEnabled(EventQuit) {
		ev := Event{Type: EventQuit, Payload: QuitEvent{}}
		_ = q.PushEvent(&ev)
	}
}
