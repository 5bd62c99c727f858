// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples with concurrent producer/consumer goroutines.
// These trigger false positives with Go's race detector because lock-free
// ring synchronization uses atomic sequences that the detector cannot see.
// The examples are correct; they're excluded from race testing.

package evq_test

import (
	"fmt"
	"sync"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/evq"
)

// Example_producers pushes from several goroutines while the consumer
// blocks in WaitEvent.
func Example_producers() {
	q, _ := evq.New(evq.WithCapacity(16))
	defer q.Quit()

	var wg sync.WaitGroup
	for p := range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			ev := evq.Event{Type: evq.EventUser, Payload: evq.UserEvent{Code: int32(p)}}
			for {
				err := q.PushEvent(&ev)
				if !evq.IsWouldBlock(err) {
					break
				}
				backoff.Wait()
			}
		}()
	}

	seen := make([]bool, 3)
	var ev evq.Event
	for range 3 {
		q.WaitEvent(&ev)
		seen[ev.Payload.(evq.UserEvent).Code] = true
	}
	wg.Wait()
	fmt.Println(seen)

	// Output:
	// [true true true]
}

// Example_relay forwards callbacks from a foreign goroutine. Post never runs
// the filter or watches; they run when the consumer pumps.
func Example_relay() {
	q, _ := evq.New()
	defer q.Quit()

	relay := q.NewRelay(64)
	defer relay.Close()

	_, _ = q.AddEventWatch(func(ev *evq.Event) bool {
		fmt.Println("watch:", ev.Type)
		return true
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = relay.Post(evq.Event{Type: evq.EventAudioDeviceAdded, Payload: evq.AudioDeviceEvent{Which: 3}})
	}()
	<-done

	var ev evq.Event
	q.WaitEvent(&ev)
	fmt.Println("got:", ev.Type, ev.Payload.(evq.AudioDeviceEvent).Which)

	// Output:
	// watch: AUDIO_DEVICE_ADDED
	// got: AUDIO_DEVICE_ADDED 3
}

// Example_source pumps a polled backend on every wait.
func Example_source() {
	q, _ := evq.New()
	defer q.Quit()

	pending := []evq.Event{
		{Type: evq.EventJoystickAdded, Payload: evq.JoyDeviceEvent{Which: 1}},
		{Type: evq.EventJoystickButtonDown, Payload: evq.JoyButtonEvent{Which: 1, Button: 2, Down: true}},
	}
	_, _ = q.AddSource(evq.SourceFunc(func(q *evq.EventQueue) {
		for i := range pending {
			_ = q.PushEvent(&pending[i])
		}
		pending = nil
	}))

	var ev evq.Event
	for q.WaitEventTimeout(&ev, 0) {
		fmt.Println(ev.Type)
	}

	// Output:
	// JOYSTICK_ADDED
	// JOYSTICK_BUTTON_DOWN
}
