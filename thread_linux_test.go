// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package evq_test

import (
	"runtime"
	"testing"

	"code.hybscloud.com/evq"
)

func TestThreadCheck(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	q, err := evq.New(evq.WithThreadCheck())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer q.Quit()

	// Owning thread
	q.PumpEvents()
	if q.PollEvent(nil) {
		t.Fatalf("PollEvent: unexpected event")
	}

	// Foreign thread: the current thread is locked to this goroutine, so a
	// second locked goroutine runs elsewhere.
	got := make(chan any, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() { got <- recover() }()
		q.PumpEvents()
	}()
	if r := <-got; r != evq.ErrWrongThread {
		t.Fatalf("PumpEvents off thread: got panic %v, want ErrWrongThread", r)
	}

	// Producers are unrestricted.
	done := make(chan error, 1)
	go func() {
		ev := evq.Event{Type: evq.EventUser}
		done <- q.PushEvent(&ev)
	}()
	if err := <-done; err != nil {
		t.Fatalf("PushEvent off thread: %v", err)
	}
}
