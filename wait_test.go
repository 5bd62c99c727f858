// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/evq"
)

// =============================================================================
// Poll and Wait
// =============================================================================

func TestPollEventNil(t *testing.T) {
	q := newQueue(t)
	assert.False(t, q.PollEvent(nil))
	push(t, q, evq.EventKeyDown, nil)
	assert.True(t, q.PollEvent(nil))
	assert.True(t, q.PollEvent(nil), "a nil poll must not consume")

	var ev evq.Event
	assert.True(t, q.PollEvent(&ev))
	assert.False(t, q.PollEvent(nil))
}

func TestWaitEventTimeoutZeroIsPoll(t *testing.T) {
	q := newQueue(t)
	var ev evq.Event

	start := time.Now()
	assert.False(t, q.WaitEventTimeout(&ev, 0))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	push(t, q, evq.EventKeyDown, nil)
	assert.True(t, q.WaitEventTimeout(&ev, 0))
	assert.Equal(t, evq.EventKeyDown, ev.Type)
}

func TestWaitEventTimeoutExpires(t *testing.T) {
	q := newQueue(t)
	var ev evq.Event

	start := time.Now()
	assert.False(t, q.WaitEventTimeout(&ev, 30))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

// TestWaitEventWakesOnPush pushes from another goroutine while the consumer
// is blocked.
func TestWaitEventWakesOnPush(t *testing.T) {
	q := newQueue(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		ev := evq.Event{Type: evq.EventWindowExposed, Payload: evq.WindowEvent{WindowID: 3}}
		_ = q.PushEvent(&ev)
	}()

	var ev evq.Event
	start := time.Now()
	require.True(t, q.WaitEventTimeout(&ev, 5000))
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.Equal(t, evq.EventWindowExposed, ev.Type)
	assert.Equal(t, evq.WindowEvent{WindowID: 3}, ev.Payload)
}

func TestWaitEventWakesOnPeepAdd(t *testing.T) {
	q := newQueue(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = q.PeepEvents([]evq.Event{{Type: evq.EventKeyUp}}, evq.PeepAdd, 0, 0)
	}()

	var ev evq.Event
	require.True(t, q.WaitEvent(&ev))
	assert.Equal(t, evq.EventKeyUp, ev.Type)
}

func TestWaitEventQuitUnblocks(t *testing.T) {
	q := newQueue(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Quit()
	}()

	var ev evq.Event
	assert.False(t, q.WaitEvent(&ev))
}

func TestWaitEventContext(t *testing.T) {
	q := newQueue(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var ev evq.Event
	assert.ErrorIs(t, q.WaitEventContext(ctx, &ev), context.DeadlineExceeded)

	push(t, q, evq.EventKeyDown, nil)
	require.NoError(t, q.WaitEventContext(context.Background(), &ev))
	assert.Equal(t, evq.EventKeyDown, ev.Type)

	q.Quit()
	assert.ErrorIs(t, q.WaitEventContext(context.Background(), &ev), evq.ErrClosed)
}

// TestWaitManyProducers blocks the consumer repeatedly while several
// goroutines push, and checks that nothing is lost.
func TestWaitManyProducers(t *testing.T) {
	const producers, perP = 4, 500
	q := newQueue(t, evq.WithCapacity(4096))

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perP {
				ev := evq.Event{Type: evq.EventUser, Payload: evq.UserEvent{WindowID: uint32(p), Code: int32(i)}}
				assert.NoError(t, q.PushEvent(&ev))
			}
		}()
	}

	next := make([]int32, producers)
	var ev evq.Event
	for range producers * perP {
		require.True(t, q.WaitEventTimeout(&ev, 5000))
		u := ev.Payload.(evq.UserEvent)
		require.Equal(t, next[u.WindowID], u.Code, "per-producer order")
		next[u.WindowID]++
	}
	wg.Wait()
	assert.False(t, q.PollEvent(&ev))
}

// =============================================================================
// Sources
// =============================================================================

func TestSourcesPumpedInOrder(t *testing.T) {
	q := newQueue(t)

	var order []string
	h1, err := q.AddSource(evq.SourceFunc(func(q *evq.EventQueue) {
		order = append(order, "video")
		push(t, q, evq.EventWindowShown, nil)
	}))
	require.NoError(t, err)
	_, err = q.AddSource(evq.SourceFunc(func(*evq.EventQueue) { order = append(order, "input") }))
	require.NoError(t, err)

	q.PumpEvents()
	assert.Equal(t, []string{"video", "input"}, order)
	assert.True(t, q.HasEvent(evq.EventWindowShown))

	assert.True(t, q.RemoveSource(h1))
	assert.False(t, q.RemoveSource(h1))
	order = nil
	q.PumpEvents()
	assert.Equal(t, []string{"input"}, order)

	_, err = q.AddSource(nil)
	assert.ErrorIs(t, err, evq.ErrNilCallback)
}

func TestPollEventPumpsSources(t *testing.T) {
	q := newQueue(t)
	_, err := q.AddSource(evq.SourceFunc(func(q *evq.EventQueue) {
		push(t, q, evq.EventKeyDown, nil)
	}))
	require.NoError(t, err)

	var ev evq.Event
	require.True(t, q.PollEvent(&ev))
	assert.Equal(t, evq.EventKeyDown, ev.Type)
}

// TestWaitRepumpsSources checks that a blocked wait wakes up on the poll
// interval to pump sources that never push on their own.
func TestWaitRepumpsSources(t *testing.T) {
	q := newQueue(t, evq.WithPollInterval(10*time.Millisecond))

	var pumps atomix.Int64
	_, err := q.AddSource(evq.SourceFunc(func(q *evq.EventQueue) {
		if pumps.Add(1) == 4 {
			push(t, q, evq.EventDisplayAdded, evq.DisplayEvent{DisplayID: 2})
		}
	}))
	require.NoError(t, err)

	var ev evq.Event
	require.True(t, q.WaitEventTimeout(&ev, 5000))
	assert.Equal(t, evq.EventDisplayAdded, ev.Type)
	assert.GreaterOrEqual(t, pumps.Load(), int64(4))
}

// =============================================================================
// Relay
// =============================================================================

func TestRelay(t *testing.T) {
	q := newQueue(t)
	r := q.NewRelay(2)

	var watched int
	_, err := q.AddEventWatch(func(*evq.Event) bool { watched++; return true })
	require.NoError(t, err)

	require.NoError(t, r.Post(evq.Event{Type: evq.EventAudioDeviceAdded, Payload: evq.AudioDeviceEvent{Which: 1}}))
	require.NoError(t, r.Post(evq.Event{Type: evq.EventAudioDeviceRemoved, Payload: evq.AudioDeviceEvent{Which: 1}}))
	assert.ErrorIs(t, r.Post(evq.Event{Type: evq.EventAudioDeviceAdded}), evq.ErrQueueFull)
	assert.Equal(t, 2, r.Pending())
	assert.Zero(t, watched, "Post must not run watches")

	accepted, rejected := r.Posted()
	assert.EqualValues(t, 2, accepted)
	assert.EqualValues(t, 1, rejected)

	var ev evq.Event
	require.True(t, q.PollEvent(&ev))
	assert.Equal(t, evq.EventAudioDeviceAdded, ev.Type)
	assert.NotZero(t, ev.Timestamp)
	require.True(t, q.PollEvent(&ev))
	assert.Equal(t, evq.EventAudioDeviceRemoved, ev.Type)
	assert.Equal(t, 2, watched)
	assert.Zero(t, r.Pending())

	q.Quit()
	assert.ErrorIs(t, r.Post(evq.Event{Type: evq.EventAudioDeviceAdded}), evq.ErrClosed)
}

// TestRelayClose checks that a closed relay drops its buffer and refuses
// further posts instead of holding events nothing will replay.
func TestRelayClose(t *testing.T) {
	q := newQueue(t)
	r := q.NewRelay(4)

	require.NoError(t, r.Post(evq.Event{Type: evq.EventUser}))
	r.Close()
	r.Close()
	assert.Zero(t, r.Pending())

	assert.ErrorIs(t, r.Post(evq.Event{Type: evq.EventUser}), evq.ErrClosed)
	assert.Zero(t, r.Pending())
	accepted, rejected := r.Posted()
	assert.EqualValues(t, 1, accepted)
	assert.EqualValues(t, 0, rejected)

	var ev evq.Event
	assert.False(t, q.PollEvent(&ev), "closed relay is no longer pumped")
}

// TestRelayWakesWait posts from a foreign goroutine while the consumer
// waits without a poll interval bound.
func TestRelayWakesWait(t *testing.T) {
	q := newQueue(t, evq.WithPollInterval(time.Hour))
	r := q.NewRelay(16)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = r.Post(evq.Event{Type: evq.EventSensorUpdate, Payload: evq.SensorEvent{Which: 9}})
	}()

	var ev evq.Event
	require.True(t, q.WaitEventTimeout(&ev, 5000))
	assert.Equal(t, evq.SensorEvent{Which: 9}, ev.Payload)
}

func TestRelayReplayRespectsMask(t *testing.T) {
	q := newQueue(t)
	r := q.NewRelay(4)
	require.NoError(t, r.Post(evq.Event{Type: evq.EventTextInput, Payload: evq.TextInputEvent{Text: "x"}}))
	var ev evq.Event
	assert.False(t, q.PollEvent(&ev))
	assert.EqualValues(t, 1, q.Stats().Disabled)
}
