// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"

	"code.hybscloud.com/evq"
	"code.hybscloud.com/evq/internal/stress"
)

// =============================================================================
// Rings - Basic Operations
// =============================================================================

// TestMPMCSeqBasic fills a ring to capacity, checks backpressure, frees one
// slot, and drains it in FIFO order.
func TestMPMCSeqBasic(t *testing.T) {
	q := evq.NewMPMCSeq[int](3)

	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}

	for i := range 4 {
		v := i + 100
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	v := 999
	if err := q.Enqueue(&v); !errors.Is(err, evq.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	// One dequeue frees exactly one slot for the next producer.
	if val, err := q.Dequeue(); err != nil || val != 100 {
		t.Fatalf("Dequeue on full: got (%d, %v), want (100, nil)", val, err)
	}
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue after one Dequeue: %v", err)
	}
	if err := q.Enqueue(&v); !errors.Is(err, evq.ErrWouldBlock) {
		t.Fatalf("Enqueue on refilled: got %v, want ErrWouldBlock", err)
	}

	for i, want := range []int{101, 102, 103, 999} {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != want {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, want)
		}
	}

	if _, err := q.Dequeue(); !errors.Is(err, evq.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestMPSCSeqBasic is TestMPMCSeqBasic for the single consumer ring.
func TestMPSCSeqBasic(t *testing.T) {
	q := evq.NewMPSCSeq[int](3)

	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}

	for i := range 4 {
		v := i + 100
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	v := 999
	if err := q.Enqueue(&v); !errors.Is(err, evq.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	// One dequeue frees exactly one slot for the next producer.
	if val, err := q.Dequeue(); err != nil || val != 100 {
		t.Fatalf("Dequeue on full: got (%d, %v), want (100, nil)", val, err)
	}
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue after one Dequeue: %v", err)
	}
	if err := q.Enqueue(&v); !errors.Is(err, evq.ErrWouldBlock) {
		t.Fatalf("Enqueue on refilled: got %v, want ErrWouldBlock", err)
	}

	for i, want := range []int{101, 102, 103, 999} {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != want {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, want)
		}
	}

	if _, err := q.Dequeue(); !errors.Is(err, evq.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestRingWrapAround cycles through the ring many times so every slot
// sequence advances across several generations.
func TestRingWrapAround(t *testing.T) {
	rings := map[string]evq.Queue[int]{
		"MPMC": evq.NewMPMCSeq[int](4),
		"MPSC": evq.NewMPSCSeq[int](4),
	}
	for name, q := range rings {
		t.Run(name, func(t *testing.T) {
			for round := range 100 {
				for i := range 3 {
					v := round*10 + i
					if err := q.Enqueue(&v); err != nil {
						t.Fatalf("round %d Enqueue(%d): %v", round, i, err)
					}
				}
				for i := range 3 {
					got, err := q.Dequeue()
					if err != nil {
						t.Fatalf("round %d Dequeue(%d): %v", round, i, err)
					}
					if want := round*10 + i; got != want {
						t.Fatalf("round %d: got %d, want %d", round, got, want)
					}
				}
			}
		})
	}
}

// TestRingDequeueClearsSlot verifies that a dequeued slot no longer pins
// the payload it held.
func TestRingDequeueClearsSlot(t *testing.T) {
	q := evq.NewMPMCSeq[evq.Event](2)
	ev := evq.Event{Type: evq.EventUser, Payload: evq.UserEvent{Data1: make([]byte, 16)}}
	if err := q.Enqueue(&ev); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	got, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got.Payload == nil {
		t.Fatalf("Dequeue: payload lost")
	}
	// The slot must be reusable for the next generation.
	for i := range 2 {
		if err := q.Enqueue(&ev); err != nil {
			t.Fatalf("Enqueue after reuse (%d): %v", i, err)
		}
	}
}

// =============================================================================
// Builder
// =============================================================================

func TestBuilderSelection(t *testing.T) {
	if _, ok := evq.Build[int](evq.NewBuilder(8)).(*evq.MPMCSeq[int]); !ok {
		t.Fatalf("Build default: want *MPMCSeq")
	}
	if _, ok := evq.Build[int](evq.NewBuilder(8).SingleConsumer()).(*evq.MPSCSeq[int]); !ok {
		t.Fatalf("Build SingleConsumer: want *MPSCSeq")
	}
	if got := evq.BuildMPMC[int](evq.NewBuilder(1000)).Cap(); got != 1024 {
		t.Fatalf("Cap: got %d, want 1024", got)
	}
	if got := evq.BuildMPSC[int](evq.NewBuilder(2).SingleConsumer()).Cap(); got != 2 {
		t.Fatalf("Cap: got %d, want 2", got)
	}
}

func TestBuilderPanics(t *testing.T) {
	cases := map[string]func(){
		"capacity": func() { evq.NewBuilder(1) },
		"BuildMPSC": func() {
			evq.BuildMPSC[int](evq.NewBuilder(4))
		},
		"BuildMPMC": func() {
			evq.BuildMPMC[int](evq.NewBuilder(4).SingleConsumer())
		},
		"NewMPMCSeq": func() { evq.NewMPMCSeq[int](0) },
		"NewMPSCSeq": func() { evq.NewMPSCSeq[int](1) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s: expected panic", name)
				}
			}()
			fn()
		})
	}
}

// =============================================================================
// Gate - Exclusive
// =============================================================================

func TestExclusiveNotGated(t *testing.T) {
	q := evq.NewMPMCSeq[int](4)
	err := q.Exclusive(func(items []int) []int { return items })
	if !errors.Is(err, evq.ErrNotGated) {
		t.Fatalf("Exclusive: got %v, want ErrNotGated", err)
	}
	if err := evq.NewMPSCSeq[int](4).Exclusive(nil); !errors.Is(err, evq.ErrNotGated) {
		t.Fatalf("MPSC Exclusive: got %v, want ErrNotGated", err)
	}
}

// TestExclusiveRewrite removes odd elements in place and checks that the
// survivors keep their order and the ring keeps working afterwards.
func TestExclusiveRewrite(t *testing.T) {
	rings := map[string]evq.Queue[int]{
		"MPMC": evq.BuildMPMC[int](evq.NewBuilder(8).Gated()),
		"MPSC": evq.BuildMPSC[int](evq.NewBuilder(8).SingleConsumer().Gated()),
	}
	for name, q := range rings {
		t.Run(name, func(t *testing.T) {
			for i := range 6 {
				if err := q.Enqueue(&i); err != nil {
					t.Fatalf("Enqueue(%d): %v", i, err)
				}
			}

			var seen []int
			err := q.(evq.Freezer[int]).Exclusive(func(items []int) []int {
				seen = append(seen, items...)
				kept := items[:0]
				for _, v := range items {
					if v%2 == 0 {
						kept = append(kept, v)
					}
				}
				return kept
			})
			if err != nil {
				t.Fatalf("Exclusive: %v", err)
			}
			if len(seen) != 6 {
				t.Fatalf("Exclusive saw %d items, want 6", len(seen))
			}

			for _, want := range []int{0, 2, 4} {
				got, err := q.Dequeue()
				if err != nil {
					t.Fatalf("Dequeue: %v", err)
				}
				if got != want {
					t.Fatalf("Dequeue: got %d, want %d", got, want)
				}
			}
			if _, err := q.Dequeue(); !errors.Is(err, evq.ErrWouldBlock) {
				t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
			}
		})
	}
}

// TestExclusiveOverflow returns more elements than the ring holds.
func TestExclusiveOverflow(t *testing.T) {
	q := evq.BuildMPMC[int](evq.NewBuilder(2).Gated())
	err := q.Exclusive(func(items []int) []int { return []int{1, 2, 3} })
	if !evq.IsWouldBlock(err) {
		t.Fatalf("Exclusive: got %v, want ErrWouldBlock", err)
	}
	for _, want := range []int{1, 2} {
		got, err := q.Dequeue()
		if err != nil || got != want {
			t.Fatalf("Dequeue: got (%d, %v), want %d", got, err, want)
		}
	}
}

// TestExclusiveBlocksProducers freezes the ring while a producer is trying
// to push, and checks that the push lands only after the freeze ends.
func TestExclusiveBlocksProducers(t *testing.T) {
	if evq.RaceEnabled {
		t.Skip("skip: gate uses cross-variable memory ordering")
	}

	q := evq.BuildMPMC[int](evq.NewBuilder(8).Gated())
	first := 1
	if err := q.Enqueue(&first); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	var pushed atomix.Bool
	entered := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup

	go func() {
		_ = q.Exclusive(func(items []int) []int {
			close(entered)
			<-release
			if pushed.Load() {
				t.Errorf("producer completed inside Exclusive")
			}
			return items
		})
	}()

	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		v := 2
		if err := q.Enqueue(&v); err != nil {
			t.Errorf("Enqueue: %v", err)
		}
		pushed.Store(true)
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, want := range []int{1, 2} {
		got, err := q.Dequeue()
		if err != nil || got != want {
			t.Fatalf("Dequeue: got (%d, %v), want %d", got, err, want)
		}
	}
}

// =============================================================================
// Concurrency
// =============================================================================

// TestSingleProducerFIFO checks that one producer's elements come out in
// push order even with several consumers competing.
func TestSingleProducerFIFO(t *testing.T) {
	if evq.RaceEnabled {
		t.Skip("skip: CAS-based algorithm uses cross-variable memory ordering")
	}

	const items = 20000
	q := evq.BuildMPMC[int](evq.NewBuilder(64).Gated())

	go func() {
		backoff := iox.Backoff{}
		for i := range items {
			for q.Enqueue(&i) != nil {
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	// A single consumer observes the global order directly.
	backoff := iox.Backoff{}
	for want := 0; want < items; {
		got, err := q.Dequeue()
		if err != nil {
			backoff.Wait()
			continue
		}
		backoff.Reset()
		if got != want {
			t.Fatalf("Dequeue: got %d, want %d", got, want)
		}
		want++
	}
}

// TestFIFOStress runs the writer/reader/watcher scenario on both ring
// flavors and on the full event queue.
func TestFIFOStress(t *testing.T) {
	if evq.RaceEnabled {
		t.Skip("skip: CAS-based algorithm uses cross-variable memory ordering")
	}

	events := 1_000_000
	if testing.Short() {
		events = 20_000
	}

	cases := []stress.Config{
		{Writers: 4, Readers: 4, EventsPerWriter: events, Capacity: 256, Mode: stress.ModeRing, Watcher: true},
		{Writers: 4, Readers: 1, EventsPerWriter: events / 4, Capacity: 256, Mode: stress.ModeRing, SingleConsumer: true, Watcher: true},
		{Writers: 4, Readers: 2, EventsPerWriter: events / 20, Capacity: 256, Mode: stress.ModeEvents, Watcher: true, Batch: 32},
	}
	for _, cfg := range cases {
		name := string(cfg.Mode)
		if cfg.SingleConsumer {
			name += "/mpsc"
		}
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			res, err := stress.Run(ctx, cfg)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if err := res.Verify(cfg); err != nil {
				t.Fatal(err)
			}
			if want := uint64(cfg.Writers * cfg.EventsPerWriter); res.Total() != want {
				t.Fatalf("Total: got %d, want %d", res.Total(), want)
			}
			t.Logf("%s: %d events in %v, %d freezes", name, res.Total(), res.Elapsed, res.Freezes)
		})
	}
}

func TestFIFOStressConfig(t *testing.T) {
	_, err := stress.Run(context.Background(), stress.Config{Writers: 2, Readers: 2, EventsPerWriter: 1, Capacity: 4, SingleConsumer: true})
	if err == nil {
		t.Fatalf("Run: want error for single consumer with two readers")
	}
	_, err = stress.Run(context.Background(), stress.Config{Writers: 1, Readers: 1, EventsPerWriter: 1, Capacity: 4, Mode: "bogus"})
	if err == nil {
		t.Fatalf("Run: want error for unknown mode")
	}
}
