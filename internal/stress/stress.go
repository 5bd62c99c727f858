// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stress runs the FIFO stress scenario against an evq ring or a full
// evq event queue.
//
// Writers push uniquely tagged user events, readers drain concurrently until
// the writers are done and the queue is empty, and an optional watcher
// repeatedly freezes the queue. The result carries a per-reader per-writer
// breakdown and the number of events observed more than once.
package stress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/joeycumines/logiface"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/evq"
)

// Mode selects the component under test.
type Mode string

const (
	// ModeRing drives a gated ring directly with Enqueue and Dequeue.
	ModeRing Mode = "ring"
	// ModeEvents drives an EventQueue with PushEvent and PeepEvents(PeepGet).
	ModeEvents Mode = "events"
)

// Config describes one run.
type Config struct {
	Writers         int
	Readers         int
	EventsPerWriter int
	Capacity        int
	Mode            Mode
	// SingleConsumer selects the MPSC ring; it requires Readers == 1.
	SingleConsumer bool
	// Watcher freezes the queue about once per millisecond.
	Watcher bool
	// Batch is the PeepEvents buffer size in ModeEvents.
	Batch  int
	Logger *logiface.Logger[logiface.Event]
}

// DefaultConfig is the classic scenario: 4 writers of 1,000,000 events and
// 4 readers on a 256 slot ring, with the watcher running.
func DefaultConfig() Config {
	return Config{
		Writers:         4,
		Readers:         4,
		EventsPerWriter: 1_000_000,
		Capacity:        256,
		Mode:            ModeRing,
		Watcher:         true,
		Batch:           32,
	}
}

// Result reports one run.
type Result struct {
	Elapsed     time.Duration
	WriterWaits []uint64
	ReaderWaits []uint64
	// Counts[r][w] is how many events of writer w reader r consumed.
	Counts [][]uint64
	// Duplicates counts events consumed more than once.
	Duplicates uint64
	// OutOfRange counts events whose tag did not match any writer.
	OutOfRange uint64
	Freezes    uint64
}

// Total returns the number of events read.
func (r *Result) Total() uint64 {
	var n uint64
	for _, row := range r.Counts {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// PerWriter sums the breakdown over readers.
func (r *Result) PerWriter() []uint64 {
	if len(r.Counts) == 0 {
		return nil
	}
	sums := make([]uint64, len(r.Counts[0]))
	for _, row := range r.Counts {
		for w, c := range row {
			sums[w] += c
		}
	}
	return sums
}

// Verify checks that every event was read exactly once.
func (r *Result) Verify(cfg Config) error {
	if r.Duplicates != 0 {
		return fmt.Errorf("stress: %d events consumed twice", r.Duplicates)
	}
	if r.OutOfRange != 0 {
		return fmt.Errorf("stress: %d events with unknown tags", r.OutOfRange)
	}
	for w, n := range r.PerWriter() {
		if n != uint64(cfg.EventsPerWriter) {
			return fmt.Errorf("stress: writer %d: read %d events, want %d", w, n, cfg.EventsPerWriter)
		}
	}
	return nil
}

// port is the push/pull surface shared by both modes.
type port struct {
	push   func(ev *evq.Event) error
	pull   func(buf []evq.Event) int
	freeze func()
	tag    evq.Type
	close  func()
}

// Run executes cfg. It stops early when ctx is done.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Writers < 1 || cfg.Readers < 1 || cfg.EventsPerWriter < 1 {
		return nil, errors.New("stress: writers, readers and events must be positive")
	}
	if cfg.SingleConsumer && cfg.Readers != 1 {
		return nil, errors.New("stress: single consumer requires exactly one reader")
	}
	if cfg.Batch < 1 {
		cfg.Batch = 1
	}

	p, err := newPort(cfg)
	if err != nil {
		return nil, err
	}
	defer p.close()

	res := &Result{
		WriterWaits: make([]uint64, cfg.Writers),
		ReaderWaits: make([]uint64, cfg.Readers),
		Counts:      make([][]uint64, cfg.Readers),
	}
	seen := make([]atomix.Int32, cfg.Writers*cfg.EventsPerWriter)
	var duplicates, outOfRange, freezes atomix.Uint64
	var writersDone atomix.Bool

	cfg.Logger.Info().
		Str("mode", string(cfg.Mode)).
		Int("writers", cfg.Writers).
		Int("readers", cfg.Readers).
		Int("events_per_writer", cfg.EventsPerWriter).
		Int("capacity", cfg.Capacity).
		Bool("watcher", cfg.Watcher).
		Log("fifo test starting")

	start := time.Now()

	readers, rctx := errgroup.WithContext(ctx)
	for r := range cfg.Readers {
		counts := make([]uint64, cfg.Writers)
		res.Counts[r] = counts
		readers.Go(func() error {
			buf := make([]evq.Event, cfg.Batch)
			backoff := iox.Backoff{}
			for {
				done := writersDone.LoadAcquire()
				n := p.pull(buf)
				for _, ev := range buf[:n] {
					u, ok := ev.Payload.(evq.UserEvent)
					w, i := int(u.WindowID), int(u.Code)
					if !ok || ev.Type != p.tag || w >= cfg.Writers || i < 0 || i >= cfg.EventsPerWriter {
						outOfRange.Add(1)
						continue
					}
					counts[w]++
					if seen[w*cfg.EventsPerWriter+i].Add(1) > 1 {
						duplicates.Add(1)
					}
				}
				if n > 0 {
					backoff.Reset()
					continue
				}
				if done {
					return nil
				}
				if err := rctx.Err(); err != nil {
					return err
				}
				res.ReaderWaits[r]++
				backoff.Wait()
			}
		})
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if !cfg.Watcher {
			return
		}
		tick := time.NewTicker(time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-watchCtx.Done():
				return
			case <-tick.C:
				p.freeze()
				freezes.Add(1)
			}
		}
	}()

	writers, wctx := errgroup.WithContext(ctx)
	for w := range cfg.Writers {
		writers.Go(func() error {
			ev := evq.Event{Type: p.tag}
			backoff := iox.Backoff{}
			for i := range cfg.EventsPerWriter {
				ev.Payload = evq.UserEvent{WindowID: uint32(w), Code: int32(i)}
				for {
					err := p.push(&ev)
					if err == nil {
						break
					}
					if !evq.IsWouldBlock(err) {
						return fmt.Errorf("writer %d: %w", w, err)
					}
					if err := wctx.Err(); err != nil {
						return err
					}
					res.WriterWaits[w]++
					backoff.Wait()
				}
				backoff.Reset()
			}
			return nil
		})
	}

	werr := writers.Wait()
	writersDone.StoreRelease(true)
	rerr := readers.Wait()
	stopWatch()
	<-watcherDone

	res.Elapsed = time.Since(start)
	res.Duplicates = duplicates.Load()
	res.OutOfRange = outOfRange.Load()
	res.Freezes = freezes.Load()

	if err := errors.Join(werr, rerr); err != nil {
		return res, err
	}
	res.log(cfg.Logger)
	return res, nil
}

func newPort(cfg Config) (*port, error) {
	switch cfg.Mode {
	case ModeRing, "":
		b := evq.NewBuilder(cfg.Capacity).Gated()
		if cfg.SingleConsumer {
			b.SingleConsumer()
		}
		q := evq.Build[evq.Event](b)
		fr := q.(evq.Freezer[evq.Event])
		return &port{
			push: q.Enqueue,
			pull: func(buf []evq.Event) int {
				ev, err := q.Dequeue()
				if err != nil {
					return 0
				}
				buf[0] = ev
				return 1
			},
			freeze: func() {
				_ = fr.Exclusive(func(items []evq.Event) []evq.Event { return items })
			},
			tag:   evq.EventUser,
			close: func() {},
		}, nil
	case ModeEvents:
		opts := []evq.Option{evq.WithCapacity(cfg.Capacity), evq.WithLogger(cfg.Logger)}
		if cfg.SingleConsumer {
			opts = append(opts, evq.WithSingleConsumer())
		}
		q, err := evq.New(opts...)
		if err != nil {
			return nil, err
		}
		tag := q.RegisterEvents(1)
		return &port{
			push: q.PushEvent,
			pull: func(buf []evq.Event) int {
				n, _ := q.PeepEvents(buf, evq.PeepGet, tag, tag)
				return n
			},
			freeze: func() { q.HasEvent(tag) },
			tag:    tag,
			close:  q.Quit,
		}, nil
	default:
		return nil, fmt.Errorf("stress: unknown mode %q", cfg.Mode)
	}
}

func (r *Result) log(l *logiface.Logger[logiface.Event]) {
	l.Info().
		Dur("elapsed", r.Elapsed).
		Uint64("total", r.Total()).
		Uint64("duplicates", r.Duplicates).
		Uint64("freezes", r.Freezes).
		Log("fifo test finished")
	for w, waits := range r.WriterWaits {
		l.Info().Int("writer", w).Uint64("waits", waits).Log("writer summary")
	}
	for rd, row := range r.Counts {
		var total uint64
		for _, c := range row {
			total += c
		}
		l.Info().
			Int("reader", rd).
			Uint64("read", total).
			Uint64("waits", r.ReaderWaits[rd]).
			Interface("per_writer", row).
			Log("reader summary")
	}
}
