// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"time"

	"github.com/joeycumines/logiface"
)

// ringOptions configures ring creation and algorithm selection.
type ringOptions struct {
	singleConsumer bool
	gated          bool

	// Capacity (rounds up to next power of 2)
	capacity int
}

// Builder creates rings with fluent configuration.
//
// Example:
//
//	// MPMC ring (default, general purpose)
//	q := evq.BuildMPMC[evq.Event](evq.NewBuilder(1024))
//
//	// MPSC ring that a maintenance goroutine can freeze
//	q := evq.BuildMPSC[evq.Event](evq.NewBuilder(256).SingleConsumer().Gated())
type Builder struct {
	opts ringOptions
}

// NewBuilder creates a ring builder with the given capacity.
//
// Capacity rounds up to the next power of 2.
// For example, capacity=4 results in actual capacity=4, capacity=1000 results
// in actual capacity=1024.
//
// Panics if capacity < 2.
func NewBuilder(capacity int) *Builder {
	if capacity < 2 {
		panic("evq: capacity must be >= 2")
	}
	return &Builder{opts: ringOptions{capacity: capacity}}
}

// SingleConsumer declares that only one goroutine will dequeue.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singleConsumer = true
	return b
}

// Gated attaches a freeze gate to the ring, enabling Exclusive.
//
// Every Enqueue and Dequeue then registers with the gate, which costs two
// extra atomic operations per call.
func (b *Builder) Gated() *Builder {
	b.opts.gated = true
	return b
}

// Build creates a Queue[T] with automatic algorithm selection.
//
//	SingleConsumer → MPSC (sequential consumer, no head CAS)
//	Default        → MPMC (Vyukov per-slot sequence ring)
func Build[T any](b *Builder) Queue[T] {
	if b.opts.singleConsumer {
		return newMPSCSeq[T](b.opts.capacity, b.opts.gated)
	}
	return newMPMCSeq[T](b.opts.capacity, b.opts.gated)
}

// BuildMPSC creates an MPSC ring with compile-time type safety.
// Panics if builder is not configured with SingleConsumer().
func BuildMPSC[T any](b *Builder) *MPSCSeq[T] {
	if !b.opts.singleConsumer {
		panic("evq: BuildMPSC requires SingleConsumer()")
	}
	return newMPSCSeq[T](b.opts.capacity, b.opts.gated)
}

// BuildMPMC creates an MPMC ring with compile-time type safety.
// Panics if builder has SingleConsumer() set.
func BuildMPMC[T any](b *Builder) *MPMCSeq[T] {
	if b.opts.singleConsumer {
		panic("evq: BuildMPMC requires no constraints")
	}
	return newMPMCSeq[T](b.opts.capacity, b.opts.gated)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte

// =============================================================================
// EventQueue options
// =============================================================================

// DefaultCapacity is the ring capacity used when WithCapacity is not given.
const DefaultCapacity = 65536

// DefaultPollInterval bounds a blocking wait while sources are registered,
// so that polled sources get pumped periodically.
const DefaultPollInterval = 3 * time.Second

// defaultDropLogRates allow one queue-full warning per event type per second,
// and ten per minute.
var defaultDropLogRates = map[time.Duration]int{
	time.Second: 1,
	time.Minute: 10,
}

type config struct {
	capacity       int
	singleConsumer bool
	logger         *logiface.Logger[logiface.Event]
	verbosity      int
	dropLogRates   map[time.Duration]int
	pollInterval   time.Duration
	quitSignals    bool
	threadCheck    bool
}

func defaultConfig() config {
	return config{
		capacity:     DefaultCapacity,
		dropLogRates: defaultDropLogRates,
		pollInterval: DefaultPollInterval,
	}
}

// Option configures an [EventQueue].
type Option func(c *config)

// WithCapacity sets the ring capacity. It rounds up to a power of two.
// New fails for capacities below 2.
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// WithSingleConsumer backs the queue with an MPSC ring. Every dequeue must
// then come from a single goroutine, which is the usual Poll/Wait contract.
func WithSingleConsumer() Option {
	return func(c *config) { c.singleConsumer = true }
}

// WithLogger attaches a structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(c *config) { c.logger = logger }
}

// WithEventLogging sets the per-event trace verbosity.
//
//	0: off
//	1: every queued event except motion and sensor updates
//	2: every queued event
func WithEventLogging(verbosity int) Option {
	return func(c *config) {
		c.verbosity = min(max(verbosity, 0), 2)
	}
}

// WithDropLogRate replaces the per-type rate limit applied to queue-full
// warnings. A nil or empty map logs every drop.
func WithDropLogRate(rates map[time.Duration]int) Option {
	return func(c *config) { c.dropLogRates = rates }
}

// WithPollInterval sets how often a blocking wait re-pumps sources.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithQuitSignals translates interrupt and termination signals into
// [EventQuit] events.
func WithQuitSignals() Option {
	return func(c *config) { c.quitSignals = true }
}

// WithThreadCheck records the calling OS thread in New and panics with
// [ErrWrongThread] when PumpEvents, PollEvent or a wait runs on any other
// thread. Callers should hold runtime.LockOSThread. Only effective on Linux.
func WithThreadCheck() Option {
	return func(c *config) { c.threadCheck = true }
}
