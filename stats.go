// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import "code.hybscloud.com/atomix"

// Stats is a snapshot of queue counters.
type Stats struct {
	Pushed    uint64 // PushEvent calls that queued an event
	Filtered  uint64 // pushes rejected by the filter
	Disabled  uint64 // pushes of a disabled type
	Dropped   uint64 // pushes lost to a full ring
	MaxQueued int    // highest occupancy observed after an enqueue
}

type counters struct {
	pushed    atomix.Uint64
	filtered  atomix.Uint64
	disabled  atomix.Uint64
	dropped   atomix.Uint64
	maxQueued atomix.Uint64
}

// observe raises maxQueued to n.
func (c *counters) observe(n int) {
	v := uint64(n)
	for {
		cur := c.maxQueued.LoadRelaxed()
		if v <= cur || c.maxQueued.CompareAndSwapAcqRel(cur, v) {
			return
		}
	}
}

// Stats returns the current counters.
func (q *EventQueue) Stats() Stats {
	return Stats{
		Pushed:    q.stats.pushed.Load(),
		Filtered:  q.stats.filtered.Load(),
		Disabled:  q.stats.disabled.Load(),
		Dropped:   q.stats.dropped.Load(),
		MaxQueued: int(q.stats.maxQueued.Load()),
	}
}
