// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// gate freezes a ring for a maintenance goroutine.
//
// Producers and consumers announce themselves in rwcount before touching
// the ring and back out while the lock is held. The holder of the lock
// waits for rwcount to drain to zero, after which it owns every slot.
//
// Both sides publish with a read-modify-write and then load the other
// side's word, so at least one of them observes the other.
type gate struct {
	_       pad
	lock    atomix.Uint64
	_       padShort
	rwcount atomix.Int64
	_       padShort
}

// enter registers an operation, waiting while the gate is frozen.
func (g *gate) enter() {
	sw := spin.Wait{}
	for {
		g.rwcount.AddAcqRel(1)
		if g.lock.LoadAcquire() == 0 {
			return
		}
		g.rwcount.AddAcqRel(-1)
		for g.lock.LoadAcquire() != 0 {
			sw.Once()
		}
	}
}

// leave unregisters an operation started with enter.
func (g *gate) leave() {
	g.rwcount.AddAcqRel(-1)
}

// freeze acquires the gate and waits out in-flight operations.
func (g *gate) freeze() {
	sw := spin.Wait{}
	for !g.lock.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
	for g.rwcount.LoadAcquire() != 0 {
		sw.Once()
	}
}

// thaw releases the gate.
func (g *gate) thaw() {
	g.lock.StoreRelease(0)
}
