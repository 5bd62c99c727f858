// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

// checkThread panics with ErrWrongThread when thread checking is enabled and
// the caller runs on an OS thread other than the one that created q.
func (q *EventQueue) checkThread() {
	if q.ownerTID == 0 {
		return
	}
	if tid := currentThreadID(); tid != q.ownerTID {
		panic(ErrWrongThread)
	}
}
