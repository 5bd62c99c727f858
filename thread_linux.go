// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package evq

import "golang.org/x/sys/unix"

// currentThreadID returns the kernel thread id of the calling goroutine's
// current OS thread.
func currentThreadID() int {
	return unix.Gettid()
}
