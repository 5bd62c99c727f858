// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package evq

import (
	"os"

	"golang.org/x/sys/unix"
)

var quitSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}
