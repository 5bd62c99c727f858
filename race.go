// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package evq

// RaceEnabled is true when the race detector is active.
// Tests use it to skip concurrent ring tests: the detector cannot see the
// ordering that slot sequence numbers give to payload writes and reports
// false positives.
const RaceEnabled = true
