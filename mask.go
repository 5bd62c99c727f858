// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// disabledMask holds one bit per event type; a set bit disables the type.
// Readers load a single word without locking. Writers serialize on mu so a
// read-modify-write of a word never loses a concurrent update.
type disabledMask struct {
	mu    sync.Mutex
	words [(int(EventLast) + 1) / 64]atomix.Uint64
}

// defaultDisabled are the types dropped until explicitly enabled.
var defaultDisabled = []Type{
	EventTextInput,
	EventTextEditing,
	EventJoystickUpdateComplete,
	EventGamepadUpdateComplete,
	EventPollSentinel,
}

// enableDependencies lists the joystick types a gamepad type is built from.
var enableDependencies = map[Type][]Type{
	EventGamepadAdded:   {EventJoystickAdded},
	EventGamepadRemoved: {EventJoystickRemoved},
	EventGamepadAxisMotion: {
		EventJoystickAxisMotion, EventJoystickHatMotion,
		EventJoystickButtonDown, EventJoystickButtonUp,
	},
	EventGamepadButtonDown: {
		EventJoystickAxisMotion, EventJoystickHatMotion,
		EventJoystickButtonDown, EventJoystickButtonUp,
	},
	EventGamepadButtonUp: {
		EventJoystickAxisMotion, EventJoystickHatMotion,
		EventJoystickButtonDown, EventJoystickButtonUp,
	},
	EventGamepadUpdateComplete: {EventJoystickUpdateComplete},
}

func (m *disabledMask) enabled(t Type) bool {
	if !t.Valid() {
		return false
	}
	return m.words[t>>6].LoadAcquire()&(1<<(t&63)) == 0
}

// set updates t and reports whether its state changed. Enabling a gamepad
// type also enables the joystick types it depends on.
func (m *disabledMask) set(t Type, enabled bool) bool {
	if !t.Valid() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(t, enabled)
}

func (m *disabledMask) setLocked(t Type, enabled bool) bool {
	w := &m.words[t>>6]
	bit := uint64(1) << (t & 63)
	old := w.LoadRelaxed()
	if (old&bit == 0) == enabled {
		return false
	}
	if enabled {
		w.StoreRelease(old &^ bit)
		for _, dep := range enableDependencies[t] {
			m.setLocked(dep, true)
		}
	} else {
		w.StoreRelease(old | bit)
	}
	return true
}
