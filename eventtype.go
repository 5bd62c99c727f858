// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import "strconv"

// Type is the event discriminant.
//
// Values follow the SDL3 numbering so that recorded streams and external
// producers agree on the meaning of each type.
type Type uint32

// Event types.
const (
	EventFirst Type = 0 // Unused

	// Application events
	EventQuit Type = 0x100 + iota - 1
	EventTerminating
	EventLowMemory
	EventWillEnterBackground
	EventDidEnterBackground
	EventWillEnterForeground
	EventDidEnterForeground
	EventLocaleChanged
	EventSystemThemeChanged
)

// Display events
const (
	EventDisplayOrientation Type = 0x151 + iota
	EventDisplayAdded
	EventDisplayRemoved
	EventDisplayMoved
	EventDisplayContentScaleChanged
	EventDisplayHDRStateChanged

	EventDisplayFirst = EventDisplayOrientation
	EventDisplayLast  = EventDisplayHDRStateChanged
)

// Window events
const (
	EventWindowShown Type = 0x202 + iota
	EventWindowHidden
	EventWindowExposed
	EventWindowMoved
	EventWindowResized
	EventWindowPixelSizeChanged
	EventWindowMinimized
	EventWindowMaximized
	EventWindowRestored
	EventWindowMouseEnter
	EventWindowMouseLeave
	EventWindowFocusGained
	EventWindowFocusLost
	EventWindowCloseRequested
	EventWindowTakeFocus
	EventWindowHitTest
	EventWindowICCProfChanged
	EventWindowDisplayChanged
	EventWindowDisplayScaleChanged
	EventWindowOccluded
	EventWindowEnterFullscreen
	EventWindowLeaveFullscreen
	EventWindowDestroyed
	EventWindowPenEnter
	EventWindowPenLeave

	EventWindowFirst = EventWindowShown
	EventWindowLast  = EventWindowPenLeave
)

// Keyboard events
const (
	EventKeyDown Type = 0x300 + iota
	EventKeyUp
	EventTextEditing
	EventTextInput
	EventKeymapChanged
)

// Mouse events
const (
	EventMouseMotion Type = 0x400 + iota
	EventMouseButtonDown
	EventMouseButtonUp
	EventMouseWheel
)

// Joystick events
const (
	EventJoystickAxisMotion Type = 0x600
	EventJoystickHatMotion  Type = 0x602 + iota - 1
	EventJoystickButtonDown
	EventJoystickButtonUp
	EventJoystickAdded
	EventJoystickRemoved
	EventJoystickBatteryUpdated
	EventJoystickUpdateComplete
)

// Gamepad events
const (
	EventGamepadAxisMotion Type = 0x650 + iota
	EventGamepadButtonDown
	EventGamepadButtonUp
	EventGamepadAdded
	EventGamepadRemoved
	EventGamepadRemapped
	EventGamepadTouchpadDown
	EventGamepadTouchpadMotion
	EventGamepadTouchpadUp
	EventGamepadSensorUpdate
	EventGamepadUpdateComplete
	EventGamepadSteamHandleUpdated
)

// Touch events
const (
	EventFingerDown Type = 0x700 + iota
	EventFingerUp
	EventFingerMotion
)

// Clipboard, drag and drop, audio, sensor, pen and render events
const (
	EventClipboardUpdate Type = 0x900

	EventDropFile Type = 0x1000 + iota - 1
	EventDropText
	EventDropBegin
	EventDropComplete
	EventDropPosition
)

const (
	EventAudioDeviceAdded Type = 0x1100 + iota
	EventAudioDeviceRemoved
	EventAudioDeviceFormatChanged
)

const EventSensorUpdate Type = 0x1200

const (
	EventPenDown Type = 0x1300 + iota
	EventPenUp
	EventPenMotion
	EventPenButtonDown
	EventPenButtonUp
)

const (
	EventRenderTargetsReset Type = 0x2000 + iota
	EventRenderDeviceReset
)

const (
	// EventPollSentinel is reserved and disabled by default.
	EventPollSentinel Type = 0x7F00

	// EventUser is the first type handed out by RegisterEvents.
	EventUser Type = 0x8000

	// EventLast is the highest valid type.
	EventLast Type = 0xFFFF

	// InvalidType is returned by RegisterEvents on failure.
	InvalidType Type = 0xFFFFFFFF
)

var typeNames = map[Type]string{
	EventFirst:                      "FIRST",
	EventQuit:                       "QUIT",
	EventTerminating:                "TERMINATING",
	EventLowMemory:                  "LOW_MEMORY",
	EventWillEnterBackground:        "WILL_ENTER_BACKGROUND",
	EventDidEnterBackground:         "DID_ENTER_BACKGROUND",
	EventWillEnterForeground:        "WILL_ENTER_FOREGROUND",
	EventDidEnterForeground:         "DID_ENTER_FOREGROUND",
	EventLocaleChanged:              "LOCALE_CHANGED",
	EventSystemThemeChanged:         "SYSTEM_THEME_CHANGED",
	EventDisplayOrientation:         "DISPLAY_ORIENTATION",
	EventDisplayAdded:               "DISPLAY_ADDED",
	EventDisplayRemoved:             "DISPLAY_REMOVED",
	EventDisplayMoved:               "DISPLAY_MOVED",
	EventDisplayContentScaleChanged: "DISPLAY_CONTENT_SCALE_CHANGED",
	EventDisplayHDRStateChanged:     "DISPLAY_HDR_STATE_CHANGED",
	EventWindowShown:                "WINDOW_SHOWN",
	EventWindowHidden:               "WINDOW_HIDDEN",
	EventWindowExposed:              "WINDOW_EXPOSED",
	EventWindowMoved:                "WINDOW_MOVED",
	EventWindowResized:              "WINDOW_RESIZED",
	EventWindowPixelSizeChanged:     "WINDOW_PIXEL_SIZE_CHANGED",
	EventWindowMinimized:            "WINDOW_MINIMIZED",
	EventWindowMaximized:            "WINDOW_MAXIMIZED",
	EventWindowRestored:             "WINDOW_RESTORED",
	EventWindowMouseEnter:           "WINDOW_MOUSE_ENTER",
	EventWindowMouseLeave:           "WINDOW_MOUSE_LEAVE",
	EventWindowFocusGained:          "WINDOW_FOCUS_GAINED",
	EventWindowFocusLost:            "WINDOW_FOCUS_LOST",
	EventWindowCloseRequested:       "WINDOW_CLOSE_REQUESTED",
	EventWindowTakeFocus:            "WINDOW_TAKE_FOCUS",
	EventWindowHitTest:              "WINDOW_HIT_TEST",
	EventWindowICCProfChanged:       "WINDOW_ICCPROF_CHANGED",
	EventWindowDisplayChanged:       "WINDOW_DISPLAY_CHANGED",
	EventWindowDisplayScaleChanged:  "WINDOW_DISPLAY_SCALE_CHANGED",
	EventWindowOccluded:             "WINDOW_OCCLUDED",
	EventWindowEnterFullscreen:      "WINDOW_ENTER_FULLSCREEN",
	EventWindowLeaveFullscreen:      "WINDOW_LEAVE_FULLSCREEN",
	EventWindowDestroyed:            "WINDOW_DESTROYED",
	EventWindowPenEnter:             "WINDOW_PEN_ENTER",
	EventWindowPenLeave:             "WINDOW_PEN_LEAVE",
	EventKeyDown:                    "KEY_DOWN",
	EventKeyUp:                      "KEY_UP",
	EventTextEditing:                "TEXT_EDITING",
	EventTextInput:                  "TEXT_INPUT",
	EventKeymapChanged:              "KEYMAP_CHANGED",
	EventMouseMotion:                "MOUSE_MOTION",
	EventMouseButtonDown:            "MOUSE_BUTTON_DOWN",
	EventMouseButtonUp:              "MOUSE_BUTTON_UP",
	EventMouseWheel:                 "MOUSE_WHEEL",
	EventJoystickAxisMotion:         "JOYSTICK_AXIS_MOTION",
	EventJoystickHatMotion:          "JOYSTICK_HAT_MOTION",
	EventJoystickButtonDown:         "JOYSTICK_BUTTON_DOWN",
	EventJoystickButtonUp:           "JOYSTICK_BUTTON_UP",
	EventJoystickAdded:              "JOYSTICK_ADDED",
	EventJoystickRemoved:            "JOYSTICK_REMOVED",
	EventJoystickBatteryUpdated:     "JOYSTICK_BATTERY_UPDATED",
	EventJoystickUpdateComplete:     "JOYSTICK_UPDATE_COMPLETE",
	EventGamepadAxisMotion:          "GAMEPAD_AXIS_MOTION",
	EventGamepadButtonDown:          "GAMEPAD_BUTTON_DOWN",
	EventGamepadButtonUp:            "GAMEPAD_BUTTON_UP",
	EventGamepadAdded:               "GAMEPAD_ADDED",
	EventGamepadRemoved:             "GAMEPAD_REMOVED",
	EventGamepadRemapped:            "GAMEPAD_REMAPPED",
	EventGamepadTouchpadDown:        "GAMEPAD_TOUCHPAD_DOWN",
	EventGamepadTouchpadMotion:      "GAMEPAD_TOUCHPAD_MOTION",
	EventGamepadTouchpadUp:          "GAMEPAD_TOUCHPAD_UP",
	EventGamepadSensorUpdate:        "GAMEPAD_SENSOR_UPDATE",
	EventGamepadUpdateComplete:      "GAMEPAD_UPDATE_COMPLETE",
	EventGamepadSteamHandleUpdated:  "GAMEPAD_STEAM_HANDLE_UPDATED",
	EventFingerDown:                 "FINGER_DOWN",
	EventFingerUp:                   "FINGER_UP",
	EventFingerMotion:               "FINGER_MOTION",
	EventClipboardUpdate:            "CLIPBOARD_UPDATE",
	EventDropFile:                   "DROP_FILE",
	EventDropText:                   "DROP_TEXT",
	EventDropBegin:                  "DROP_BEGIN",
	EventDropComplete:               "DROP_COMPLETE",
	EventDropPosition:               "DROP_POSITION",
	EventAudioDeviceAdded:           "AUDIO_DEVICE_ADDED",
	EventAudioDeviceRemoved:         "AUDIO_DEVICE_REMOVED",
	EventAudioDeviceFormatChanged:   "AUDIO_DEVICE_FORMAT_CHANGED",
	EventSensorUpdate:               "SENSOR_UPDATE",
	EventPenDown:                    "PEN_DOWN",
	EventPenUp:                      "PEN_UP",
	EventPenMotion:                  "PEN_MOTION",
	EventPenButtonDown:              "PEN_BUTTON_DOWN",
	EventPenButtonUp:                "PEN_BUTTON_UP",
	EventRenderTargetsReset:         "RENDER_TARGETS_RESET",
	EventRenderDeviceReset:          "RENDER_DEVICE_RESET",
	EventPollSentinel:               "POLL_SENTINEL",
}

// String returns the SDL-style name of t, "USER+n" for registered user
// types and the hexadecimal value for anything unknown.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	if t >= EventUser && t <= EventLast {
		return "USER+" + strconv.Itoa(int(t-EventUser))
	}
	return "0x" + strconv.FormatUint(uint64(t), 16)
}

// Valid reports whether t lies in [EventFirst, EventLast].
func (t Type) Valid() bool {
	return t <= EventLast
}

// isMotion reports the high-frequency types that event logging skips below
// verbosity 2.
func (t Type) isMotion() bool {
	switch t {
	case EventMouseMotion, EventFingerMotion, EventGamepadTouchpadMotion,
		EventGamepadSensorUpdate, EventSensorUpdate, EventPenMotion:
		return true
	}
	return false
}
