// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

// Event is the value stored in the ring.
//
// Every variant shares the header fields. The variant data lives in Payload,
// a value type, so an Event copied out of the ring never aliases the copy
// still held by a producer.
type Event struct {
	Type Type
	// Reserved must be zero. PushEvent clears it.
	Reserved uint32
	// Timestamp is monotonic nanoseconds since package initialization.
	// PushEvent fills it in when zero.
	Timestamp uint64
	Payload   Payload
}

// Payload is the variant part of an Event. It is implemented only by the
// event structs of this package.
type Payload interface {
	isPayload()
}

// QuitEvent is the payload of EventQuit and the application lifecycle events.
type QuitEvent struct{}

// DisplayEvent is the payload of the display events.
type DisplayEvent struct {
	DisplayID uint32
	Data1     int32
	Data2     int32
}

// WindowEvent is the payload of the window events.
type WindowEvent struct {
	WindowID uint32
	Data1    int32
	Data2    int32
}

// KeyboardEvent is the payload of EventKeyDown and EventKeyUp.
type KeyboardEvent struct {
	WindowID uint32
	Which    uint32
	Scancode uint32
	Key      uint32
	Mod      uint16
	Raw      uint16
	Down     bool
	Repeat   bool
}

// TextEditingEvent is the payload of EventTextEditing.
type TextEditingEvent struct {
	WindowID uint32
	Text     string
	Start    int32
	Length   int32
}

// TextInputEvent is the payload of EventTextInput.
type TextInputEvent struct {
	WindowID uint32
	Text     string
}

// MouseMotionEvent is the payload of EventMouseMotion.
type MouseMotionEvent struct {
	WindowID uint32
	Which    uint32
	State    uint32
	X, Y     float32
	XRel     float32
	YRel     float32
}

// MouseButtonEvent is the payload of the mouse button events.
type MouseButtonEvent struct {
	WindowID uint32
	Which    uint32
	Button   uint8
	Down     bool
	Clicks   uint8
	X, Y     float32
}

// MouseWheelEvent is the payload of EventMouseWheel.
type MouseWheelEvent struct {
	WindowID  uint32
	Which     uint32
	X, Y      float32
	Direction uint32
	MouseX    float32
	MouseY    float32
}

// JoyAxisEvent is the payload of EventJoystickAxisMotion.
type JoyAxisEvent struct {
	Which uint32
	Axis  uint8
	Value int16
}

// JoyHatEvent is the payload of EventJoystickHatMotion.
type JoyHatEvent struct {
	Which uint32
	Hat   uint8
	Value uint8
}

// JoyButtonEvent is the payload of the joystick button events.
type JoyButtonEvent struct {
	Which  uint32
	Button uint8
	Down   bool
}

// JoyDeviceEvent is the payload of joystick hotplug and update events.
type JoyDeviceEvent struct {
	Which uint32
}

// JoyBatteryEvent is the payload of EventJoystickBatteryUpdated.
type JoyBatteryEvent struct {
	Which   uint32
	State   int32
	Percent int32
}

// GamepadAxisEvent is the payload of EventGamepadAxisMotion.
type GamepadAxisEvent struct {
	Which uint32
	Axis  uint8
	Value int16
}

// GamepadButtonEvent is the payload of the gamepad button events.
type GamepadButtonEvent struct {
	Which  uint32
	Button uint8
	Down   bool
}

// GamepadDeviceEvent is the payload of gamepad hotplug and update events.
type GamepadDeviceEvent struct {
	Which uint32
}

// GamepadTouchpadEvent is the payload of the gamepad touchpad events.
type GamepadTouchpadEvent struct {
	Which    uint32
	Touchpad int32
	Finger   int32
	X, Y     float32
	Pressure float32
}

// GamepadSensorEvent is the payload of EventGamepadSensorUpdate.
type GamepadSensorEvent struct {
	Which           uint32
	Sensor          int32
	Data            [3]float32
	SensorTimestamp uint64
}

// AudioDeviceEvent is the payload of the audio device events.
type AudioDeviceEvent struct {
	Which     uint32
	Recording bool
}

// TouchFingerEvent is the payload of the finger events.
type TouchFingerEvent struct {
	TouchID  uint64
	FingerID uint64
	X, Y     float32
	DX, DY   float32
	Pressure float32
	WindowID uint32
}

// PenEvent is the payload of the pen events.
type PenEvent struct {
	WindowID uint32
	Which    uint32
	X, Y     float32
	Button   uint8
	Down     bool
	Pressure float32
}

// DropEvent is the payload of the drag and drop events.
type DropEvent struct {
	WindowID uint32
	X, Y     float32
	Source   string
	Data     string
}

// SensorEvent is the payload of EventSensorUpdate.
type SensorEvent struct {
	Which           uint32
	Data            [6]float32
	SensorTimestamp uint64
}

// UserEvent is the payload of types obtained from RegisterEvents.
type UserEvent struct {
	WindowID uint32
	Code     int32
	Data1    any
	Data2    any
}

func (QuitEvent) isPayload()            {}
func (DisplayEvent) isPayload()         {}
func (WindowEvent) isPayload()          {}
func (KeyboardEvent) isPayload()        {}
func (TextEditingEvent) isPayload()     {}
func (TextInputEvent) isPayload()       {}
func (MouseMotionEvent) isPayload()     {}
func (MouseButtonEvent) isPayload()     {}
func (MouseWheelEvent) isPayload()      {}
func (JoyAxisEvent) isPayload()         {}
func (JoyHatEvent) isPayload()          {}
func (JoyButtonEvent) isPayload()       {}
func (JoyDeviceEvent) isPayload()       {}
func (JoyBatteryEvent) isPayload()      {}
func (GamepadAxisEvent) isPayload()     {}
func (GamepadButtonEvent) isPayload()   {}
func (GamepadDeviceEvent) isPayload()   {}
func (GamepadTouchpadEvent) isPayload() {}
func (GamepadSensorEvent) isPayload()   {}
func (AudioDeviceEvent) isPayload()     {}
func (TouchFingerEvent) isPayload()     {}
func (PenEvent) isPayload()             {}
func (DropEvent) isPayload()            {}
func (SensorEvent) isPayload()          {}
func (UserEvent) isPayload()            {}
