// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package evq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sugawarayuuta/sonnet"
)

// Recorder writes every event it observes as one JSON object per line.
//
// Install Watch with AddEventWatch to capture accepted pushes. The recording
// can be read back with ReadRecording and replayed with PeepEvents(PeepAdd),
// which skips the filter and watches so the replay does not record itself.
type Recorder struct {
	mu  sync.Mutex
	w   io.Writer
	n   uint64
	err error
}

// record is the line format. Data1 and Data2 of a UserEvent round-trip as
// decoded JSON values.
type record struct {
	Type      Type    `json:"type"`
	Name      string  `json:"name,omitempty"`
	Timestamp uint64  `json:"timestamp"`
	Payload   Payload `json:"payload,omitempty"`
}

// NewRecorder returns a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Watch records ev. It has the EventFilter signature and always returns true.
func (r *Recorder) Watch(ev *Event) bool {
	line, err := sonnet.Marshal(record{
		Type:      ev.Type,
		Name:      ev.Type.String(),
		Timestamp: ev.Timestamp,
		Payload:   ev.Payload,
	})
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return true
	}
	if err != nil {
		r.err = fmt.Errorf("evq: encode %s: %w", ev.Type, err)
		return true
	}
	line = append(line, '\n')
	if _, err := r.w.Write(line); err != nil {
		r.err = err
		return true
	}
	r.n++
	return true
}

// Count returns the number of events written.
func (r *Recorder) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Err returns the first encode or write error. Recording stops after it.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// ReadRecording decodes a stream written by a Recorder.
func ReadRecording(rd io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := decodeRecord(line)
		if err != nil {
			return events, fmt.Errorf("evq: recording line %d: %w", lineNo, err)
		}
		events = append(events, ev)
	}
	return events, sc.Err()
}

var errUnknownPayload = errors.New("unknown payload for event type")

// decodeRecord reads the header first and then decodes the payload into the
// struct its type selects.
func decodeRecord(line []byte) (Event, error) {
	var hdr struct {
		Type      Type   `json:"type"`
		Timestamp uint64 `json:"timestamp"`
	}
	if err := sonnet.Unmarshal(line, &hdr); err != nil {
		return Event{}, err
	}
	ev := Event{Type: hdr.Type, Timestamp: hdr.Timestamp}
	if !ev.Type.Valid() {
		return ev, ErrInvalidType
	}
	p, err := decodePayloadFor(ev.Type, line)
	if err != nil {
		return ev, err
	}
	ev.Payload = p
	return ev, nil
}

func decodePayloadFor(t Type, line []byte) (Payload, error) {
	switch {
	case t == EventQuit:
		return decodePayload[QuitEvent](line)
	case t >= EventDisplayFirst && t <= EventDisplayLast:
		return decodePayload[DisplayEvent](line)
	case t >= EventWindowFirst && t <= EventWindowLast:
		return decodePayload[WindowEvent](line)
	case t == EventKeyDown || t == EventKeyUp:
		return decodePayload[KeyboardEvent](line)
	case t == EventTextEditing:
		return decodePayload[TextEditingEvent](line)
	case t == EventTextInput:
		return decodePayload[TextInputEvent](line)
	case t == EventMouseMotion:
		return decodePayload[MouseMotionEvent](line)
	case t == EventMouseButtonDown || t == EventMouseButtonUp:
		return decodePayload[MouseButtonEvent](line)
	case t == EventMouseWheel:
		return decodePayload[MouseWheelEvent](line)
	case t == EventJoystickAxisMotion:
		return decodePayload[JoyAxisEvent](line)
	case t == EventJoystickHatMotion:
		return decodePayload[JoyHatEvent](line)
	case t == EventJoystickButtonDown || t == EventJoystickButtonUp:
		return decodePayload[JoyButtonEvent](line)
	case t == EventJoystickAdded || t == EventJoystickRemoved || t == EventJoystickUpdateComplete:
		return decodePayload[JoyDeviceEvent](line)
	case t == EventJoystickBatteryUpdated:
		return decodePayload[JoyBatteryEvent](line)
	case t == EventGamepadAxisMotion:
		return decodePayload[GamepadAxisEvent](line)
	case t == EventGamepadButtonDown || t == EventGamepadButtonUp:
		return decodePayload[GamepadButtonEvent](line)
	case t >= EventGamepadAdded && t <= EventGamepadRemapped,
		t == EventGamepadUpdateComplete, t == EventGamepadSteamHandleUpdated:
		return decodePayload[GamepadDeviceEvent](line)
	case t >= EventGamepadTouchpadDown && t <= EventGamepadTouchpadUp:
		return decodePayload[GamepadTouchpadEvent](line)
	case t == EventGamepadSensorUpdate:
		return decodePayload[GamepadSensorEvent](line)
	case t >= EventFingerDown && t <= EventFingerMotion:
		return decodePayload[TouchFingerEvent](line)
	case t >= EventDropFile && t <= EventDropPosition:
		return decodePayload[DropEvent](line)
	case t >= EventAudioDeviceAdded && t <= EventAudioDeviceFormatChanged:
		return decodePayload[AudioDeviceEvent](line)
	case t == EventSensorUpdate:
		return decodePayload[SensorEvent](line)
	case t >= EventPenDown && t <= EventPenButtonUp:
		return decodePayload[PenEvent](line)
	case t >= EventUser:
		return decodePayload[UserEvent](line)
	}
	return decodeHeaderOnly(line)
}

func decodePayload[P Payload](line []byte) (Payload, error) {
	var body struct {
		Payload *P `json:"payload"`
	}
	if err := sonnet.Unmarshal(line, &body); err != nil {
		return nil, err
	}
	if body.Payload == nil {
		return nil, nil
	}
	return *body.Payload, nil
}

// decodeHeaderOnly accepts types without a payload struct and rejects a
// payload that would otherwise be lost.
func decodeHeaderOnly(line []byte) (Payload, error) {
	var body struct {
		Payload map[string]any `json:"payload"`
	}
	if err := sonnet.Unmarshal(line, &body); err != nil {
		return nil, err
	}
	if len(body.Payload) != 0 {
		return nil, errUnknownPayload
	}
	return nil, nil
}
