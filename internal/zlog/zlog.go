// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package zlog writes logiface events through zerolog.
package zlog

import (
	"io"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

type (
	// Event wraps a zerolog event for logiface.
	Event struct {
		logiface.UnimplementedEvent
		Z   *zerolog.Event
		lvl logiface.Level
		msg string
	}

	// Logger is both the event factory and the writer.
	Logger struct {
		Z zerolog.Logger
	}
)

var (
	// compile time assertions

	_ logiface.Event                = (*Event)(nil)
	_ logiface.EventFactory[*Event] = (*Logger)(nil)
	_ logiface.Writer[*Event]       = (*Logger)(nil)
)

// New returns a generic logiface logger writing JSON lines to w, at level
// and above.
func New(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	l := &Logger{Z: zerolog.New(w).With().Timestamp().Logger()}
	return logiface.New[*Event](
		logiface.WithEventFactory[*Event](l),
		logiface.WithWriter[*Event](l),
		logiface.WithLevel[*Event](level),
	).Logger()
}

// Console is New with zerolog's human readable console writer.
func Console(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}, level)
}

func (x *Event) Level() logiface.Level {
	if x != nil {
		return x.lvl
	}
	return logiface.LevelDisabled
}

func (x *Event) AddField(key string, val any) {
	x.Z.Interface(key, val)
}

func (x *Event) AddMessage(msg string) bool {
	x.msg = msg
	return true
}

func (x *Event) AddError(err error) bool {
	x.Z.Err(err)
	return true
}

func (x *Event) AddString(key string, val string) bool {
	x.Z.Str(key, val)
	return true
}

func (x *Event) AddInt(key string, val int) bool {
	x.Z.Int(key, val)
	return true
}

func (x *Event) AddInt64(key string, val int64) bool {
	x.Z.Int64(key, val)
	return true
}

func (x *Event) AddUint64(key string, val uint64) bool {
	x.Z.Uint64(key, val)
	return true
}

func (x *Event) AddBool(key string, val bool) bool {
	x.Z.Bool(key, val)
	return true
}

func (x *Event) AddDuration(key string, val time.Duration) bool {
	x.Z.Dur(key, val)
	return true
}

func (x *Logger) NewEvent(level logiface.Level) *Event {
	if !level.Enabled() {
		return nil
	}
	r := Event{
		lvl: level,
	}
	switch level {
	case logiface.LevelTrace:
		r.Z = x.Z.Trace()
	case logiface.LevelDebug:
		r.Z = x.Z.Debug()
	case logiface.LevelInformational:
		r.Z = x.Z.Info()
	case logiface.LevelNotice, logiface.LevelWarning:
		r.Z = x.Z.Warn()
	case logiface.LevelError:
		r.Z = x.Z.Error()
	default:
		// critical and above must not exit or panic from inside the queue
		r.Z = x.Z.WithLevel(zerolog.ErrorLevel)
	}
	return &r
}

func (x *Logger) Write(event *Event) error {
	event.Z.Msg(event.msg)
	return nil
}
