package updates

import "time"

// Window is the part of the day a run falls into
type Window string

const (
	WindowMorning Window = "morning"
	WindowEvening Window = "evening"
	WindowIdle    Window = "idle"
)

// Posting windows in UTC hours, start inclusive and end exclusive
const (
	morningStart = 7
	morningEnd   = 9
	eveningStart = 22
	eveningEnd   = 24
)

// WindowAt returns the window containing t's UTC hour
func WindowAt(t time.Time) Window {
	hour := t.UTC().Hour()
	switch {
	case hour >= morningStart && hour < morningEnd:
		return WindowMorning
	case hour >= eveningStart && hour < eveningEnd:
		return WindowEvening
	default:
		return WindowIdle
	}
}
