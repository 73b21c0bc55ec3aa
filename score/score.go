// Package score holds monophonic note sequences and their file formats.
package score

import (
	"errors"
	"time"
)

// DefaultTempo is the tempo in beats per minute used when none is given.
const DefaultTempo = 120.0

// Rest is the note value of a silent event.
const Rest = 0

// ErrEmpty reports a score without a single event.
var ErrEmpty = errors.New("score has no events")

// Event is one step of a sequence: a MIDI note (or Rest) held for Duration.
type Event struct {
	Note     int
	Duration time.Duration
}

// IsRest reports whether the event is silent.
func (e Event) IsRest() bool {
	return e.Note <= 0
}

// Length returns the summed duration of events.
func Length(events []Event) time.Duration {
	var d time.Duration
	for _, ev := range events {
		d += ev.Duration
	}
	return d
}

// BeatDuration returns the length of one quarter note at tempo bpm.
func BeatDuration(bpm float64) time.Duration {
	if bpm <= 0 {
		bpm = DefaultTempo
	}
	return time.Duration(60.0 / bpm * float64(time.Second))
}
