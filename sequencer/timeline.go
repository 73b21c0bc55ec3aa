package sequencer

import (
	"time"

	"github.com/cwbudde/algo-keys/score"
)

// CueKind is the action of a Cue.
type CueKind int

const (
	CueNoteOn CueKind = iota
	CueNoteOff
)

// Cue is one key action at an offset from the start of playback.
type Cue struct {
	At   time.Duration
	Kind CueKind
	Note int
}

// Timeline lays out the actions a Sequencer would perform for events, with
// their offsets, and returns them with the total length. Offline renderers
// use it to place note events at sample positions.
func Timeline(events []score.Event) ([]Cue, time.Duration) {
	var cues []Cue
	var at time.Duration
	prev := score.Rest
	for _, ev := range events {
		if prev > 0 && prev != ev.Note {
			cues = append(cues, Cue{At: at, Kind: CueNoteOff, Note: prev})
		}
		if !ev.IsRest() {
			cues = append(cues, Cue{At: at, Kind: CueNoteOn, Note: ev.Note})
		}
		at += ev.Duration
		prev = ev.Note
	}
	if prev > 0 {
		cues = append(cues, Cue{At: at, Kind: CueNoteOff, Note: prev})
	}
	return cues, at
}

// Apply performs c on p.
func (c Cue) Apply(p NotePlayer) bool {
	if c.Kind == CueNoteOff {
		return p.NoteOff(c.Note)
	}
	return p.NoteOn(c.Note)
}
