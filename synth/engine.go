package synth

import (
	"math"
	"sync/atomic"
)

// Engine is the additive synthesizer: one voice per key, a shared timbre
// table and a lock-free mixing callback.
//
// NoteOn, NoteOff, ReleaseAll, SelectTimbre and the octave setters may be
// called from any goroutine. Render must only be called from one goroutine at
// a time (the audio backend's callback).
type Engine struct {
	sampleRate float64
	attackInc  float64
	releaseDec float64
	outputGain float64
	firstNote  int

	voices    []voice
	published []atomic.Uint32
	targets   []atomic.Uint32

	timbres *TimbreTable
	octave  atomic.Int32
	events  eventQueue
	dropped atomic.Uint64
}

// NewEngine creates an engine. Nil params select the defaults and a nil table
// holds only the default sine timbre.
func NewEngine(params *Params, timbres *TimbreTable) (*Engine, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if timbres == nil {
		timbres = NewTimbreTable()
	}
	rate := float64(params.SampleRate)
	return &Engine{
		sampleRate: rate,
		attackInc:  1.0 / (rate * params.AttackSeconds),
		releaseDec: 1.0 / (rate * params.ReleaseSeconds),
		outputGain: float64(params.OutputGain),
		firstNote:  params.FirstNote,
		voices:     newVoices(params.FirstNote, params.KeyCount),
		published:  make([]atomic.Uint32, params.KeyCount),
		targets:    make([]atomic.Uint32, params.KeyCount),
		timbres:    timbres,
	}, nil
}

// SampleRate returns the render rate in Hz.
func (e *Engine) SampleRate() int {
	return int(e.sampleRate)
}

// Notes returns the MIDI notes of all keys in ascending order.
func (e *Engine) Notes() []int {
	notes := make([]int, len(e.voices))
	for i := range e.voices {
		notes[i] = e.voices[i].note
	}
	return notes
}

// Timbres returns the engine's timbre table.
func (e *Engine) Timbres() *TimbreTable {
	return e.timbres
}

func (e *Engine) keyIndex(note int) (int, bool) {
	if note <= 0 {
		return 0, false
	}
	i := note - e.firstNote
	if i < 0 || i >= len(e.voices) {
		return 0, false
	}
	return i, true
}

// NoteOn presses a key. Notes <= 0 and notes outside the keyboard are
// ignored. It returns false if the note was ignored or the event queue was
// full; the key target only moves when the event was queued.
func (e *Engine) NoteOn(note int) bool {
	i, ok := e.keyIndex(note)
	if !ok {
		return false
	}
	if !e.enqueue(noteEvent{kind: eventNoteOn, index: int32(i)}) {
		return false
	}
	e.targets[i].Store(math.Float32bits(KeyPressedY))
	return true
}

// NoteOff releases a key. Ignored notes behave as in NoteOn.
func (e *Engine) NoteOff(note int) bool {
	i, ok := e.keyIndex(note)
	if !ok {
		return false
	}
	if !e.enqueue(noteEvent{kind: eventNoteOff, index: int32(i)}) {
		return false
	}
	e.targets[i].Store(math.Float32bits(0))
	return true
}

// ReleaseAll releases every key.
func (e *Engine) ReleaseAll() bool {
	if !e.enqueue(noteEvent{kind: eventReleaseAll}) {
		return false
	}
	for i := range e.targets {
		e.targets[i].Store(math.Float32bits(0))
	}
	return true
}

func (e *Engine) enqueue(ev noteEvent) bool {
	if !e.events.push(ev) {
		e.dropped.Add(1)
		return false
	}
	return true
}

// DroppedEvents counts note events lost to a full queue.
func (e *Engine) DroppedEvents() uint64 {
	return e.dropped.Load()
}

// SelectTimbre makes index the current timbre. Out-of-range indices are
// ignored.
func (e *Engine) SelectTimbre(index int) bool {
	return e.timbres.Select(index)
}

// CurrentTimbre returns the selected timbre.
func (e *Engine) CurrentTimbre() *Timbre {
	return e.timbres.Current()
}

// SetOctaveShift sets the global transposition in octaves. Values outside
// [OctaveShiftMin, OctaveShiftMax] are ignored.
func (e *Engine) SetOctaveShift(shift int) bool {
	if shift < OctaveShiftMin || shift > OctaveShiftMax {
		return false
	}
	e.octave.Store(int32(shift))
	return true
}

// ShiftOctave moves the transposition by delta octaves. A move that would
// leave the allowed range is ignored; the resulting shift is returned either
// way.
func (e *Engine) ShiftOctave(delta int) (int, bool) {
	for {
		cur := e.octave.Load()
		next := int(cur) + delta
		if next < OctaveShiftMin || next > OctaveShiftMax {
			return int(cur), false
		}
		if e.octave.CompareAndSwap(cur, int32(next)) {
			return next, true
		}
	}
}

// OctaveShift returns the current transposition in octaves.
func (e *Engine) OctaveShift() int {
	return int(e.octave.Load())
}

// KeyTarget returns the visual y position a key is moving toward.
func (e *Engine) KeyTarget(note int) float32 {
	i, ok := e.keyIndex(note)
	if !ok {
		return 0
	}
	return math.Float32frombits(e.targets[i].Load())
}

// KeyState returns the envelope state published by the last Render call.
func (e *Engine) KeyState(note int) (EnvelopeState, bool) {
	i, ok := e.keyIndex(note)
	if !ok {
		return Off, false
	}
	return EnvelopeState(e.published[i].Load()), true
}

// ActiveVoices counts keys that were sounding after the last Render call.
func (e *Engine) ActiveVoices() int {
	n := 0
	for i := range e.published {
		if EnvelopeState(e.published[i].Load()) != Off {
			n++
		}
	}
	return n
}

func (e *Engine) drainEvents() {
	for {
		ev, ok := e.events.pop()
		if !ok {
			return
		}
		switch ev.kind {
		case eventNoteOn:
			e.voices[ev.index].noteOn()
		case eventNoteOff:
			e.voices[ev.index].noteOff()
		case eventReleaseAll:
			for i := range e.voices {
				e.voices[i].noteOff()
			}
		}
	}
}

// Render writes frames interleaved stereo frames into out and returns the
// number written, which is limited by len(out)/2. It does not allocate, lock
// or block.
func (e *Engine) Render(out []float32, frames int) int {
	if frames > len(out)/2 {
		frames = len(out) / 2
	}
	if frames <= 0 {
		return 0
	}

	e.drainEvents()
	harmonics := e.timbres.Current().Harmonics

	for i := 0; i < frames; i++ {
		shift := 12 * int(e.octave.Load())
		var mixed float64

		for k := range e.voices {
			v := &e.voices[k]
			if v.state == Off {
				continue
			}
			v.stepEnvelope(e.attackInc, e.releaseDec)
			if v.state == Off {
				continue
			}
			mixed += v.amplitude * additiveSample(v.phase, harmonics)
			v.advancePhase(v.phaseIncrement(v.note+shift, e.sampleRate))
		}

		mixed *= e.outputGain
		if mixed > 1.0 {
			mixed = 1.0
		} else if mixed < -1.0 {
			mixed = -1.0
		}
		out[i*2] = float32(mixed)
		out[i*2+1] = float32(mixed)
	}

	for k := range e.voices {
		e.published[k].Store(uint32(e.voices[k].state))
	}
	return frames
}

// Process renders a block of audio samples (stereo interleaved) into a new
// slice. It allocates and is meant for offline rendering.
func (e *Engine) Process(numFrames int) []float32 {
	if numFrames <= 0 {
		return nil
	}
	out := make([]float32, numFrames*2)
	e.Render(out, numFrames)
	return out
}
