package synth

import (
	"math"
	"testing"
)

func newTestEngine(t testing.TB, timbres ...Timbre) *Engine {
	t.Helper()
	e, err := NewEngine(NewDefaultParams(), NewTimbreTable(timbres...))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func (e *Engine) voiceFor(note int) *voice {
	i, ok := e.keyIndex(note)
	if !ok {
		return nil
	}
	return &e.voices[i]
}

func renderFrames(e *Engine, frames int) []float32 {
	out := make([]float32, frames*2)
	e.Render(out, frames)
	return out
}

func attackSamples() int {
	return int(math.Ceil(float64(DefaultSampleRate) * DefaultAttackSeconds))
}

func releaseSamples() int {
	return int(math.Ceil(float64(DefaultSampleRate) * DefaultReleaseSeconds))
}

func loudTimbre(n int) Timbre {
	h := make([]Harmonic, n)
	for i := range h {
		h[i] = Harmonic{Amplitude: 1.0}
	}
	return Timbre{Name: "loud", Harmonics: h}
}
