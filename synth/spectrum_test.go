package synth

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-keys/analysis"
)

func TestRenderedSpectrumMatchesTimbre(t *testing.T) {
	amps := []float32{0.5, 0.25, 0.125}
	h := make([]Harmonic, len(amps))
	for i, a := range amps {
		h[i] = Harmonic{Amplitude: a}
	}
	e := newTestEngine(t, Timbre{Name: "three", Harmonics: h})

	const note = 57
	e.NoteOn(note)
	renderFrames(e, attackSamples()+64)
	mono := analysis.StereoToMono(renderFrames(e, analysis.DefaultFFTSize))

	prof, err := analysis.HarmonicProfile(mono, DefaultSampleRate, MidiToFreq(note), len(amps)+1)
	if err != nil {
		t.Fatalf("HarmonicProfile: %v", err)
	}
	for i, a := range amps {
		if math.Abs(prof[i]-float64(a)) > 0.03 {
			t.Fatalf("harmonic %d: got=%.4f want=%.4f (profile=%v)", i+1, prof[i], a, prof)
		}
	}
	if prof[len(amps)] > 0.01 {
		t.Fatalf("unexpected energy above the timbre's harmonics: %v", prof)
	}

	f0, err := analysis.EstimatePitch(mono, DefaultSampleRate, 100, 1000)
	if err != nil {
		t.Fatalf("EstimatePitch: %v", err)
	}
	if math.Abs(f0-220.0)/220.0 > 0.01 {
		t.Fatalf("pitch=%.3f want 220", f0)
	}
}
