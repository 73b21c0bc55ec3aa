package synth

import (
	"math"
	"testing"
)

func TestMidiToFreq(t *testing.T) {
	cases := []struct {
		note int
		want float64
	}{
		{69, 440.0},
		{81, 880.0},
		{57, 220.0},
		{60, 261.6256},
	}
	for _, tc := range cases {
		if got := MidiToFreq(tc.note); math.Abs(got-tc.want) > 1e-3 {
			t.Fatalf("MidiToFreq(%d)=%f want %f", tc.note, got, tc.want)
		}
	}
}

func TestOctaveShiftMatchesNoteOneOctaveUp(t *testing.T) {
	shifted := newTestEngine(t)
	if !shifted.SetOctaveShift(1) {
		t.Fatalf("SetOctaveShift(1) rejected")
	}
	shifted.NoteOn(69)

	plain := newTestEngine(t)
	plain.NoteOn(81)

	a := renderFrames(shifted, 2048)
	b := renderFrames(plain, 2048)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: shifted=%g plain=%g", i, a[i], b[i])
		}
	}

	v := shifted.voiceFor(69)
	want := twoPi * MidiToFreq(81) / DefaultSampleRate
	if math.Abs(v.inc-want) > 1e-12 {
		t.Fatalf("phase increment=%g want %g", v.inc, want)
	}
}

func TestOctaveChangeAppliesToHeldVoice(t *testing.T) {
	e := newTestEngine(t)
	e.NoteOn(60)
	renderFrames(e, 256)
	v := e.voiceFor(60)
	before := v.inc

	e.SetOctaveShift(-1)
	renderFrames(e, 1)
	after := v.inc
	want := twoPi * MidiToFreq(48) / DefaultSampleRate
	if math.Abs(after-want) > 1e-12 {
		t.Fatalf("held voice not re-pitched: inc=%g want %g", after, want)
	}
	if math.Abs(after*2-before) > 1e-12 {
		t.Fatalf("expected exact octave drop: before=%g after=%g", before, after)
	}
}

func TestPhaseStaysWrappedOverLongHold(t *testing.T) {
	e := newTestEngine(t)
	e.SetOctaveShift(OctaveShiftMax)
	top := e.Notes()[len(e.Notes())-1]
	e.NoteOn(top)
	e.NoteOn(48)

	buf := make([]float32, 512*2)
	total := 10 * DefaultSampleRate
	for rendered := 0; rendered < total; rendered += 512 {
		e.Render(buf, 512)
		for _, note := range []int{top, 48} {
			p := e.voiceFor(note).phase
			if p < 0 || p >= twoPi {
				t.Fatalf("phase for note %d escaped [0,2pi) after %d frames: %g", note, rendered, p)
			}
		}
	}
}

func TestAdditiveSampleSumsHarmonics(t *testing.T) {
	h := []Harmonic{
		{Amplitude: 1.0, PhaseShift: 0},
		{Amplitude: 0.5, PhaseShift: float32(math.Pi / 2)},
		{Amplitude: 0.25, PhaseShift: 0},
	}
	for _, phase := range []float64{0, 0.3, 1.7, 4.2} {
		want := math.Sin(phase) +
			0.5*math.Sin(2*phase+float64(float32(math.Pi/2))) +
			0.25*math.Sin(3*phase)
		if got := additiveSample(phase, h); math.Abs(got-want) > 1e-12 {
			t.Fatalf("additiveSample(%g)=%g want %g", phase, got, want)
		}
	}
	if got := additiveSample(1.0, DefaultSine().Harmonics); got != math.Sin(1.0) {
		t.Fatalf("default sine sample=%g want %g", got, math.Sin(1.0))
	}
}

func TestAdvancePhaseWrapsLargeSteps(t *testing.T) {
	v := voice{phase: 6.0}
	v.advancePhase(20.0)
	if v.phase < 0 || v.phase >= twoPi {
		t.Fatalf("phase not wrapped: %g", v.phase)
	}
	if want := math.Mod(26.0-twoPi, twoPi); math.Abs(v.phase-want) > 1e-12 {
		t.Fatalf("phase=%g want %g", v.phase, want)
	}
}
