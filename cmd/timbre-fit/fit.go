package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-keys/analysis"
	"github.com/cwbudde/algo-keys/synth"
)

// floorDB is the quietest harmonic level the search can reach; position 0
// maps to silence.
const floorDB = -60.0

type candidate struct {
	Vals []float64 // normalized harmonic levels in [0, 1]
}

type target struct {
	reference  []float64
	sampleRate int
	note       int
	harmonics  int
}

func (t *target) f0() float64 {
	return synth.MidiToFreq(t.note)
}

func levelToAmp(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return math.Pow(10, floorDB*(1-v)/20)
}

func ampToLevel(a float64) float64 {
	if a <= 0 {
		return 0
	}
	v := 1 - 20*math.Log10(a)/floorDB
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func cloneCandidate(c candidate) candidate {
	vals := make([]float64, len(c.Vals))
	copy(vals, c.Vals)
	return candidate{Vals: vals}
}

// toTimbre converts a candidate to a timbre whose loudest partial is 1.
func toTimbre(c candidate, name string) synth.Timbre {
	h := make([]synth.Harmonic, len(c.Vals))
	peak := 0.0
	for _, v := range c.Vals {
		peak = math.Max(peak, levelToAmp(v))
	}
	if peak <= 0 {
		peak = 1
	}
	for i, v := range c.Vals {
		h[i].Amplitude = float32(levelToAmp(v) / peak)
	}
	return synth.Timbre{Name: name, Harmonics: h}
}

// initialCandidate seeds the search with the reference's own harmonic
// profile.
func initialCandidate(t *target) (candidate, error) {
	prof, err := analysis.HarmonicProfile(t.reference, t.sampleRate, t.f0(), t.harmonics)
	if err != nil {
		return candidate{}, err
	}
	peak := 0.0
	for _, v := range prof {
		peak = math.Max(peak, v)
	}
	if peak <= 0 {
		return candidate{}, errors.New("reference has no energy at the requested note")
	}
	c := candidate{Vals: make([]float64, len(prof))}
	for i, v := range prof {
		c.Vals[i] = ampToLevel(v / peak)
	}
	return c, nil
}

// renderCandidate plays the candidate timbre on a one-key engine and returns
// the sustained part, the same length as the reference.
func renderCandidate(t *target, c candidate) ([]float64, []float32, error) {
	tb := toTimbre(c, "candidate")
	var sum float64
	for _, h := range tb.Harmonics {
		sum += float64(h.Amplitude)
	}
	if sum <= 0 {
		sum = 1
	}

	p := synth.NewDefaultParams()
	p.SampleRate = t.sampleRate
	p.FirstNote = t.note
	p.KeyCount = 1
	p.OutputGain = float32(1 / sum)
	e, err := synth.NewEngine(p, synth.NewTimbreTable(tb))
	if err != nil {
		return nil, nil, err
	}
	if !e.NoteOn(t.note) {
		return nil, nil, fmt.Errorf("note %d rejected", t.note)
	}
	attack := int(math.Ceil(p.AttackSeconds*float64(p.SampleRate))) + 1
	e.Process(attack)
	st := e.Process(len(t.reference))
	mono := analysis.StereoToMono(st)
	normalize(mono)
	return mono, st, nil
}

func evaluate(t *target, c candidate) (analysis.Metrics, error) {
	mono, _, err := renderCandidate(t, c)
	if err != nil {
		return analysis.Metrics{}, err
	}
	return analysis.CompareHarmonics(t.reference, mono, t.sampleRate, t.f0(), t.harmonics)
}

func normalize(x []float64) {
	p := analysis.Peak(x)
	if p <= 1e-12 {
		return
	}
	for i := range x {
		x[i] /= p
	}
}

// prepareReference cuts the analysis window out of a decoded reference and
// normalizes it.
func prepareReference(x []float64, sampleRate int, offsetSec float64) ([]float64, error) {
	start := int(offsetSec * float64(sampleRate))
	if start < 0 {
		start = 0
	}
	if start >= len(x) {
		return nil, fmt.Errorf("offset %.3fs is past the end of the reference (%.3fs)", offsetSec, float64(len(x))/float64(sampleRate))
	}
	end := start + analysis.DefaultFFTSize
	if end > len(x) {
		end = len(x)
	}
	out := make([]float64, end-start)
	copy(out, x[start:end])
	if len(out) < 2048 {
		return nil, fmt.Errorf("reference window too short: %d samples", len(out))
	}
	normalize(out)
	return out, nil
}

// noteFromPitch rounds a frequency to the nearest MIDI note.
func noteFromPitch(hz float64) int {
	return int(math.Round(69 + 12*math.Log2(hz/440)))
}
