package synth

import "math"

const twoPi = 2.0 * math.Pi

// MidiToFreq converts a MIDI note number to equal-tempered frequency in Hz
// (A4 = note 69 = 440 Hz).
func MidiToFreq(note int) float64 {
	const a4Freq = 440.0
	const a4Note = 69
	return a4Freq * math.Pow(2.0, float64(note-a4Note)/12.0)
}

// additiveSample sums the harmonic partials at the given fundamental phase.
func additiveSample(phase float64, harmonics []Harmonic) float64 {
	var sum float64
	for h := range harmonics {
		hm := &harmonics[h]
		sum += float64(hm.Amplitude) * math.Sin(phase*float64(h+1)+float64(hm.PhaseShift))
	}
	return sum
}

// advancePhase moves the phase accumulator forward and keeps it in [0, 2π).
func (v *voice) advancePhase(inc float64) {
	v.phase += inc
	if v.phase >= twoPi {
		v.phase -= twoPi
		if v.phase >= twoPi {
			v.phase = math.Mod(v.phase, twoPi)
		}
	}
}

// phaseIncrement returns the per-sample phase step for the voice sounding at
// effectiveNote, recomputing only when the effective note changes.
func (v *voice) phaseIncrement(effectiveNote int, sampleRate float64) float64 {
	if !v.incValid || v.incNote != effectiveNote {
		v.inc = twoPi * MidiToFreq(effectiveNote) / sampleRate
		v.incNote = effectiveNote
		v.incValid = true
	}
	return v.inc
}
