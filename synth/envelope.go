package synth

// EnvelopeState is the phase of a voice's attack/sustain/release envelope.
type EnvelopeState uint32

const (
	Off EnvelopeState = iota
	Attack
	Sustain
	Releasing
)

// envelopeEpsilon absorbs the rounding error accumulated by summing
// 1/(rate*seconds) increments, so a ramp of ceil(rate*seconds) steps always
// reaches its end point.
const envelopeEpsilon = 1e-9

func (s EnvelopeState) String() string {
	switch s {
	case Off:
		return "off"
	case Attack:
		return "attack"
	case Sustain:
		return "sustain"
	case Releasing:
		return "releasing"
	default:
		return "unknown"
	}
}

// Sounding reports whether a voice in this state contributes to the mix.
func (s EnvelopeState) Sounding() bool {
	return s != Off
}

// stepEnvelope advances the envelope by one sample.
func (v *voice) stepEnvelope(attackInc, releaseDec float64) {
	switch v.state {
	case Attack:
		v.amplitude += attackInc
		if v.amplitude >= 1.0-envelopeEpsilon {
			v.amplitude = 1.0
			v.state = Sustain
		}
	case Releasing:
		v.amplitude -= releaseDec
		if v.amplitude <= envelopeEpsilon {
			v.amplitude = 0.0
			v.state = Off
		}
	}
}

// noteOn starts the voice from Off with phase and gain reset. A releasing
// voice resumes its attack from the current gain; a held voice is untouched.
func (v *voice) noteOn() {
	switch v.state {
	case Off:
		v.amplitude = 0.0
		v.phase = 0.0
		v.state = Attack
	case Releasing:
		v.state = Attack
	}
}

func (v *voice) noteOff() {
	switch v.state {
	case Attack, Sustain:
		v.state = Releasing
	}
}
