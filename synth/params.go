package synth

import "fmt"

const (
	DefaultSampleRate     = 44100
	DefaultAttackSeconds  = 0.01
	DefaultReleaseSeconds = 0.01
	DefaultFirstNote      = 48
	DefaultKeyCount       = 37

	OctaveShiftMin = -2
	OctaveShiftMax = 2

	// KeyPressedY is the visual offset of a held key.
	KeyPressedY = float32(-0.2)
)

// Params holds engine construction parameters.
type Params struct {
	SampleRate     int
	AttackSeconds  float64
	ReleaseSeconds float64
	OutputGain     float32
	FirstNote      int
	KeyCount       int
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		SampleRate:     DefaultSampleRate,
		AttackSeconds:  DefaultAttackSeconds,
		ReleaseSeconds: DefaultReleaseSeconds,
		OutputGain:     1.0,
		FirstNote:      DefaultFirstNote,
		KeyCount:       DefaultKeyCount,
	}
}

// Validate reports the first parameter that cannot drive an engine.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("nil params")
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be > 0")
	}
	if p.AttackSeconds <= 0 {
		return fmt.Errorf("attack_seconds must be > 0")
	}
	if p.ReleaseSeconds <= 0 {
		return fmt.Errorf("release_seconds must be > 0")
	}
	if p.OutputGain <= 0 {
		return fmt.Errorf("output_gain must be > 0")
	}
	if p.FirstNote <= 0 || p.FirstNote > 127 {
		return fmt.Errorf("first_note must be in 1..127")
	}
	if p.KeyCount <= 0 || p.FirstNote+p.KeyCount-1 > 127 {
		return fmt.Errorf("key_count must be > 0 and end at or below note 127")
	}
	return nil
}
