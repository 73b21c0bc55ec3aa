package timbre

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cwbudde/algo-keys/synth"
)

// File is the JSON schema for timbres.
type File struct {
	Name      string         `json:"name"`
	Harmonics []HarmonicJSON `json:"harmonics"`
}

// HarmonicJSON is one partial in a JSON timbre file.
type HarmonicJSON struct {
	Amplitude float32 `json:"amplitude"`
	Phase     float32 `json:"phase"`
}

// ParseJSON decodes a JSON timbre. Empty names and empty harmonic lists
// behave as in Parse.
func ParseJSON(r io.Reader, index int) (synth.Timbre, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return synth.DefaultSine(), fmt.Errorf("decode timbre json: %w", err)
	}
	name := truncateName(f.Name)
	if name == "" {
		name = fmt.Sprintf("Unnamed %d", index)
	}
	if len(f.Harmonics) == 0 {
		return synth.DefaultSine(), fmt.Errorf("%s: %w", name, ErrNoHarmonics)
	}
	if len(f.Harmonics) > MaxHarmonics {
		return synth.DefaultSine(), fmt.Errorf("%s: %d harmonics exceeds %d: %w", name, len(f.Harmonics), MaxHarmonics, ErrNoHarmonics)
	}
	h := make([]synth.Harmonic, len(f.Harmonics))
	for i, v := range f.Harmonics {
		h[i] = synth.Harmonic{Amplitude: v.Amplitude, PhaseShift: v.Phase}
	}
	return synth.Timbre{Name: name, Harmonics: h}, nil
}

// WriteJSON encodes t as an indented JSON timbre.
func WriteJSON(w io.Writer, t synth.Timbre) error {
	f := File{Name: t.Name, Harmonics: make([]HarmonicJSON, len(t.Harmonics))}
	for i, h := range t.Harmonics {
		f.Harmonics[i] = HarmonicJSON{Amplitude: h.Amplitude, Phase: h.PhaseShift}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}
