package synth

import "sync/atomic"

// DefaultTimbreName names the single-sine fallback timbre.
const DefaultTimbreName = "Default Sine"

// Harmonic is one sinusoidal partial of an additive timbre.
type Harmonic struct {
	Amplitude  float32
	PhaseShift float32
}

// Timbre is a named harmonic table. Harmonics[h] sounds at (h+1) times the
// fundamental.
type Timbre struct {
	Name      string
	Harmonics []Harmonic
}

// DefaultSine returns the fallback timbre used whenever timbre data is missing
// or malformed.
func DefaultSine() Timbre {
	return Timbre{
		Name:      DefaultTimbreName,
		Harmonics: []Harmonic{{Amplitude: 1.0, PhaseShift: 0.0}},
	}
}

func (t Timbre) clone() Timbre {
	if len(t.Harmonics) == 0 {
		return DefaultSine()
	}
	h := make([]Harmonic, len(t.Harmonics))
	copy(h, t.Harmonics)
	return Timbre{Name: t.Name, Harmonics: h}
}

// TimbreTable is an immutable set of timbres with one atomically selected
// entry.
type TimbreTable struct {
	timbres []Timbre
	current atomic.Int32
}

// NewTimbreTable copies the given timbres into a new table. Empty timbres are
// replaced by DefaultSine, and an empty set yields a single DefaultSine entry.
func NewTimbreTable(timbres ...Timbre) *TimbreTable {
	t := &TimbreTable{}
	if len(timbres) == 0 {
		t.timbres = []Timbre{DefaultSine()}
		return t
	}
	t.timbres = make([]Timbre, len(timbres))
	for i := range timbres {
		t.timbres[i] = timbres[i].clone()
	}
	return t
}

// Len returns the number of loaded timbres.
func (t *TimbreTable) Len() int {
	return len(t.timbres)
}

// Select makes index the current timbre. Out-of-range indices are ignored.
func (t *TimbreTable) Select(index int) bool {
	if index < 0 || index >= len(t.timbres) {
		return false
	}
	t.current.Store(int32(index))
	return true
}

// Index returns the current selection.
func (t *TimbreTable) Index() int {
	return int(t.current.Load())
}

// Current returns the selected timbre. The returned harmonic slice is shared
// and must not be modified.
func (t *TimbreTable) Current() *Timbre {
	return &t.timbres[t.current.Load()]
}

// At returns the timbre at index, or false when out of range.
func (t *TimbreTable) At(index int) (Timbre, bool) {
	if index < 0 || index >= len(t.timbres) {
		return Timbre{}, false
	}
	return t.timbres[index], true
}
