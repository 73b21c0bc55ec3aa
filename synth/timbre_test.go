package synth

import "testing"

func TestDefaultSine(t *testing.T) {
	d := DefaultSine()
	if d.Name != "Default Sine" {
		t.Fatalf("name=%q", d.Name)
	}
	if len(d.Harmonics) != 1 || d.Harmonics[0].Amplitude != 1.0 || d.Harmonics[0].PhaseShift != 0.0 {
		t.Fatalf("harmonics=%+v", d.Harmonics)
	}
}

func TestTimbreTableFallbacks(t *testing.T) {
	empty := NewTimbreTable()
	if empty.Len() != 1 || empty.Current().Name != DefaultTimbreName {
		t.Fatalf("empty table: len=%d current=%q", empty.Len(), empty.Current().Name)
	}

	tbl := NewTimbreTable(Timbre{Name: "broken"}, loudTimbre(2))
	first, ok := tbl.At(0)
	if !ok || first.Name != DefaultTimbreName || len(first.Harmonics) != 1 {
		t.Fatalf("harmonic-less timbre not replaced: %+v", first)
	}
	if _, ok := tbl.At(2); ok {
		t.Fatalf("At accepted out-of-range index")
	}
}

func TestTimbreTableOwnsHarmonics(t *testing.T) {
	src := loudTimbre(3)
	tbl := NewTimbreTable(src)
	src.Harmonics[0].Amplitude = 0

	got, _ := tbl.At(0)
	if got.Harmonics[0].Amplitude != 1.0 {
		t.Fatalf("table shares caller's harmonic storage")
	}
}
