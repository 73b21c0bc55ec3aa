package timbre

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cwbudde/algo-keys/synth"
)

func TestParseTextFormat(t *testing.T) {
	in := "Bright Organ\n3\n1.0,0.0\n0.5,1.5708\n0.25,0\n"
	got, err := Parse(strings.NewReader(in), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Name != "Bright Organ" {
		t.Fatalf("name=%q", got.Name)
	}
	want := []synth.Harmonic{
		{Amplitude: 1.0, PhaseShift: 0.0},
		{Amplitude: 0.5, PhaseShift: 1.5708},
		{Amplitude: 0.25, PhaseShift: 0},
	}
	if len(got.Harmonics) != len(want) {
		t.Fatalf("harmonics=%d want %d", len(got.Harmonics), len(want))
	}
	for i := range want {
		if got.Harmonics[i] != want[i] {
			t.Fatalf("harmonic %d: got=%+v want=%+v", i, got.Harmonics[i], want[i])
		}
	}
}

func TestParseUnnamedAndCRLF(t *testing.T) {
	got, err := Parse(strings.NewReader("\r\n1\r\n0.7, 0.1\r\n"), 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Name != "Unnamed 2" {
		t.Fatalf("name=%q want %q", got.Name, "Unnamed 2")
	}
	if got.Harmonics[0] != (synth.Harmonic{Amplitude: 0.7, PhaseShift: 0.1}) {
		t.Fatalf("harmonic=%+v", got.Harmonics[0])
	}
}

func TestParseTruncatesLongName(t *testing.T) {
	long := strings.Repeat("x", 100)
	got, err := Parse(strings.NewReader(long+"\n1\n1,0\n"), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Name) != MaxNameLen {
		t.Fatalf("name length=%d want %d", len(got.Name), MaxNameLen)
	}
}

func TestParseBadHarmonicLinesBecomeSilent(t *testing.T) {
	got, err := Parse(strings.NewReader("Broken\n3\n1,0\nnope\n0.5\n"), 0)
	if err == nil {
		t.Fatalf("expected warning")
	}
	if errors.Is(err, ErrNoHarmonics) {
		t.Fatalf("bad lines must not be reported as missing harmonics: %v", err)
	}
	if len(got.Harmonics) != 3 {
		t.Fatalf("harmonics=%d want 3", len(got.Harmonics))
	}
	if got.Harmonics[0].Amplitude != 1 {
		t.Fatalf("first harmonic lost: %+v", got.Harmonics[0])
	}
	for i := 1; i < 3; i++ {
		if got.Harmonics[i] != (synth.Harmonic{}) {
			t.Fatalf("harmonic %d should be silent, got %+v", i, got.Harmonics[i])
		}
	}
}

func TestParseAllBadHarmonicLinesFallBackToSine(t *testing.T) {
	for _, in := range []string{"Broken\n3\nfoo\nbar\nbaz\n", "Broken\n2\n"} {
		got, err := Parse(strings.NewReader(in), 0)
		if !errors.Is(err, ErrNoHarmonics) {
			t.Fatalf("input %q: err=%v want ErrNoHarmonics", in, err)
		}
		if got.Name != synth.DefaultTimbreName || len(got.Harmonics) != 1 || got.Harmonics[0].Amplitude != 1 {
			t.Fatalf("input %q: got %+v want default sine", in, got)
		}

		e, err := synth.NewEngine(nil, synth.NewTimbreTable(got))
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		e.NoteOn(60)
		peak := float32(0)
		for _, v := range e.Process(2048) {
			if v > peak {
				peak = v
			}
		}
		if peak <= 0.1 {
			t.Fatalf("input %q: peak=%v, fallback timbre must be audible", in, peak)
		}
	}
}

func TestParseShortFileKeepsLinesPresent(t *testing.T) {
	got, err := Parse(strings.NewReader("Short\n5\n1,0\n0.5,0\n"), 0)
	if err == nil {
		t.Fatalf("expected warning for missing lines")
	}
	if errors.Is(err, ErrNoHarmonics) {
		t.Fatalf("partial file is usable: %v", err)
	}
	if len(got.Harmonics) != 2 {
		t.Fatalf("harmonics=%d want 2", len(got.Harmonics))
	}
}

func TestParseCapsHarmonicCount(t *testing.T) {
	got, err := Parse(strings.NewReader("Huge\n3000000\n1,0\n"), 0)
	if err == nil {
		t.Fatalf("expected warning")
	}
	if len(got.Harmonics) != 1 {
		t.Fatalf("harmonics=%d want 1", len(got.Harmonics))
	}
	if n := len(err.Error()); n > 512 {
		t.Fatalf("warning is %d bytes, want a short message", n)
	}

	var b strings.Builder
	b.WriteString("Many\n300\n")
	for i := 0; i < 300; i++ {
		b.WriteString("0.1,0\n")
	}
	got, err = Parse(strings.NewReader(b.String()), 0)
	if err == nil {
		t.Fatalf("expected cap warning")
	}
	if len(got.Harmonics) != MaxHarmonics {
		t.Fatalf("harmonics=%d want %d", len(got.Harmonics), MaxHarmonics)
	}

	got, err = Parse(strings.NewReader("Exact\n1\n1,0\n"), 0)
	if err != nil || len(got.Harmonics) != 1 {
		t.Fatalf("got %+v err=%v", got, err)
	}
}

func TestParseJSONRejectsTooManyHarmonics(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"name":"Big","harmonics":[`)
	for i := 0; i <= MaxHarmonics; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"amplitude":0.1,"phase":0}`)
	}
	b.WriteString("]}")
	got, err := ParseJSON(strings.NewReader(b.String()), 0)
	if !errors.Is(err, ErrNoHarmonics) {
		t.Fatalf("err=%v want ErrNoHarmonics", err)
	}
	if len(got.Harmonics) != 1 {
		t.Fatalf("got %+v want default sine", got)
	}
}

func TestTruncateNameKeepsRunesWhole(t *testing.T) {
	name := "x" + strings.Repeat("音", 30) // 1 + 90 bytes
	got := truncateName(name)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated name is not valid UTF-8: %q", got)
	}
	if len(got) != 61 {
		t.Fatalf("len=%d want 61", len(got))
	}

	tb, err := Parse(strings.NewReader(name+"\n1\n1,0\n"), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tb.Name != got {
		t.Fatalf("name=%q want %q", tb.Name, got)
	}
	js, err := ParseJSON(strings.NewReader(`{"name":"`+name+`","harmonics":[{"amplitude":1,"phase":0}]}`), 0)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if js.Name != got {
		t.Fatalf("json name=%q want %q", js.Name, got)
	}
}

func TestParseBadCountFallsBackToSine(t *testing.T) {
	for _, in := range []string{"Name\n0\n", "Name\n-3\n1,0\n", "Name\nabc\n", "Name\n", ""} {
		got, err := Parse(strings.NewReader(in), 0)
		if !errors.Is(err, ErrNoHarmonics) {
			t.Fatalf("input %q: err=%v want ErrNoHarmonics", in, err)
		}
		if got.Name != synth.DefaultTimbreName || len(got.Harmonics) != 1 || got.Harmonics[0].Amplitude != 1 {
			t.Fatalf("input %q: got %+v want default sine", in, got)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	src := synth.Timbre{Name: "Round", Harmonics: []synth.Harmonic{
		{Amplitude: 1, PhaseShift: 0},
		{Amplitude: 0.3, PhaseShift: 0.25},
	}}
	var buf bytes.Buffer
	if err := Write(&buf, src); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Parse(&buf, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Name != src.Name || len(got.Harmonics) != 2 || got.Harmonics[1] != src.Harmonics[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "neiro0.txt")
	if err := os.WriteFile(txt, []byte("Flute\n2\n1,0\n0.1,0\n"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	js := filepath.Join(dir, "neiro1.json")
	content := `{"name": "Reed", "harmonics": [{"amplitude": 0.8, "phase": 0}, {"amplitude": 0.6, "phase": 3.14}]}`
	if err := os.WriteFile(js, []byte(content), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	a, err := LoadFile(txt, 0)
	if err != nil || a.Name != "Flute" || len(a.Harmonics) != 2 {
		t.Fatalf("LoadFile txt: %+v err=%v", a, err)
	}
	b, err := LoadFile(js, 1)
	if err != nil || b.Name != "Reed" || b.Harmonics[1].PhaseShift != 3.14 {
		t.Fatalf("LoadFile json: %+v err=%v", b, err)
	}
}

func TestLoadSetKeepsIndicesWithFallbacks(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte("Good\n1\n1,0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"name": "Empty"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	missing := filepath.Join(dir, "missing.txt")

	set, err := LoadSet([]string{good, missing, empty})
	if err == nil {
		t.Fatalf("expected joined warnings")
	}
	if !errors.Is(err, os.ErrNotExist) || !errors.Is(err, ErrNoHarmonics) {
		t.Fatalf("warnings should wrap both causes: %v", err)
	}
	if len(set) != 3 {
		t.Fatalf("set size=%d want 3", len(set))
	}
	if set[0].Name != "Good" || set[1].Name != synth.DefaultTimbreName || set[2].Name != synth.DefaultTimbreName {
		t.Fatalf("unexpected names: %q %q %q", set[0].Name, set[1].Name, set[2].Name)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := Plucked(6, 0.2)
	for _, name := range []string{"p.txt", "p.json"} {
		path := filepath.Join(dir, "out", name)
		if err := SaveFile(path, src); err != nil {
			t.Fatalf("SaveFile(%s): %v", name, err)
		}
		got, err := LoadFile(path, 0)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if got.Name != src.Name || len(got.Harmonics) != len(src.Harmonics) {
			t.Fatalf("%s: got %+v", name, got)
		}
		for i := range src.Harmonics {
			if got.Harmonics[i] != src.Harmonics[i] {
				t.Fatalf("%s harmonic %d: got=%+v want=%+v", name, i, got.Harmonics[i], src.Harmonics[i])
			}
		}
	}
}

func TestPlucked(t *testing.T) {
	p := Plucked(12, 0.5)
	if len(p.Harmonics) != 12 {
		t.Fatalf("harmonics=%d", len(p.Harmonics))
	}
	if p.Harmonics[0].Amplitude != 1 {
		t.Fatalf("fundamental should be the loudest partial: %+v", p.Harmonics[0])
	}
	// A string plucked at its middle has no even modes.
	for k := 1; k < 12; k += 2 {
		if p.Harmonics[k].Amplitude > 1e-6 {
			t.Fatalf("even harmonic %d should vanish, got %g", k+1, p.Harmonics[k].Amplitude)
		}
	}
	if !(p.Harmonics[2].Amplitude < p.Harmonics[0].Amplitude && p.Harmonics[4].Amplitude < p.Harmonics[2].Amplitude) {
		t.Fatalf("odd harmonics should decay: %+v", p.Harmonics)
	}
	// Third mode of an ideal string is about 1/9 of the fundamental.
	if a := p.Harmonics[2].Amplitude; a < 0.09 || a > 0.13 {
		t.Fatalf("third harmonic=%g want about 1/9", a)
	}

	if d := Plucked(0, 0.3); d.Name != synth.DefaultTimbreName {
		t.Fatalf("Plucked(0) should be the default sine, got %q", d.Name)
	}
}
