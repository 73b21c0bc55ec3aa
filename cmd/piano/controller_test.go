package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-keys/keyboard"
	"github.com/cwbudde/algo-keys/output"
	"github.com/cwbudde/algo-keys/preset"
	"github.com/cwbudde/algo-keys/score"
	"github.com/cwbudde/algo-keys/synth"
)

type failingBackend struct {
	closed bool
}

func (f *failingBackend) Name() string { return "broken" }
func (f *failingBackend) Start() error { return errors.New("no device") }
func (f *failingBackend) Stop() error { return nil }

func (f *failingBackend) Close() error {
	f.closed = true
	return nil
}

func newTestController(t *testing.T, events []score.Event) *controller {
	t.Helper()
	table := synth.NewTimbreTable(
		synth.Timbre{Name: "One", Harmonics: []synth.Harmonic{{Amplitude: 1}}},
		synth.Timbre{Name: "Two", Harmonics: []synth.Harmonic{{Amplitude: 0.5}, {Amplitude: 0.5}}},
	)
	e, err := synth.NewEngine(nil, table)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return newController(e, events, keyboard.DefaultGeometry())
}

func whiteKeyPoint(c *controller, note int) (float64, float64) {
	for _, k := range c.layout.Keys {
		if k.Note == note {
			return k.Rect.X + k.Rect.W/2, k.Rect.Y + k.Rect.H - 5
		}
	}
	return -1, -1
}

func buttonPoint(c *controller, kind keyboard.ButtonKind, index int) (float64, float64) {
	for _, b := range c.layout.Buttons {
		if b.Kind == kind && b.Index == index {
			return b.Rect.X + b.Rect.W/2, b.Rect.Y + b.Rect.H/2
		}
	}
	return -1, -1
}

func TestPointerPlaysAndReleasesKey(t *testing.T) {
	c := newTestController(t, nil)
	note := c.layout.Keys[0].Note
	c.pointerDown(whiteKeyPoint(c, note))
	if got := c.engine.KeyTarget(note); got != synth.KeyPressedY {
		t.Fatalf("pressed target: got=%v want=%v", got, synth.KeyPressedY)
	}
	if c.mouseNote != note {
		t.Fatalf("mouseNote: got=%d want=%d", c.mouseNote, note)
	}
	c.pointerUp()
	if got := c.engine.KeyTarget(note); got != 0 {
		t.Fatalf("released target: got=%v want=0", got)
	}
}

func TestPointerUpWithoutKeyKeepsSequencerNotes(t *testing.T) {
	c := newTestController(t, nil)
	note := c.layout.Keys[2].Note
	c.engine.NoteOn(note)
	c.pointerUp()
	if got := c.engine.KeyTarget(note); got != synth.KeyPressedY {
		t.Fatalf("target: got=%v want=%v", got, synth.KeyPressedY)
	}
}

func TestButtonsSelectTimbreAndOctave(t *testing.T) {
	c := newTestController(t, nil)
	c.pointerDown(buttonPoint(c, keyboard.ButtonTimbre, 1))
	if got := c.engine.CurrentTimbre().Name; got != "Two" {
		t.Fatalf("timbre: got=%q want=%q", got, "Two")
	}
	c.pointerDown(buttonPoint(c, keyboard.ButtonOctaveUp, 0))
	c.pointerDown(buttonPoint(c, keyboard.ButtonOctaveUp, 0))
	c.pointerDown(buttonPoint(c, keyboard.ButtonOctaveUp, 0))
	if got := c.engine.OctaveShift(); got != synth.OctaveShiftMax {
		t.Fatalf("octave: got=%d want=%d", got, synth.OctaveShiftMax)
	}
	c.pointerDown(buttonPoint(c, keyboard.ButtonOctaveDown, 0))
	if got := c.engine.OctaveShift(); got != synth.OctaveShiftMax-1 {
		t.Fatalf("octave: got=%d want=%d", got, synth.OctaveShiftMax-1)
	}
	if c.mouseNote != 0 {
		t.Fatalf("buttons must not hold a note, got=%d", c.mouseNote)
	}
}

func TestHUD(t *testing.T) {
	c := newTestController(t, []score.Event{{Note: 60, Duration: time.Hour}})
	c.engine.SetOctaveShift(-1)
	c.selectTimbre(1)
	lines := c.hud()
	want := []string{"Octave: -1", "Timbre: Two", "Sequencer: Stopped"}
	for i, w := range want {
		if lines[i].Text != w {
			t.Fatalf("line %d: got=%q want=%q", i, lines[i].Text, w)
		}
	}
	if lines[2].Active {
		t.Fatalf("stopped sequencer must not be highlighted")
	}

	if !c.play() {
		t.Fatalf("play returned false")
	}
	lines = c.hud()
	if lines[2].Text != "Sequencer: Playing" || !lines[2].Active {
		t.Fatalf("playing line: got=%+v", lines[2])
	}
	if got := c.hud()[0].Text; got != "Octave: -1" {
		t.Fatalf("octave line: got=%q", got)
	}
	c.stop()
	if c.seq.Playing() {
		t.Fatalf("sequencer still playing after stop")
	}
}

func TestHUDShowsPositiveOctaveSign(t *testing.T) {
	c := newTestController(t, nil)
	c.engine.SetOctaveShift(2)
	if got := c.hud()[0].Text; got != "Octave: +2" {
		t.Fatalf("got=%q want=%q", got, "Octave: +2")
	}
	c.engine.SetOctaveShift(0)
	if got := c.hud()[0].Text; got != "Octave: +0" {
		t.Fatalf("got=%q want=%q", got, "Octave: +0")
	}
}

func TestTickAnimatesPressedKey(t *testing.T) {
	c := newTestController(t, nil)
	note := c.layout.Keys[0].Note
	c.engine.NoteOn(note)
	for i := 0; i < 200 && c.tick(0.016); i++ {
	}
	if got := c.keyOffset(0, 8); got < 7.99 || got > 8.01 {
		t.Fatalf("keyOffset: got=%v want=8", got)
	}
	if got := c.keyOffset(1, 8); got != 0 {
		t.Fatalf("idle key offset: got=%v want=0", got)
	}
}

func TestAttachFallsBackToNull(t *testing.T) {
	c := newTestController(t, nil)
	broken := &failingBackend{}
	err := c.attach(broken, output.Config{SampleRate: 44100})
	if err == nil {
		t.Fatalf("expected start error")
	}
	if !broken.closed {
		t.Fatalf("failed backend was not closed")
	}
	if got := c.backend.Name(); got != "null" {
		t.Fatalf("backend: got=%q want=null", got)
	}
	if err := c.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.backend != nil {
		t.Fatalf("backend not dropped on close")
	}
}

func TestSetupWithNullBackendAndMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := preset.NewDefaultConfig()
	cfg.Backend = "null"
	cfg.Timbres = []string{filepath.Join(dir, "missing.txt")}
	cfg.Score = filepath.Join(dir, "missing-score.txt")

	c, err := setup(cfg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer c.close()
	if got := c.engine.Timbres().Len(); got != 1 {
		t.Fatalf("timbres: got=%d want=1", got)
	}
	if got := c.engine.CurrentTimbre().Name; got != synth.DefaultTimbreName {
		t.Fatalf("fallback timbre: got=%q want=%q", got, synth.DefaultTimbreName)
	}
	if c.seq.Len() != 0 || c.play() {
		t.Fatalf("missing score must leave an empty sequencer")
	}
	if got := c.backend.Name(); got != "null" {
		t.Fatalf("backend: got=%q want=null", got)
	}
}

func TestLoadConfigMissingPresetUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Synth.SampleRate != synth.DefaultSampleRate {
		t.Fatalf("sample rate: got=%d want=%d", cfg.Synth.SampleRate, synth.DefaultSampleRate)
	}
}
