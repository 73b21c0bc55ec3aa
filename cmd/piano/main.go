package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-keys/internal/cliutil"
	"github.com/cwbudde/algo-keys/keyboard"
	"github.com/cwbudde/algo-keys/output"
	"github.com/cwbudde/algo-keys/preset"
	"github.com/cwbudde/algo-keys/score"
	"github.com/cwbudde/algo-keys/synth"
	"github.com/cwbudde/algo-keys/timbre"
)

func main() {
	presetPath := flag.String("preset", "assets/presets/default.json", "Preset JSON file path (built-in defaults when missing)")
	timbres := flag.String("timbres", "", "Comma separated timbre files; overrides the preset's list")
	scorePath := flag.String("score", "", "Score for the sequencer (.txt or .mid); overrides the preset's score")
	tempo := flag.Float64("tempo", 0, "Tempo in BPM for text scores (0 = preset/default)")
	backend := flag.String("backend", "", "Audio backend: oto|portaudio|null (empty = preset/default)")
	bufferMs := flag.Int("buffer-ms", 0, "Audio buffer length in milliseconds (0 = preset/default)")
	flag.Parse()

	cfg, err := loadConfig(*presetPath)
	if err != nil {
		cliutil.Die("Error loading preset %q: %v", *presetPath, err)
	}
	if list := cliutil.SplitList(*timbres); len(list) > 0 {
		cfg.Timbres = list
	}
	if *scorePath != "" {
		cfg.Score = *scorePath
	}
	if *tempo > 0 {
		cfg.Tempo = *tempo
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *bufferMs > 0 {
		cfg.BufferMs = *bufferMs
	}

	c, err := setup(cfg)
	if err != nil {
		cliutil.Die("%v", err)
	}
	runErr := run(c)
	if err := c.close(); err != nil {
		cliutil.Warn("shutdown: %v", err)
	}
	if runErr != nil {
		cliutil.Die("%v", runErr)
	}
}

// loadConfig reads the preset at path. A missing file yields the built-in
// defaults.
func loadConfig(path string) (*preset.Config, error) {
	if path == "" {
		return preset.NewDefaultConfig(), nil
	}
	cfg, err := preset.LoadJSON(path)
	if errors.Is(err, os.ErrNotExist) {
		cliutil.Warn("preset %s not found, using defaults", path)
		return preset.NewDefaultConfig(), nil
	}
	return cfg, err
}

// setup builds the engine, the controller and the audio backend. Timbre,
// score and device problems are reported and worked around.
func setup(cfg *preset.Config) (*controller, error) {
	set, err := timbre.LoadSet(cfg.Timbres)
	if err != nil {
		cliutil.Warn("%v", err)
	}
	e, err := synth.NewEngine(cfg.Synth, synth.NewTimbreTable(set...))
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	var events []score.Event
	if cfg.Score != "" {
		events, err = score.Load(cfg.Score, cfg.Tempo)
		if err != nil {
			cliutil.Warn("score %s: %v", cfg.Score, err)
			events = nil
		}
	}

	c := newController(e, events, keyboard.DefaultGeometry())
	oc := cfg.Output()
	b, err := output.OpenOrNull(e, oc)
	if err != nil {
		cliutil.Warn("%v", err)
	}
	if err := c.attach(b, oc); err != nil {
		cliutil.Warn("%v", err)
	}
	fmt.Printf("Keys %d..%d, %d timbres, %d score events, %s output at %d Hz\n",
		cfg.Synth.FirstNote, cfg.Synth.FirstNote+cfg.Synth.KeyCount-1, e.Timbres().Len(), len(events), c.backend.Name(), cfg.Synth.SampleRate)
	return c, nil
}
