package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-keys/internal/cliutil"
	"github.com/cwbudde/algo-keys/internal/offline"
	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/preset"
	"github.com/cwbudde/algo-keys/score"
	"github.com/cwbudde/algo-keys/synth"
	"github.com/cwbudde/algo-keys/timbre"
)

type renderConfig struct {
	cfg        *preset.Config
	scorePath  string
	note       int
	hold       time.Duration
	timbre     int
	plucked    int
	octave     int
	opt        offline.Options
	outputRate int
}

func main() {
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	scorePath := flag.String("score", "", "Score to render (.txt or .mid); overrides the preset's score")
	tempo := flag.Float64("tempo", 0, "Tempo in BPM for text scores (0 = preset/default)")
	note := flag.Int("note", 69, "MIDI note to render when no score is given (69 = A4 = 440 Hz)")
	duration := flag.Float64("duration", 2.0, "Hold time in seconds for -note")
	timbres := flag.String("timbres", "", "Comma separated timbre files; overrides the preset's list")
	timbreIndex := flag.Int("timbre", 0, "Index of the timbre to use")
	plucked := flag.Int("plucked", 0, "Use a generated plucked-string timbre with this many harmonics")
	octave := flag.Int("octave", 0, "Octave shift (-2..2)")
	sampleRate := flag.Int("sample-rate", 0, "Render sample rate in Hz (0 = preset/default)")
	outputRate := flag.Int("output-rate", 0, "Resample the result to this rate (0 = render rate)")
	tail := flag.Float64("tail", 0.25, "Maximum release tail in seconds")
	decayDBFS := flag.Float64("decay-dbfs", -90, "End the tail once block RMS stays below this dBFS (+Inf disables)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	exportMIDI := flag.String("export-mid", "", "Also write the rendered score as a Standard MIDI file")
	flag.Parse()

	cfg := preset.NewDefaultConfig()
	if *presetPath != "" {
		var err error
		cfg, err = preset.LoadJSON(*presetPath)
		if err != nil {
			cliutil.Die("Error loading preset %q: %v", *presetPath, err)
		}
	}
	if *sampleRate > 0 {
		cfg.Synth.SampleRate = *sampleRate
	}
	if *tempo > 0 {
		cfg.Tempo = *tempo
	}
	if list := cliutil.SplitList(*timbres); len(list) > 0 {
		cfg.Timbres = list
	}
	if *scorePath != "" {
		cfg.Score = *scorePath
	}

	rc := renderConfig{
		cfg:        cfg,
		scorePath:  cfg.Score,
		note:       *note,
		hold:       time.Duration(*duration * float64(time.Second)),
		timbre:     *timbreIndex,
		plucked:    *plucked,
		octave:     *octave,
		opt:        offline.Options{Tail: time.Duration(*tail * float64(time.Second)), DecayDBFS: *decayDBFS, DecayHoldBlocks: 6},
		outputRate: *outputRate,
	}

	events, err := loadEvents(rc)
	if err != nil {
		cliutil.Die("Error loading score %q: %v", rc.scorePath, err)
	}
	if rc.scorePath != "" {
		fmt.Printf("Rendering %s (%d events, %.2fs at %.0f BPM) at %d Hz...\n", rc.scorePath, len(events), score.Length(events).Seconds(), cfg.Tempo, cfg.Synth.SampleRate)
	} else {
		fmt.Printf("Rendering note %d for %.2f seconds at %d Hz...\n", rc.note, rc.hold.Seconds(), cfg.Synth.SampleRate)
	}

	samples, rate, err := render(rc, events)
	if err != nil {
		cliutil.Die("Error rendering: %v", err)
	}
	if err := wavio.WriteStereo(*output, samples, rate); err != nil {
		cliutil.Die("Error writing WAV file: %v", err)
	}
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	fmt.Printf("Successfully wrote %s (%d frames at %d Hz, peak %.3f)\n", *output, len(samples)/2, rate, peak)

	if *exportMIDI != "" {
		if err := score.WriteSMF(*exportMIDI, events, cfg.Tempo); err != nil {
			cliutil.Die("Error writing MIDI file: %v", err)
		}
		fmt.Printf("Wrote %s\n", *exportMIDI)
	}
}

// loadEvents returns the score to render, or a single held note when no
// score is configured.
func loadEvents(rc renderConfig) ([]score.Event, error) {
	if rc.scorePath == "" {
		return []score.Event{{Note: rc.note, Duration: rc.hold}}, nil
	}
	return score.Load(rc.scorePath, rc.cfg.Tempo)
}

func loadTimbres(rc renderConfig) *synth.TimbreTable {
	if rc.plucked > 0 {
		return synth.NewTimbreTable(timbre.Plucked(rc.plucked, timbre.DefaultPluckPosition))
	}
	set, err := timbre.LoadSet(rc.cfg.Timbres)
	if err != nil {
		cliutil.Warn("%v", err)
	}
	return synth.NewTimbreTable(set...)
}

func render(rc renderConfig, events []score.Event) ([]float32, int, error) {
	table := loadTimbres(rc)
	e, err := synth.NewEngine(rc.cfg.Synth, table)
	if err != nil {
		return nil, 0, err
	}
	if rc.timbre != 0 && !e.SelectTimbre(rc.timbre) {
		return nil, 0, fmt.Errorf("timbre index %d out of range (have %d)", rc.timbre, table.Len())
	}
	if rc.octave != 0 && !e.SetOctaveShift(rc.octave) {
		return nil, 0, fmt.Errorf("octave shift %d out of range [%d, %d]", rc.octave, synth.OctaveShiftMin, synth.OctaveShiftMax)
	}

	samples := offline.RenderScore(e, events, rc.opt)
	rate := e.SampleRate()
	if rc.outputRate > 0 && rc.outputRate != rate {
		samples, err = wavio.ResampleStereo(samples, rate, rc.outputRate)
		if err != nil {
			return nil, 0, fmt.Errorf("resample: %w", err)
		}
		rate = rc.outputRate
	}
	return samples, rate, nil
}
