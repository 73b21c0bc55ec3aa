package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-keys/analysis"
	"github.com/cwbudde/algo-keys/internal/cliutil"
	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/synth"
)

type runReport struct {
	ReferencePath  string           `json:"reference_path"`
	OutputTimbre   string           `json:"output_timbre"`
	SampleRate     int              `json:"sample_rate"`
	Note           int              `json:"note"`
	Harmonics      int              `json:"harmonics"`
	DurationSec    float64          `json:"elapsed_seconds"`
	Evaluations    int              `json:"evaluations"`
	Improvements   int              `json:"improvements"`
	MayflyVariant  string           `json:"mayfly_variant"`
	BestScore      float64          `json:"best_score"`
	BestMetrics    analysis.Metrics `json:"best_metrics"`
	BestAmplitudes []float32        `json:"best_amplitudes"`
}

func main() {
	referencePath := flag.String("reference", "reference/c4.wav", "Reference WAV path")
	outputPath := flag.String("output", "assets/timbres/fitted.txt", "Path to write the fitted timbre (.txt or .json)")
	reportPath := flag.String("report", "", "Optional report JSON path (default: <output>.report.json)")
	name := flag.String("name", "Fitted", "Name of the fitted timbre")
	note := flag.Int("note", 0, "MIDI note of the reference (0 = estimate from pitch)")
	harmonics := flag.Int("harmonics", 8, "Number of harmonics to fit")
	sampleRate := flag.Int("sample-rate", synth.DefaultSampleRate, "Analysis sample rate")
	offset := flag.Float64("offset", 0.1, "Start of the analysis window in seconds")
	seed := flag.Int64("seed", 1, "Random seed")
	timeBudget := flag.Float64("time-budget", 60.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 4000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 100, "Print progress every N evaluations")
	writeBestCandidate := flag.String("write-best-candidate", "", "Optional WAV path to write best candidate render")
	workersRaw := flag.String("workers", "auto", "Parallel workers: auto or a positive integer")

	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 240, "Target eval budget per Mayfly round")
	flag.Parse()

	if *maxEvals < 1 {
		cliutil.Die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		cliutil.Die("time-budget must be > 0")
	}
	if *mayflyPop < 2 {
		cliutil.Die("mayfly-pop must be >= 2")
	}
	if *mayflyRoundEvals < 2*(*mayflyPop) {
		cliutil.Die("mayfly-round-evals must be >= 2*mayfly-pop")
	}
	if *harmonics < 1 || *harmonics > 64 {
		cliutil.Die("harmonics must be in [1, 64]")
	}
	workers, err := cliutil.ParseWorkers(*workersRaw)
	if err != nil {
		cliutil.Die("invalid -workers: %v", err)
	}

	t, err := loadTarget(*referencePath, *sampleRate, *offset, *note, *harmonics)
	if err != nil {
		cliutil.Die("failed to load reference: %v", err)
	}
	fmt.Printf("Reference: %s note=%d f0=%.2fHz window=%d samples\n", *referencePath, t.note, t.f0(), len(t.reference))

	start, err := initialCandidate(t)
	if err != nil {
		cliutil.Die("failed to analyze reference: %v", err)
	}

	res, err := runOptimization(&optimizationConfig{
		target:           t,
		initCandidate:    start,
		seed:             *seed,
		timeBudget:       *timeBudget,
		maxEvals:         *maxEvals,
		reportEvery:      *reportEvery,
		mayflyVariant:    *mayflyVariant,
		mayflyPop:        *mayflyPop,
		mayflyRoundEvals: *mayflyRoundEvals,
		workers:          workers,
	})
	if err != nil {
		cliutil.Die("optimization failed: %v", err)
	}

	best := toTimbre(res.best, *name)
	rep := runReport{
		ReferencePath:  *referencePath,
		OutputTimbre:   *outputPath,
		SampleRate:     t.sampleRate,
		Note:           t.note,
		Harmonics:      t.harmonics,
		DurationSec:    res.elapsed,
		Evaluations:    res.evals,
		Improvements:   res.improves,
		MayflyVariant:  strings.ToLower(*mayflyVariant),
		BestScore:      res.bestMetrics.Score,
		BestMetrics:    res.bestMetrics,
		BestAmplitudes: amplitudes(best),
	}
	if err := writeOutputs(*outputPath, *reportPath, best, rep); err != nil {
		cliutil.Die("failed to write outputs: %v", err)
	}
	if *writeBestCandidate != "" {
		if err := writeBestCandidateSnapshot(*writeBestCandidate, t, res.best); err != nil {
			cliutil.Die("failed to write best candidate: %v", err)
		}
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best=%.4f harmonic=%.2fdB\n", res.evals, res.elapsed, res.bestMetrics.Score, res.bestMetrics.HarmonicRMSEDB)
	fmt.Printf("Wrote %s\n", *outputPath)
}

// loadTarget reads the reference, brings it to sampleRate and picks the note
// to fit, estimating it from the pitch when note is 0.
func loadTarget(path string, sampleRate int, offsetSec float64, note, harmonics int) (*target, error) {
	if sampleRate < 8000 {
		return nil, fmt.Errorf("sample rate %d too low", sampleRate)
	}
	mono, rate, err := wavio.ReadMono(path)
	if err != nil {
		return nil, err
	}
	if rate != sampleRate {
		mono, err = wavio.Resample(mono, rate, sampleRate)
		if err != nil {
			return nil, err
		}
	}
	ref, err := prepareReference(mono, sampleRate, offsetSec)
	if err != nil {
		return nil, err
	}
	if note == 0 {
		hz, err := analysis.EstimatePitch(ref, sampleRate, 25, 4200)
		if err != nil {
			return nil, fmt.Errorf("estimate pitch: %w", err)
		}
		note = noteFromPitch(hz)
	}
	if note < 1 || note > 127 {
		return nil, fmt.Errorf("note %d out of MIDI range", note)
	}
	return &target{reference: ref, sampleRate: sampleRate, note: note, harmonics: harmonics}, nil
}

func amplitudes(t synth.Timbre) []float32 {
	out := make([]float32, len(t.Harmonics))
	for i, h := range t.Harmonics {
		out[i] = h.Amplitude
	}
	return out
}
