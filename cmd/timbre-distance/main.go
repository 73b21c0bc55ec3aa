package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/algo-keys/analysis"
	"github.com/cwbudde/algo-keys/internal/cliutil"
	"github.com/cwbudde/algo-keys/internal/offline"
	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/synth"
	"github.com/cwbudde/algo-keys/timbre"
)

func main() {
	referencePath := flag.String("reference", "reference/c4.wav", "Reference WAV path")
	candidatePath := flag.String("candidate", "", "Candidate WAV path; if empty, render the timbre file")
	timbrePath := flag.String("timbre", "assets/timbres/neiro0.txt", "Timbre file for the rendered candidate")
	note := flag.Int("note", 60, "MIDI note of reference and rendered candidate")
	harmonics := flag.Int("harmonics", 8, "Number of harmonics compared")
	sampleRate := flag.Int("sample-rate", synth.DefaultSampleRate, "Analysis sample rate in Hz")
	offset := flag.Float64("offset", 0.1, "Start of the analysis window in seconds")
	hold := flag.Float64("hold", 1.0, "Hold time of the rendered candidate in seconds")
	writeCandidate := flag.String("write-candidate", "", "Optional path to write rendered candidate WAV")
	jsonOut := flag.Bool("json", false, "Print metrics as JSON")
	flag.Parse()

	ref, err := readWindow(*referencePath, *sampleRate, *offset)
	if err != nil {
		cliutil.Die("failed to read reference: %v", err)
	}

	var cand []float64
	if *candidatePath != "" {
		cand, err = readWindow(*candidatePath, *sampleRate, *offset)
		if err != nil {
			cliutil.Die("failed to read candidate: %v", err)
		}
	} else {
		tb, err := timbre.LoadFile(*timbrePath, 0)
		if err != nil {
			cliutil.Warn("%v", err)
		}
		stereo, err := renderTimbre(tb, *note, *sampleRate, time.Duration(*hold*float64(time.Second)))
		if err != nil {
			cliutil.Die("failed to render candidate: %v", err)
		}
		if *writeCandidate != "" {
			if err := wavio.WriteStereo(*writeCandidate, stereo, *sampleRate); err != nil {
				cliutil.Die("failed to write candidate wav: %v", err)
			}
		}
		cand = window(analysis.StereoToMono(stereo), *sampleRate, *offset)
	}

	metrics, err := analysis.CompareHarmonics(ref, cand, *sampleRate, synth.MidiToFreq(*note), *harmonics)
	if err != nil {
		cliutil.Die("compare failed: %v", err)
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(metrics); err != nil {
			cliutil.Die("json encode failed: %v", err)
		}
		return
	}

	fmt.Printf("Note %d (%.2f Hz), %d harmonics\n\n", *note, synth.MidiToFreq(*note), *harmonics)
	fmt.Printf("Harmonic   Reference  Candidate\n")
	fmt.Printf("───────────────────────────────\n")
	for i := range metrics.Reference {
		fmt.Printf("%8d   %9.4f  %9.4f\n", i+1, metrics.Reference[i], metrics.Candidate[i])
	}
	fmt.Printf("───────────────────────────────\n")
	fmt.Printf("Harmonic RMSE:  %.2f dB\n", metrics.HarmonicRMSEDB)
	fmt.Printf("Spectral RMSE:  %.2f dB\n", metrics.SpectralRMSEDB)
	fmt.Printf("Score:          %.4f  (0 best)\n", metrics.Score)
}

func readWindow(path string, sampleRate int, offsetSec float64) ([]float64, error) {
	mono, rate, err := wavio.ReadMono(path)
	if err != nil {
		return nil, err
	}
	if rate != sampleRate {
		if mono, err = wavio.Resample(mono, rate, sampleRate); err != nil {
			return nil, err
		}
	}
	w := window(mono, sampleRate, offsetSec)
	if len(w) == 0 {
		return nil, fmt.Errorf("%s: offset %.3fs is past the end", path, offsetSec)
	}
	return w, nil
}

// window returns at most analysis.DefaultFFTSize samples starting offsetSec
// into x.
func window(x []float64, sampleRate int, offsetSec float64) []float64 {
	start := max(0, int(offsetSec*float64(sampleRate)))
	if start >= len(x) {
		return nil
	}
	end := min(len(x), start+analysis.DefaultFFTSize)
	return x[start:end]
}

func renderTimbre(tb synth.Timbre, note, sampleRate int, hold time.Duration) ([]float32, error) {
	p := synth.NewDefaultParams()
	p.SampleRate = sampleRate
	p.FirstNote = note
	p.KeyCount = 1
	e, err := synth.NewEngine(p, synth.NewTimbreTable(tb))
	if err != nil {
		return nil, err
	}
	return offline.RenderNote(e, note, hold, offline.DefaultOptions()), nil
}
