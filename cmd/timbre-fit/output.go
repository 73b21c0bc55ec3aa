package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-keys/internal/wavio"
	"github.com/cwbudde/algo-keys/synth"
	"github.com/cwbudde/algo-keys/timbre"
)

func writeOutputs(outputPath, reportPath string, best synth.Timbre, rep runReport) error {
	if err := timbre.SaveFile(outputPath, best); err != nil {
		return err
	}
	if reportPath == "" {
		reportPath = outputPath + ".report.json"
	}
	return writeJSON(reportPath, rep)
}

func writeBestCandidateSnapshot(path string, t *target, best candidate) error {
	_, stereo, err := renderCandidate(t, best)
	if err != nil {
		return err
	}
	return wavio.WriteStereo(path, stereo, t.sampleRate)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
