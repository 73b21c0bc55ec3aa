package timbre

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-keys/synth"
)

// LoadFile reads a timbre file, choosing the JSON or text format by
// extension. It always returns a playable timbre; a non-nil error describes
// what was replaced or skipped.
func LoadFile(path string, index int) (synth.Timbre, error) {
	f, err := os.Open(path)
	if err != nil {
		return synth.DefaultSine(), fmt.Errorf("open timbre %s: %w", path, err)
	}
	defer f.Close()

	var t synth.Timbre
	if strings.EqualFold(filepath.Ext(path), ".json") {
		t, err = ParseJSON(f, index)
	} else {
		t, err = Parse(f, index)
	}
	if err != nil {
		err = fmt.Errorf("timbre %s: %w", path, err)
	}
	return t, err
}

// LoadSet loads one timbre per path, in order. Unusable files contribute the
// default sine so button indices stay stable.
func LoadSet(paths []string) ([]synth.Timbre, error) {
	out := make([]synth.Timbre, 0, len(paths))
	var errs []error
	for i, p := range paths {
		t, err := LoadFile(p, i)
		if err != nil {
			errs = append(errs, err)
		}
		out = append(out, t)
	}
	return out, errors.Join(errs...)
}

// SaveFile writes t to path in the format implied by its extension.
func SaveFile(path string, t synth.Timbre) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = WriteJSON(f, t)
	} else {
		err = Write(f, t)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
