// Package timbre reads and writes harmonic tables for the additive engine.
//
// Loaders never fail hard: a file that cannot be used still yields a timbre
// (usually synth.DefaultSine) and the problem is returned as an error for the
// caller to report.
package timbre

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cwbudde/algo-keys/synth"
)

const (
	// MaxNameLen is the longest timbre name in bytes. Longer names are cut
	// at a character boundary.
	MaxNameLen = 63
	// MaxHarmonics is the largest harmonic count accepted from a file.
	MaxHarmonics = 256
)

// ErrNoHarmonics reports a timbre file without a usable harmonic count.
var ErrNoHarmonics = errors.New("timbre has no harmonics")

// Parse reads the text timbre format:
//
//	<name>
//	<harmonic count>
//	<amplitude>,<phase>
//	...
//
// index only names an unnamed timbre. Harmonic lines that cannot be read
// become silent partials and are reported in the returned error, which is
// then a warning: the timbre is still usable. Counts above MaxHarmonics are
// capped, and a file that ends early keeps only the lines it has. A missing
// or non-positive count, or no readable harmonic line at all, yields
// synth.DefaultSine and an error wrapping ErrNoHarmonics.
func Parse(r io.Reader, index int) (synth.Timbre, error) {
	sc := bufio.NewScanner(r)

	name := ""
	if sc.Scan() {
		name = strings.TrimRight(sc.Text(), "\r")
	}
	name = truncateName(name)
	if name == "" {
		name = fmt.Sprintf("Unnamed %d", index)
	}

	count := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return synth.DefaultSine(), fmt.Errorf("%s: bad harmonic count %q: %w", name, line, ErrNoHarmonics)
		}
		count = n
		break
	}
	if err := sc.Err(); err != nil {
		return synth.DefaultSine(), fmt.Errorf("%s: %w", name, err)
	}
	if count <= 0 {
		return synth.DefaultSine(), fmt.Errorf("%s: harmonic count %d: %w", name, count, ErrNoHarmonics)
	}

	var warnings []error
	if count > MaxHarmonics {
		warnings = append(warnings, fmt.Errorf("%s: harmonic count %d capped at %d", name, count, MaxHarmonics))
		count = MaxHarmonics
	}

	harmonics := make([]synth.Harmonic, 0, count)
	good := 0
	for len(harmonics) < count {
		if !sc.Scan() {
			warnings = append(warnings, fmt.Errorf("%s: %d of %d harmonics present", name, len(harmonics), count))
			break
		}
		h, err := parseHarmonic(sc.Text())
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: harmonic %d: %w", name, len(harmonics)+1, err))
		} else {
			good++
		}
		harmonics = append(harmonics, h)
	}
	if err := sc.Err(); err != nil {
		warnings = append(warnings, err)
	}
	if good == 0 {
		warnings = append(warnings, fmt.Errorf("%s: no readable harmonic line: %w", name, ErrNoHarmonics))
		return synth.DefaultSine(), errors.Join(warnings...)
	}
	return synth.Timbre{Name: name, Harmonics: harmonics}, errors.Join(warnings...)
}

// truncateName cuts name to at most MaxNameLen bytes without splitting a
// UTF-8 sequence.
func truncateName(name string) string {
	if len(name) <= MaxNameLen {
		return name
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

func parseHarmonic(line string) (synth.Harmonic, error) {
	ampStr, phaseStr, ok := strings.Cut(strings.TrimSpace(line), ",")
	if !ok {
		return synth.Harmonic{}, fmt.Errorf("expected amplitude,phase, got %q", line)
	}
	amp, err := strconv.ParseFloat(strings.TrimSpace(ampStr), 32)
	if err != nil {
		return synth.Harmonic{}, fmt.Errorf("amplitude: %w", err)
	}
	phase, err := strconv.ParseFloat(strings.TrimSpace(phaseStr), 32)
	if err != nil {
		return synth.Harmonic{}, fmt.Errorf("phase: %w", err)
	}
	return synth.Harmonic{Amplitude: float32(amp), PhaseShift: float32(phase)}, nil
}

// Write emits t in the text format read by Parse.
func Write(w io.Writer, t synth.Timbre) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, truncateName(t.Name))
	fmt.Fprintln(bw, len(t.Harmonics))
	for _, h := range t.Harmonics {
		fmt.Fprintf(bw, "%s,%s\n",
			strconv.FormatFloat(float64(h.Amplitude), 'g', -1, 32),
			strconv.FormatFloat(float64(h.PhaseShift), 'g', -1, 32))
	}
	return bw.Flush()
}
