package score

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var noteBase = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// lengthScale maps the length code to a multiple of one beat.
var lengthScale = map[byte]float64{
	'2': 4, '3': 2, '4': 1, '5': 0.5, '6': 0.25, '7': 0.125,
}

// ParseText reads the line-per-note score format. Each line is
//
//	N A O D L
//
// with N the note letter C..B or M for a rest, A the accidental ('#' sharp,
// 'b' flat, anything else natural), O the octave digit, D '.' for a dotted
// note and L the length code: 2 whole, 3 half, 4 quarter (one beat), 5
// eighth, 6 sixteenth, 7 thirty-second. A missing or unknown length code is
// one beat. The MIDI note is 12 + 12*O + base + accidental, so "A_4" is 69.
//
// Lines shorter than three characters and lines with an unknown note letter
// are skipped. tempo <= 0 selects DefaultTempo.
func ParseText(r io.Reader, tempo float64) ([]Event, error) {
	beat := BeatDuration(tempo)

	var events []Event
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if len(line) < 3 {
			continue
		}
		ev, ok := parseLine(line, beat)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrEmpty
	}
	return events, nil
}

func parseLine(line string, beat time.Duration) (Event, bool) {
	note := Rest
	if line[0] != 'M' {
		base, ok := noteBase[line[0]]
		if !ok {
			return Event{}, false
		}
		octave := int(line[2]) - '0'
		if octave < 0 || octave > 9 {
			return Event{}, false
		}
		acc := 0
		switch line[1] {
		case '#':
			acc = 1
		case 'b':
			acc = -1
		}
		note = 12 + 12*octave + base + acc
	}

	scale := 1.0
	if len(line) > 4 {
		if s, ok := lengthScale[line[4]]; ok {
			scale = s
		}
	}
	if len(line) > 3 && line[3] == '.' {
		scale *= 1.5
	}
	return Event{Note: note, Duration: time.Duration(float64(beat) * scale)}, true
}

// LoadText reads a score file in the text format.
func LoadText(path string, tempo float64) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	events, err := ParseText(f, tempo)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", path, err)
	}
	return events, nil
}

var letters = [12]string{"C_", "C#", "D_", "D#", "E_", "F_", "F#", "G_", "G#", "A_", "A#", "B_"}

// FormatText writes events in the text format at tempo bpm. Durations are
// rounded to the nearest length code (dotted codes included); notes outside
// octaves 0..9 are written as rests.
func FormatText(w io.Writer, events []Event, tempo float64) error {
	beat := float64(BeatDuration(tempo))
	bw := bufio.NewWriter(w)
	for _, ev := range events {
		head := "M_0"
		if !ev.IsRest() {
			octave := (ev.Note - 12) / 12
			if ev.Note >= 12 && octave <= 9 {
				head = fmt.Sprintf("%s%d", letters[(ev.Note-12)%12], octave)
			}
		}
		dot, code := nearestLength(float64(ev.Duration) / beat)
		fmt.Fprintf(bw, "%s%c%c\n", head, dot, code)
	}
	return bw.Flush()
}

func nearestLength(beats float64) (byte, byte) {
	bestDot, bestCode := byte('_'), byte('4')
	bestErr := -1.0
	for _, code := range []byte("234567") {
		for _, dot := range []byte("_.") {
			v := lengthScale[code]
			if dot == '.' {
				v *= 1.5
			}
			e := v - beats
			if e < 0 {
				e = -e
			}
			if bestErr < 0 || e < bestErr {
				bestErr, bestDot, bestCode = e, dot, code
			}
		}
	}
	return bestDot, bestCode
}

// Load reads a score by extension: .mid and .midi files as Standard MIDI
// files, anything else in the text format at tempo.
func Load(path string, tempo float64) ([]Event, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return ReadSMF(path)
	}
	return LoadText(path, tempo)
}
