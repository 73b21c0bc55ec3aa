package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-keys/output"
	"github.com/cwbudde/algo-keys/score"
	"github.com/cwbudde/algo-keys/synth"
)

// File is the JSON schema for instrument presets. Pointer fields are
// optional overrides.
type File struct {
	SampleRate     *int     `json:"sample_rate"`
	AttackSeconds  *float64 `json:"attack_seconds"`
	ReleaseSeconds *float64 `json:"release_seconds"`
	OutputGain     *float32 `json:"output_gain"`
	FirstNote      *int     `json:"first_note"`
	KeyCount       *int     `json:"key_count"`
	BufferMs       *int     `json:"buffer_ms"`
	Backend        string   `json:"backend"`
	Timbres        []string `json:"timbres"`
	Score          string   `json:"score"`
	Tempo          *float64 `json:"tempo"`
}

// Config is a fully resolved preset.
type Config struct {
	Synth    *synth.Params
	BufferMs int
	Backend  string
	Timbres  []string
	Score    string
	Tempo    float64
}

// NewDefaultConfig returns the built-in configuration: default engine
// parameters, oto output, no timbre files and no score.
func NewDefaultConfig() *Config {
	return &Config{
		Synth:    synth.NewDefaultParams(),
		BufferMs: output.DefaultBufferMs,
		Backend:  "oto",
		Tempo:    score.DefaultTempo,
	}
}

// Output returns the backend settings for c.
func (c *Config) Output() output.Config {
	return output.Config{Backend: c.Backend, SampleRate: c.Synth.SampleRate, BufferMs: c.BufferMs}
}

// LoadJSON loads a preset JSON file and applies it on top of the default
// config. Relative timbre and score paths are resolved against the preset's
// directory.
func LoadJSON(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c := NewDefaultConfig()
	if err := ApplyFile(c, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, p := range c.Timbres {
		c.Timbres[i] = resolve(base, p)
	}
	c.Score = resolve(base, c.Score)
	return c, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// ApplyFile applies a parsed preset file onto an existing config.
func ApplyFile(dst *Config, f *File) error {
	if dst == nil || dst.Synth == nil {
		return fmt.Errorf("nil destination config")
	}
	if f == nil {
		return nil
	}
	p := dst.Synth

	if f.SampleRate != nil {
		if *f.SampleRate < 8000 || *f.SampleRate > 192000 {
			return fmt.Errorf("sample_rate must be in 8000..192000")
		}
		p.SampleRate = *f.SampleRate
	}
	if f.AttackSeconds != nil {
		if *f.AttackSeconds <= 0 {
			return fmt.Errorf("attack_seconds must be > 0")
		}
		p.AttackSeconds = *f.AttackSeconds
	}
	if f.ReleaseSeconds != nil {
		if *f.ReleaseSeconds <= 0 {
			return fmt.Errorf("release_seconds must be > 0")
		}
		p.ReleaseSeconds = *f.ReleaseSeconds
	}
	if f.OutputGain != nil {
		if *f.OutputGain <= 0 {
			return fmt.Errorf("output_gain must be > 0")
		}
		p.OutputGain = *f.OutputGain
	}
	if f.FirstNote != nil {
		p.FirstNote = *f.FirstNote
	}
	if f.KeyCount != nil {
		p.KeyCount = *f.KeyCount
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if f.BufferMs != nil {
		if *f.BufferMs <= 0 || *f.BufferMs > 1000 {
			return fmt.Errorf("buffer_ms must be in 1..1000")
		}
		dst.BufferMs = *f.BufferMs
	}
	if b := strings.TrimSpace(f.Backend); b != "" {
		switch b {
		case "oto", "portaudio", "null":
		default:
			return fmt.Errorf("backend must be oto, portaudio or null, got %q", b)
		}
		dst.Backend = b
	}
	if len(f.Timbres) > 0 {
		dst.Timbres = make([]string, 0, len(f.Timbres))
		for i, t := range f.Timbres {
			t = strings.TrimSpace(t)
			if t == "" {
				return fmt.Errorf("timbres[%d] is empty", i)
			}
			dst.Timbres = append(dst.Timbres, t)
		}
	}
	if f.Score != "" {
		dst.Score = strings.TrimSpace(f.Score)
	}
	if f.Tempo != nil {
		if *f.Tempo <= 0 {
			return fmt.Errorf("tempo must be > 0")
		}
		dst.Tempo = *f.Tempo
	}
	return nil
}
