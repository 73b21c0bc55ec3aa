// Package output connects a Renderer to an audio device.
//
// Every backend pulls interleaved stereo float32 frames from its Renderer on
// the device's own goroutine. A Renderer is only ever called from one
// goroutine at a time.
package output

import (
	"fmt"
	"time"
)

// Channels is the number of interleaved output channels.
const Channels = 2

// Renderer fills out with interleaved stereo frames and returns the number of
// frames written. *synth.Engine satisfies it.
type Renderer interface {
	Render(out []float32, frames int) int
}

// Backend is a started or stopped audio sink.
type Backend interface {
	Name() string
	Start() error
	Stop() error
	Close() error
}

// Config selects and sizes a backend.
type Config struct {
	// Backend is "oto", "portaudio" or "null".
	Backend    string
	SampleRate int
	// BufferMs is the device buffer length.
	BufferMs int
}

// DefaultBufferMs is the device buffer length used when Config leaves it 0.
const DefaultBufferMs = 20

func (c Config) bufferFrames() int {
	return c.SampleRate * c.bufferMs() / 1000
}

func (c Config) bufferMs() int {
	if c.BufferMs <= 0 {
		return DefaultBufferMs
	}
	return c.BufferMs
}

func (c Config) bufferDuration() time.Duration {
	return time.Duration(c.bufferMs()) * time.Millisecond
}

// Open creates the backend named by cfg.Backend. An empty name selects oto.
func Open(r Renderer, cfg Config) (Backend, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0")
	}
	switch cfg.Backend {
	case "", "oto":
		o, err := NewOto(r, cfg)
		if err != nil {
			return nil, err
		}
		return o, nil
	case "portaudio":
		return NewPortAudio(r, cfg)
	case "null":
		return NewNull(r, cfg), nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", cfg.Backend)
	}
}

// OpenOrNull is Open with a silent fallback: when the device cannot be
// opened a Null backend is returned together with the device error, so the
// caller can report it and carry on.
func OpenOrNull(r Renderer, cfg Config) (Backend, error) {
	b, err := Open(r, cfg)
	if err == nil {
		return b, nil
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	return NewNull(r, cfg), fmt.Errorf("audio backend %q unavailable, running silent: %w", cfg.Backend, err)
}
