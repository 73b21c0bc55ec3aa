//go:build portaudio

package output

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudio plays through PortAudio's default output device.
type PortAudio struct {
	r      Renderer
	stream *portaudio.Stream

	mu      sync.Mutex
	started bool
}

// NewPortAudio initializes PortAudio and opens a stereo output stream.
func NewPortAudio(r Renderer, cfg Config) (Backend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	p := &PortAudio{r: r}
	s, err := portaudio.OpenDefaultStream(0, Channels, float64(cfg.SampleRate), cfg.bufferFrames(), p.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio open: %w", err)
	}
	p.stream = s
	return p, nil
}

func (p *PortAudio) process(out []float32) {
	n := 0
	if p.r != nil {
		n = p.r.Render(out, len(out)/Channels)
	}
	for i := n * Channels; i < len(out); i++ {
		out[i] = 0
	}
}

func (p *PortAudio) Name() string { return "portaudio" }

func (p *PortAudio) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return fmt.Errorf("portaudio stream closed")
	}
	if p.started {
		return nil
	}
	if err := p.stream.Start(); err != nil {
		return err
	}
	p.started = true
	return nil
}

func (p *PortAudio) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	return p.stream.Stop()
}

func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return nil
	}
	err := p.stream.Close()
	p.stream = nil
	p.started = false
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
