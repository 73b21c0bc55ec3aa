package output

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Oto plays through the platform's default device via oto. Only one oto
// context may exist per process.
type Oto struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream

	mu      sync.Mutex
	started bool
}

// NewOto opens the default device and prepares a paused player.
func NewOto(r Renderer, cfg Config) (*Oto, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.bufferDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	o := &Oto{ctx: ctx, stream: NewStream(r, 4*cfg.bufferFrames())}
	o.player = ctx.NewPlayer(o.stream)
	return o, nil
}

func (o *Oto) Name() string { return "oto" }

// Start begins playback.
func (o *Oto) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return fmt.Errorf("oto player closed")
	}
	if !o.started {
		o.player.Play()
		o.started = true
	}
	return nil
}

// Stop pauses playback; Start resumes it.
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started && o.player != nil {
		o.player.Pause()
		o.started = false
	}
	return nil
}

// Close stops playback for good and releases the Renderer.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	o.player.Pause()
	// oto releases players in a finalizer; drop the Renderer now.
	o.stream.Close()
	o.player = nil
	o.started = false
	return o.ctx.Err()
}
