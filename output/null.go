package output

import (
	"sync"
	"time"
)

// Null discards audio but keeps calling the Renderer in real time, so note
// events are still consumed and key state keeps advancing when no device is
// available.
type Null struct {
	r          Renderer
	sampleRate int
	period     time.Duration
	buf        []float32

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewNull creates a stopped Null backend.
func NewNull(r Renderer, cfg Config) *Null {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	frames := rate * cfg.bufferMs() / 1000
	return &Null{
		r:          r,
		sampleRate: rate,
		period:     cfg.bufferDuration(),
		buf:        make([]float32, 4*frames*Channels),
	}
}

func (n *Null) Name() string { return "null" }

// Start launches the render clock.
func (n *Null) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stop != nil {
		return nil
	}
	n.stop = make(chan struct{})
	n.done = make(chan struct{})
	go n.run(n.stop, n.done)
	return nil
}

func (n *Null) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(n.period)
	defer t.Stop()

	maxFrames := len(n.buf) / Channels
	last := time.Now()
	owed := 0.0
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			owed += now.Sub(last).Seconds() * float64(n.sampleRate)
			last = now
			frames := int(owed)
			if frames > maxFrames {
				frames = maxFrames
				owed = float64(frames)
			}
			owed -= float64(frames)
			if n.r != nil && frames > 0 {
				n.r.Render(n.buf, frames)
			}
		}
	}
}

// Stop halts the render clock and waits for the last Render call to return.
func (n *Null) Stop() error {
	n.mu.Lock()
	stop, done := n.stop, n.done
	n.stop, n.done = nil, nil
	n.mu.Unlock()
	if stop == nil {
		return nil
	}
	close(stop)
	<-done
	return nil
}

func (n *Null) Close() error {
	return n.Stop()
}
