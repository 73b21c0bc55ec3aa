// Package sequencer plays a monophonic score on a NotePlayer in real time.
package sequencer

import (
	"sync"
	"time"

	"github.com/cwbudde/algo-keys/score"
)

// NotePlayer receives the sequencer's key presses. *synth.Engine satisfies
// it.
type NotePlayer interface {
	NoteOn(note int) bool
	NoteOff(note int) bool
	ReleaseAll() bool
}

// Sequencer steps through a score with one timer per event. Timing follows
// the wall clock, not the audio stream.
type Sequencer struct {
	player NotePlayer
	events []score.Event

	mu      sync.Mutex
	gen     uint64
	playing bool
	index   int
	timer   *time.Timer
	done    chan struct{}
}

// New creates a stopped sequencer for events.
func New(player NotePlayer, events []score.Event) *Sequencer {
	done := make(chan struct{})
	close(done)
	ev := make([]score.Event, len(events))
	copy(ev, events)
	return &Sequencer{player: player, events: ev, done: done}
}

// Len returns the number of events.
func (s *Sequencer) Len() int {
	return len(s.events)
}

// Play starts from the first event. It does nothing and returns false when
// already playing or when there is nothing to play.
func (s *Sequencer) Play() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing || len(s.events) == 0 {
		return false
	}
	s.gen++
	s.playing = true
	s.index = 0
	s.done = make(chan struct{})
	s.stepLocked(s.gen, score.Rest)
	return true
}

// Stop halts playback and releases every key.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.player.ReleaseAll()
	s.finishLocked()
}

// Playing reports whether a run is in progress.
func (s *Sequencer) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Position returns the index of the next event to be played.
func (s *Sequencer) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Done returns a channel closed when the current run ends, by reaching the
// end of the score or by Stop. Before the first Play it is already closed.
func (s *Sequencer) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Sequencer) step(gen uint64, prev int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.playing {
		return
	}
	s.stepLocked(gen, prev)
}

func (s *Sequencer) stepLocked(gen uint64, prev int) {
	if s.index >= len(s.events) {
		if prev > 0 {
			s.player.NoteOff(prev)
		}
		s.timer = nil
		s.finishLocked()
		return
	}

	ev := s.events[s.index]
	if prev > 0 && prev != ev.Note {
		s.player.NoteOff(prev)
	}
	if !ev.IsRest() {
		s.player.NoteOn(ev.Note)
	}
	s.index++

	note := ev.Note
	s.timer = time.AfterFunc(ev.Duration, func() { s.step(gen, note) })
}

func (s *Sequencer) finishLocked() {
	s.playing = false
	close(s.done)
}
