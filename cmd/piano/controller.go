package main

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-keys/keyboard"
	"github.com/cwbudde/algo-keys/output"
	"github.com/cwbudde/algo-keys/score"
	"github.com/cwbudde/algo-keys/sequencer"
	"github.com/cwbudde/algo-keys/synth"
)

// controller owns the engine and everything the window drives: the key
// layout, the key animation, the sequencer and the audio backend.
type controller struct {
	engine  *synth.Engine
	seq     *sequencer.Sequencer
	layout  *keyboard.Layout
	anim    *keyboard.Animator
	backend output.Backend

	// mouseNote is the key held by the pointer, 0 when none.
	mouseNote int
}

type hudLine struct {
	Text   string
	Active bool
}

func newController(e *synth.Engine, events []score.Event, g keyboard.Geometry) *controller {
	notes := e.Notes()
	first := 0
	if len(notes) > 0 {
		first = notes[0]
	}
	return &controller{
		engine: e,
		seq:    sequencer.New(e, events),
		layout: keyboard.NewLayout(first, len(notes), e.Timbres().Len(), g),
		anim:   keyboard.NewAnimator(len(notes)),
	}
}

// attach starts b. A backend that fails to start is replaced by the null
// backend and the error is returned for logging.
func (c *controller) attach(b output.Backend, cfg output.Config) error {
	if err := b.Start(); err != nil {
		_ = b.Close()
		null := output.NewNull(c.engine, cfg)
		_ = null.Start()
		c.backend = null
		return fmt.Errorf("start %s output: %w", b.Name(), err)
	}
	c.backend = b
	return nil
}

// pointerDown handles a click: a key plays its note, a button selects a
// timbre or shifts the octave.
func (c *controller) pointerDown(x, y float64) {
	if note, ok := c.layout.NoteAt(x, y); ok {
		if c.engine.NoteOn(note) {
			c.mouseNote = note
		}
		return
	}
	b, ok := c.layout.ButtonAt(x, y)
	if !ok {
		return
	}
	switch b.Kind {
	case keyboard.ButtonTimbre:
		c.engine.SelectTimbre(b.Index)
	case keyboard.ButtonOctaveDown:
		c.engine.ShiftOctave(-1)
	case keyboard.ButtonOctaveUp:
		c.engine.ShiftOctave(1)
	}
}

// pointerUp releases all keys if the pointer was holding one.
func (c *controller) pointerUp() {
	if c.mouseNote == 0 {
		return
	}
	c.mouseNote = 0
	c.engine.ReleaseAll()
}

func (c *controller) play() bool {
	return c.seq.Play()
}

func (c *controller) stop() {
	c.seq.Stop()
}

func (c *controller) selectTimbre(i int) bool {
	return c.engine.SelectTimbre(i)
}

// tick advances the key animation by dt seconds.
func (c *controller) tick(dt float64) bool {
	notes := c.layout.Keys
	return c.anim.Step(dt, func(i int) float32 {
		return c.engine.KeyTarget(notes[i].Note)
	})
}

// keyOffset returns the displayed press depth of key i in pixels.
func (c *controller) keyOffset(i int, depth float64) float64 {
	return -float64(c.anim.Position(i)) / float64(-synth.KeyPressedY) * depth
}

func (c *controller) hud() []hudLine {
	status := "Stopped"
	if c.seq.Playing() {
		status = "Playing"
	}
	name := ""
	if t := c.engine.CurrentTimbre(); t != nil {
		name = t.Name
	}
	return []hudLine{
		{Text: fmt.Sprintf("Octave: %+d", c.engine.OctaveShift())},
		{Text: fmt.Sprintf("Timbre: %s", name)},
		{Text: "Sequencer: " + status, Active: c.seq.Playing()},
	}
}

// close stops the sequence, then the backend. The engine must not be used
// after the backend is closed.
func (c *controller) close() error {
	c.seq.Stop()
	var errs []error
	if c.backend != nil {
		errs = append(errs, c.backend.Stop(), c.backend.Close())
		c.backend = nil
	}
	return errors.Join(errs...)
}
