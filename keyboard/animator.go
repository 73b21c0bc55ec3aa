package keyboard

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

const (
	// SnapDistance is how close a key must be to its target to stop moving.
	SnapDistance = 0.001
	// AnimationTau is the easing time constant in seconds: a key covers 20%
	// of the remaining distance every 16 ms.
	AnimationTau = 0.0717
	// maxStep keeps a stalled frame from overshooting.
	maxStep = 0.25
)

// Animator eases each key's displayed height toward its target.
type Animator struct {
	pos []float32
}

// NewAnimator creates an animator for n keys, all at rest.
func NewAnimator(n int) *Animator {
	return &Animator{pos: make([]float32, n)}
}

// Len returns the number of animated keys.
func (a *Animator) Len() int {
	return len(a.pos)
}

// Position returns the displayed height of key i.
func (a *Animator) Position(i int) float32 {
	if i < 0 || i >= len(a.pos) {
		return 0
	}
	return a.pos[i]
}

// Step advances every key by dt seconds toward target(i) and reports whether
// any key is still moving.
func (a *Animator) Step(dt float64, target func(i int) float32) bool {
	if dt <= 0 {
		return false
	}
	if dt > maxStep {
		dt = maxStep
	}
	k := 1 - approx.FastExp(float32(-dt/AnimationTau))
	moving := false
	for i := range a.pos {
		diff := target(i) - a.pos[i]
		if math.Abs(float64(diff)) > SnapDistance {
			a.pos[i] += diff * k
			moving = true
		} else {
			a.pos[i] = target(i)
		}
	}
	return moving
}
