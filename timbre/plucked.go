package timbre

import (
	"fmt"
	"math"

	pdefd "github.com/cwbudde/algo-pde/fd"
	pdepoisson "github.com/cwbudde/algo-pde/poisson"

	"github.com/cwbudde/algo-keys/synth"
)

// DefaultPluckPosition is the pluck point as a fraction of the string length.
const DefaultPluckPosition = 0.13

// Plucked builds an n-harmonic timbre from an ideal string plucked at
// position (0..1, exclusive). Mode k of a plucked string has amplitude
// proportional to sin(k*pi*p)/k^2; the 1/k^2 factor is taken from the
// discrete Dirichlet Laplacian eigenvalues, so it bends the way a sampled
// string does toward the top of the spectrum. The loudest partial is
// normalized to 1.
func Plucked(n int, position float64) synth.Timbre {
	if n <= 0 {
		return synth.DefaultSine()
	}
	if position <= 0 || position >= 1 {
		position = DefaultPluckPosition
	}

	grid := 4 * n
	if grid < 64 {
		grid = 64
	}
	eig := pdefd.Eigenvalues(grid, 1.0/float64(grid+1), pdepoisson.Dirichlet)

	h := make([]synth.Harmonic, n)
	peak := 0.0
	amps := make([]float64, n)
	for k := 0; k < n; k++ {
		a := math.Abs(math.Sin(float64(k+1)*math.Pi*position)) * eig[0] / eig[k]
		amps[k] = a
		if a > peak {
			peak = a
		}
	}
	for k := range h {
		h[k].Amplitude = float32(amps[k] / peak)
	}
	return synth.Timbre{Name: fmt.Sprintf("Plucked %d", n), Harmonics: h}
}
