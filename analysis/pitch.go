package analysis

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// EstimatePitch finds the fundamental of x between minHz and maxHz from the
// peak of its autocorrelation.
func EstimatePitch(x []float64, sampleRate int, minHz, maxHz float64) (float64, error) {
	if sampleRate <= 0 || minHz <= 0 || maxHz <= minHz {
		return 0, fmt.Errorf("invalid pitch range %g..%g Hz at %d Hz", minHz, maxHz, sampleRate)
	}
	n := len(x)
	minLag := int(float64(sampleRate) / maxHz)
	maxLag := int(float64(sampleRate)/minHz) + 1
	if minLag < 1 {
		minLag = 1
	}
	if n < 2*maxLag {
		return 0, fmt.Errorf("need at least %d samples, have %d", 2*maxLag, n)
	}

	a := make([]float32, n)
	b := make([]float32, n)
	for i, v := range x {
		a[i] = float32(v)
		b[n-1-i] = float32(v)
	}
	corr := make([]float32, 2*n-1)
	if err := algofft.ConvolveReal(corr, a, b); err != nil {
		return 0, err
	}
	// corr[n-1+lag] is the autocorrelation at lag.
	r := corr[n-1:]
	if r[0] <= 0 {
		return 0, fmt.Errorf("silent input")
	}

	best := minLag
	for lag := minLag + 1; lag <= maxLag && lag < len(r)-1; lag++ {
		if r[lag] > r[best] {
			best = lag
		}
	}

	lag := float64(best)
	if best > 0 && best < len(r)-1 {
		y0, y1, y2 := float64(r[best-1]), float64(r[best]), float64(r[best+1])
		den := y0 - 2*y1 + y2
		if den != 0 {
			lag += 0.5 * (y0 - y2) / den
		}
	}
	return float64(sampleRate) / lag, nil
}
