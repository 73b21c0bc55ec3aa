package analysis

import (
	"fmt"
	"math"

	"github.com/ktye/fft"
)

// DefaultFFTSize is the analysis window used when callers pass size <= 0.
const DefaultFFTSize = 16384

// Spectrum returns the Hann-windowed magnitude spectrum (bins 0..size/2) of
// the first size samples of x. Shorter input is zero-padded. size must be a
// power of two.
func Spectrum(x []float64, size int) ([]float64, error) {
	if size <= 0 {
		size = DefaultFFTSize
	}
	if size&(size-1) != 0 {
		return nil, fmt.Errorf("fft size %d is not a power of two", size)
	}
	f, err := fft.New(size)
	if err != nil {
		return nil, err
	}

	n := len(x)
	if n > size {
		n = size
	}
	buf := make([]complex128, size)
	for i := 0; i < n; i++ {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		buf[i] = complex(x[i]*w, 0)
	}
	buf = f.Transform(buf)

	mags := make([]float64, size/2+1)
	for k := range mags {
		re, im := real(buf[k]), imag(buf[k])
		mags[k] = math.Hypot(re, im)
	}
	return mags, nil
}

// HarmonicProfile measures the level of the first n harmonics of f0 in x.
// Each entry is the main-lobe energy around the harmonic's bin, scaled so a
// unit-amplitude sinusoid reads close to 1.
func HarmonicProfile(x []float64, sampleRate int, f0 float64, n int) ([]float64, error) {
	if sampleRate <= 0 || f0 <= 0 || n <= 0 {
		return nil, fmt.Errorf("invalid harmonic request: rate=%d f0=%g n=%d", sampleRate, f0, n)
	}
	size := DefaultFFTSize
	for size > 1024 && size > len(x) {
		size /= 2
	}
	mags, err := Spectrum(x, size)
	if err != nil {
		return nil, err
	}

	used := len(x)
	if used > size {
		used = size
	}
	// Hann window coherent gain is 0.5; a sinusoid of amplitude A peaks at A*N/4.
	norm := 4.0 / float64(used)
	binHz := float64(sampleRate) / float64(size)

	out := make([]float64, n)
	for h := 0; h < n; h++ {
		center := int(math.Round(f0 * float64(h+1) / binHz))
		if center >= len(mags)-2 {
			break
		}
		var energy float64
		for k := center - 2; k <= center+2; k++ {
			if k < 1 {
				continue
			}
			energy += mags[k] * mags[k]
		}
		// The Hann main lobe carries 1.5x the peak bin's power.
		out[h] = math.Sqrt(energy/1.5) * norm
	}
	return out, nil
}

// SpectralDistanceDB is the RMS difference in dB between the magnitude
// spectra of a and b, over bins 1..size/2-1.
func SpectralDistanceDB(a []float64, b []float64, size int) (float64, error) {
	ma, err := Spectrum(a, size)
	if err != nil {
		return 0, err
	}
	mb, err := Spectrum(b, size)
	if err != nil {
		return 0, err
	}
	bins := len(ma) - 1
	if bins < 2 {
		return 0, nil
	}
	var sum float64
	for k := 1; k < bins; k++ {
		d := linToDB(ma[k]) - linToDB(mb[k])
		sum += d * d
	}
	return math.Sqrt(sum / float64(bins-1)), nil
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}
