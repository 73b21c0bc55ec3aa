package analysis

import "math"

// RMS returns the root-mean-square level of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Peak returns the largest absolute sample of x.
func Peak(x []float64) float64 {
	var p float64
	for _, v := range x {
		if a := math.Abs(v); a > p {
			p = a
		}
	}
	return p
}

// StereoToMono averages interleaved stereo frames.
func StereoToMono(st []float32) []float64 {
	if len(st) < 2 {
		return nil
	}
	n := len(st) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = 0.5 * (float64(st[i*2]) + float64(st[i*2+1]))
	}
	return out
}

// Metrics compares a candidate rendering against a reference.
type Metrics struct {
	SpectralRMSEDB float64   `json:"spectral_rmse_db"`
	HarmonicRMSEDB float64   `json:"harmonic_rmse_db"`
	Reference      []float64 `json:"reference_harmonics"`
	Candidate      []float64 `json:"candidate_harmonics"`
	Score          float64   `json:"score"`
}

// CompareHarmonics scores how closely candidate reproduces the first n
// harmonics of f0 in reference. Both profiles are normalized to their
// strongest harmonic before comparison; lower scores are better.
func CompareHarmonics(reference, candidate []float64, sampleRate int, f0 float64, n int) (Metrics, error) {
	var m Metrics
	ref, err := HarmonicProfile(reference, sampleRate, f0, n)
	if err != nil {
		return m, err
	}
	cand, err := HarmonicProfile(candidate, sampleRate, f0, n)
	if err != nil {
		return m, err
	}
	normalizePeak(ref)
	normalizePeak(cand)
	m.Reference = ref
	m.Candidate = cand

	var sum float64
	for i := range ref {
		d := linToDB(ref[i]+1e-4) - linToDB(cand[i]+1e-4)
		sum += d * d
	}
	m.HarmonicRMSEDB = math.Sqrt(sum / float64(len(ref)))

	size := DefaultFFTSize
	for size > 1024 && (size > len(reference) || size > len(candidate)) {
		size /= 2
	}
	m.SpectralRMSEDB, err = SpectralDistanceDB(reference, candidate, size)
	if err != nil {
		return m, err
	}
	m.Score = clamp01(0.7*m.HarmonicRMSEDB/30.0 + 0.3*m.SpectralRMSEDB/30.0)
	return m, nil
}

func normalizePeak(x []float64) {
	var p float64
	for _, v := range x {
		if v > p {
			p = v
		}
	}
	if p <= 1e-12 {
		return
	}
	for i := range x {
		x[i] /= p
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
