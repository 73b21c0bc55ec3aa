// Package wavio reads and writes WAV files for the offline tools.
package wavio

import (
	"fmt"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// BitDepth is the sample size of written files.
const BitDepth = 16

// ReadMono decodes a WAV file and averages its channels.
func ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("invalid wav buffer: %s", path)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	if frames == 0 {
		return nil, 0, fmt.Errorf("empty wav data: %s", path)
	}
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch)
	}
	return out, buf.Format.SampleRate, nil
}

// Resample converts in from fromRate to toRate. Equal rates return in
// unchanged.
func Resample(in []float64, fromRate, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return r.Process(in), nil
}

// ResampleStereo converts interleaved stereo from fromRate to toRate, one
// channel at a time.
func ResampleStereo(in []float32, fromRate, toRate int) ([]float32, error) {
	if fromRate == toRate {
		return in, nil
	}
	frames := len(in) / 2
	left := make([]float64, frames)
	right := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left[i] = float64(in[i*2])
		right[i] = float64(in[i*2+1])
	}
	l, err := Resample(left, fromRate, toRate)
	if err != nil {
		return nil, err
	}
	r, err := Resample(right, fromRate, toRate)
	if err != nil {
		return nil, err
	}
	n := len(l)
	if len(r) < n {
		n = len(r)
	}
	out := make([]float32, n*2)
	for i := 0; i < n; i++ {
		out[i*2] = float32(l[i])
		out[i*2+1] = float32(r[i])
	}
	return out, nil
}

// WriteStereo writes interleaved stereo float samples as 16-bit PCM.
func WriteStereo(path string, samples []float32, sampleRate int) error {
	return write(path, samples, sampleRate, 2)
}

// WriteMono writes mono float samples as 16-bit PCM.
func WriteMono(path string, samples []float32, sampleRate int) error {
	return write(path, samples, sampleRate, 1)
}

func write(path string, samples []float32, sampleRate, channels int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, BitDepth, channels, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: channels,
		},
		Data:           samples,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return enc.Close()
}
