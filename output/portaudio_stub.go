//go:build !portaudio

package output

import "errors"

// ErrNoPortAudio is returned when the binary was built without the
// portaudio tag.
var ErrNoPortAudio = errors.New("built without portaudio support (use -tags portaudio)")

// NewPortAudio always fails in builds without the portaudio tag.
func NewPortAudio(r Renderer, cfg Config) (Backend, error) {
	return nil, ErrNoPortAudio
}
