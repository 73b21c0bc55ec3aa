//go:build !portaudio

package output

import (
	"errors"
	"testing"
)

func TestOpenPortAudioWithoutTag(t *testing.T) {
	_, err := Open(nil, Config{Backend: "portaudio", SampleRate: 44100})
	if !errors.Is(err, ErrNoPortAudio) {
		t.Fatalf("err=%v want ErrNoPortAudio", err)
	}
}
