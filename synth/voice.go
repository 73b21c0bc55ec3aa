package synth

// voice is the oscillator and envelope state of one key. It is owned by the
// render goroutine; other goroutines reach it only through the event queue.
type voice struct {
	note      int
	state     EnvelopeState
	phase     float64
	amplitude float64

	incNote  int
	inc      float64
	incValid bool
}

func newVoices(firstNote, count int) []voice {
	voices := make([]voice, count)
	for i := range voices {
		voices[i] = voice{note: firstNote + i}
	}
	return voices
}
