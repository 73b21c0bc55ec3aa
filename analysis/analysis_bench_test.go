package analysis

import "testing"

func BenchmarkHarmonicProfile(b *testing.B) {
	x := sineMix(48000, 16384, 261.6, 0.5, 0.3, 0.2, 0.1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := HarmonicProfile(x, 48000, 261.6, 8); err != nil {
			b.Fatalf("HarmonicProfile: %v", err)
		}
	}
}
