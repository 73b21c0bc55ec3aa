package output

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

const bytesPerFrame = Channels * 4

// Stream adapts a Renderer to io.Reader, producing little-endian float32
// frames. Its scratch buffer is allocated once; Read does not allocate.
type Stream struct {
	r       atomic.Pointer[Renderer]
	scratch []float32
}

// NewStream creates a Stream that renders at most maxFrames per Renderer
// call.
func NewStream(r Renderer, maxFrames int) *Stream {
	if maxFrames <= 0 {
		maxFrames = 1024
	}
	s := &Stream{scratch: make([]float32, maxFrames*Channels)}
	if r != nil {
		s.r.Store(&r)
	}
	return s
}

// Close drops the Renderer. Later reads return io.EOF and never call it.
func (s *Stream) Close() error {
	s.r.Store(nil)
	return nil
}

// Read fills p with whole frames. A trailing partial frame is left for the
// next call.
func (s *Stream) Read(p []byte) (int, error) {
	rp := s.r.Load()
	if rp == nil {
		return 0, io.EOF
	}
	r := *rp
	frames := len(p) / bytesPerFrame
	maxFrames := len(s.scratch) / Channels
	off := 0
	for frames > 0 {
		n := frames
		if n > maxFrames {
			n = maxFrames
		}
		buf := s.scratch[:n*Channels]
		got := r.Render(buf, n)
		for i := got * Channels; i < len(buf); i++ {
			buf[i] = 0
		}
		for _, v := range buf {
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(v))
			off += 4
		}
		frames -= n
	}
	return off, nil
}
