// Package offline renders scores and single notes without an audio device.
package offline

import (
	"math"
	"time"

	"github.com/cwbudde/algo-keys/score"
	"github.com/cwbudde/algo-keys/sequencer"
	"github.com/cwbudde/algo-keys/synth"
)

// BlockSize is the largest number of frames rendered per engine call.
const BlockSize = 128

// Options controls the release tail after the last cue.
type Options struct {
	// Tail is the longest time rendered after the last cue.
	Tail time.Duration
	// DecayDBFS ends the tail early once this many consecutive blocks
	// (DecayHoldBlocks) fall below the level. +Inf disables it.
	DecayDBFS       float64
	DecayHoldBlocks int
}

// DefaultOptions renders a quarter second of tail and stops early at -90
// dBFS.
func DefaultOptions() Options {
	return Options{Tail: 250 * time.Millisecond, DecayDBFS: -90, DecayHoldBlocks: 6}
}

func frameAt(d time.Duration, sampleRate int) int {
	return int(math.Round(d.Seconds() * float64(sampleRate)))
}

// RenderCues applies cues at their sample positions and returns interleaved
// stereo audio covering length plus the tail.
func RenderCues(e *synth.Engine, cues []sequencer.Cue, length time.Duration, opt Options) []float32 {
	rate := e.SampleRate()
	body := frameAt(length, rate)
	tail := frameAt(opt.Tail, rate)
	out := make([]float32, 0, (body+tail)*2)
	block := make([]float32, BlockSize*2)

	next := 0
	frame := 0
	for frame < body {
		for next < len(cues) && frameAt(cues[next].At, rate) <= frame {
			cues[next].Apply(e)
			next++
		}
		n := BlockSize
		if frame+n > body {
			n = body - frame
		}
		if next < len(cues) {
			if until := frameAt(cues[next].At, rate) - frame; until < n {
				n = until
			}
		}
		e.Render(block, n)
		out = append(out, block[:n*2]...)
		frame += n
	}
	for ; next < len(cues); next++ {
		cues[next].Apply(e)
	}

	autoStop := !math.IsInf(opt.DecayDBFS, 1)
	threshold := math.Pow(10, opt.DecayDBFS/20)
	hold := opt.DecayHoldBlocks
	if hold < 1 {
		hold = 1
	}
	below := 0
	for done := 0; done < tail; {
		n := BlockSize
		if done+n > tail {
			n = tail - done
		}
		e.Render(block, n)
		out = append(out, block[:n*2]...)
		done += n
		if !autoStop {
			continue
		}
		if StereoRMS(block[:n*2]) < threshold {
			below++
			if below >= hold {
				break
			}
		} else {
			below = 0
		}
	}
	return out
}

// RenderScore plays events as the real-time sequencer would.
func RenderScore(e *synth.Engine, events []score.Event, opt Options) []float32 {
	cues, length := sequencer.Timeline(events)
	return RenderCues(e, cues, length, opt)
}

// RenderNote holds note for hold, then releases it.
func RenderNote(e *synth.Engine, note int, hold time.Duration, opt Options) []float32 {
	return RenderScore(e, []score.Event{{Note: note, Duration: hold}}, opt)
}

// StereoRMS is the RMS level over all samples of an interleaved buffer.
func StereoRMS(interleaved []float32) float64 {
	if len(interleaved) == 0 {
		return 0
	}
	var sum float64
	for _, s := range interleaved {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(interleaved)))
}
