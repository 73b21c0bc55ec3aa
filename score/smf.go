package score

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// smfResolution is the tick resolution of written files.
const smfResolution = 960

type noteSpan struct {
	key        int
	start, end int64 // microseconds; end < 0 while the note is held
}

// ReadSMF reads a Standard MIDI file and reduces it to a monophonic line.
func ReadSMF(path string) ([]Event, error) {
	return reduceTracks(smf.ReadTracks(path))
}

// ReadSMFFrom is ReadSMF for an already opened stream.
func ReadSMFFrom(r io.Reader) ([]Event, error) {
	return reduceTracks(smf.ReadTracksFrom(r))
}

// reduceTracks merges every track and channel. When several notes start at
// the same time the highest wins; a note is cut short by the next start and
// gaps become rests.
func reduceTracks(tr *smf.TracksReader) ([]Event, error) {
	var spans []noteSpan
	open := make(map[[2]uint8]int)

	tr.Do(func(ev smf.TrackEvent) {
		msg := midi.Message(ev.Message)
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			id := [2]uint8{ch, key}
			if i, ok := open[id]; ok {
				spans[i].end = ev.AbsMicroSeconds
			}
			open[id] = len(spans)
			spans = append(spans, noteSpan{key: int(key), start: ev.AbsMicroSeconds, end: -1})
		case msg.GetNoteEnd(&ch, &key):
			id := [2]uint8{ch, key}
			if i, ok := open[id]; ok {
				spans[i].end = ev.AbsMicroSeconds
				delete(open, id)
			}
		}
	})
	if err := tr.Error(); err != nil {
		return nil, fmt.Errorf("read smf: %w", err)
	}
	if len(spans) == 0 {
		return nil, ErrEmpty
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].key > spans[j].key
	})
	lead := spans[:0:0]
	for i, s := range spans {
		if i > 0 && s.start == spans[i-1].start {
			continue
		}
		lead = append(lead, s)
	}

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }

	var events []Event
	if lead[0].start > 0 {
		events = append(events, Event{Note: Rest, Duration: us(lead[0].start)})
	}
	for i, s := range lead {
		end := s.end
		if i+1 < len(lead) {
			next := lead[i+1].start
			if end < 0 || end > next {
				end = next
			}
			if end > s.start {
				events = append(events, Event{Note: s.key, Duration: us(end - s.start)})
			}
			if next > end {
				events = append(events, Event{Note: Rest, Duration: us(next - end)})
			}
			continue
		}
		if end <= s.start {
			events = append(events, Event{Note: s.key, Duration: BeatDuration(DefaultTempo)})
			continue
		}
		events = append(events, Event{Note: s.key, Duration: us(end - s.start)})
	}
	return events, nil
}

// WriteSMF writes events as a single-track Standard MIDI file at tempo bpm.
func WriteSMF(path string, events []Event, bpm float64) error {
	sm, err := buildSMF(events, bpm)
	if err != nil {
		return err
	}
	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("write smf %s: %w", path, err)
	}
	return nil
}

func buildSMF(events []Event, bpm float64) (*smf.SMF, error) {
	if len(events) == 0 {
		return nil, ErrEmpty
	}
	if bpm <= 0 {
		bpm = DefaultTempo
	}
	beat := float64(BeatDuration(bpm))
	ticks := func(d time.Duration) uint32 {
		return uint32(math.Round(float64(d) / beat * smfResolution))
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(smfResolution)

	var track smf.Track
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(bpm))
	var pending uint32
	for _, ev := range events {
		if ev.IsRest() || ev.Note > 127 {
			pending += ticks(ev.Duration)
			continue
		}
		key := uint8(ev.Note)
		track.Add(pending, midi.NoteOn(0, key, 100))
		track.Add(ticks(ev.Duration), midi.NoteOff(0, key))
		pending = 0
	}
	track.Close(pending)
	if err := sm.Add(track); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}
	return sm, nil
}
