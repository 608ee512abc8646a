// Package scheduler implements §4.3: converting the project model's
// beat-domain data into the sample-domain events the Audio Graph drains
// from each track's Event Buffer every block.
package scheduler

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/transport"
	"github.com/khremeviuc1004/riff-daw/pkg/units"
)

// Scheduler converts the current transport snapshot and play mode into
// per-track events for a single upcoming block, per §4.3's five modes.
type Scheduler struct {
	song *project.Song
	log  *logrus.Entry
}

// New constructs a Scheduler bound to song. The song's Tempo, SampleRate
// and BlockSize are read fresh from the model on every TopUp call, so a
// tempo edit made by the control plane takes effect on the next block.
func New(song *project.Song, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.New()
	}
	return &Scheduler{song: song, log: log.WithField("component", "scheduler")}
}

// TopUp computes the beat interval blockIndex covers and pushes every
// event that falls inside it into the matching track's buffer in buffers,
// keyed by track UUID. Only instrument tracks participate; audio and
// MIDI-routing tracks have no Event Buffer of their own.
func (s *Scheduler) TopUp(buffers map[uuid.UUID]*event.Buffer, blockIndex uint64, snap transport.Snapshot) error {
	interval := units.Block(blockIndex, s.song.BlockSize, s.song.Tempo, s.song.SampleRate)

	for _, track := range s.song.Tracks {
		if track.Kind != project.TrackInstrument {
			continue
		}
		buf, ok := buffers[track.ID]
		if !ok {
			continue
		}
		if err := s.scheduleTrack(buf, track, interval, snap); err != nil {
			return err
		}
		s.scheduleAutomation(buf, track, interval)
	}
	return nil
}

// TimelineLength returns the loop length, in beats, of the composite
// timeline mode plays: the longest-riff span for RiffSet mode, the summed
// span for RiffSequence/RiffArrangement mode, or 0 for SongArrangement and
// LoopRange (whose loop bounds live on the transport itself, not here).
// The engine uses this to know when to fold the transport's position back
// to the start of the auditioned timeline.
func (s *Scheduler) TimelineLength(mode transport.PlayMode, auditionedID uuid.UUID) float64 {
	switch mode {
	case transport.PlayModeRiffSet:
		rs, ok := s.song.RiffSet(auditionedID)
		if !ok {
			return 0
		}
		return riffSetLength(s.song, rs)
	case transport.PlayModeRiffSequence:
		seq, ok := s.song.RiffSequence(auditionedID)
		if !ok {
			return 0
		}
		_, length := sequenceSegments(s.song, seq)
		return length
	case transport.PlayModeRiffArrangement:
		arr, ok := s.song.RiffArrangement(auditionedID)
		if !ok {
			return 0
		}
		_, length := arrangementSegments(s.song, arr)
		return length
	default:
		return 0
	}
}

func (s *Scheduler) scheduleTrack(buf *event.Buffer, track *project.Track, interval units.BlockInterval, snap transport.Snapshot) error {
	switch snap.Mode {
	case transport.PlayModeSongArrangement:
		return s.scheduleSongArrangementWindow(buf, track, interval, interval.BeatStart, interval.BeatEnd)

	case transport.PlayModeLoopRange:
		return s.scheduleLoopRange(buf, track, interval, snap)

	case transport.PlayModeRiffSet:
		rs, ok := s.song.RiffSet(snap.AuditionedID)
		if !ok {
			s.log.WithField("riff_set", snap.AuditionedID).Warn("riff set mode active with unknown auditioned riff set")
			return nil
		}
		length := riffSetLength(s.song, rs)
		if length <= 0 {
			return nil
		}
		return s.scheduleSegments(buf, track, interval, []segment{{RiffSetID: rs.ID, Start: 0, Length: length}}, length)

	case transport.PlayModeRiffSequence:
		seq, ok := s.song.RiffSequence(snap.AuditionedID)
		if !ok {
			s.log.WithField("riff_sequence", snap.AuditionedID).Warn("riff sequence mode active with unknown auditioned sequence")
			return nil
		}
		segs, total := sequenceSegments(s.song, seq)
		if total <= 0 {
			return nil
		}
		return s.scheduleSegments(buf, track, interval, segs, total)

	case transport.PlayModeRiffArrangement:
		arr, ok := s.song.RiffArrangement(snap.AuditionedID)
		if !ok {
			s.log.WithField("riff_arrangement", snap.AuditionedID).Warn("riff arrangement mode active with unknown auditioned arrangement")
			return nil
		}
		segs, total := arrangementSegments(s.song, arr)
		if total <= 0 {
			return nil
		}
		return s.scheduleSegments(buf, track, interval, segs, total)

	default:
		return nil
	}
}

// scheduleSongArrangementWindow schedules every RiffReference on track whose
// placement overlaps the beat window [windowStart, windowEnd), per §4.3's
// SongArrangement mode: each track plays the riffs its owner placed on its
// own timeline, independent of any other track.
func (s *Scheduler) scheduleSongArrangementWindow(buf *event.Buffer, track *project.Track, interval units.BlockInterval, windowStart, windowEnd float64) error {
	for _, ref := range track.RiffReferences {
		riff, ok := track.Riffs[ref.LinkedTo]
		if !ok {
			s.log.WithFields(logrus.Fields{"track": track.ID, "riff": ref.LinkedTo}).
				Warn("riff reference points at an unknown riff, skipping")
			continue
		}
		if riff.Length <= 0 {
			continue
		}

		placedStart := ref.Position
		placedEnd := ref.Position + riff.Length
		overlapStart := max64(placedStart, windowStart)
		overlapEnd := min64(placedEnd, windowEnd)
		if overlapStart >= overlapEnd {
			continue
		}

		localStart := overlapStart - placedStart
		localEnd := overlapEnd - placedStart
		absBase := overlapStart

		if err := emitRiffWindow(buf, interval, s.song.Tempo, s.song.SampleRate, riff, localStart, localEnd, absBase); err != nil {
			return err
		}
	}
	return nil
}

// scheduleLoopRange confines SongArrangement-style playback to
// [snap.LoopStart, snap.LoopEnd), wrapping back to LoopStart. It pushes no
// all-notes-off itself; the engine's Transport.SeekWrap call at the wrap
// point does that.
func (s *Scheduler) scheduleLoopRange(buf *event.Buffer, track *project.Track, interval units.BlockInterval, snap transport.Snapshot) error {
	if !snap.HasLoop || snap.LoopEnd <= snap.LoopStart {
		return s.scheduleSongArrangementWindow(buf, track, interval, interval.BeatStart, interval.BeatEnd)
	}
	length := snap.LoopEnd - snap.LoopStart
	for _, span := range wrapWindow(interval.BeatStart-snap.LoopStart, interval.BeatEnd-snap.LoopStart, length) {
		windowStart := snap.LoopStart + span.LocalStart
		windowEnd := snap.LoopStart + span.LocalEnd
		if err := s.scheduleSongArrangementWindow(buf, track, interval, windowStart, windowEnd); err != nil {
			return err
		}
	}
	return nil
}

// scheduleSegments schedules track's riff within a looping composite
// timeline (a RiffSet, RiffSequence or RiffArrangement), wrapping at
// totalLen beats, per §4.3's RiffSet/RiffSequence/RiffArrangement modes.
func (s *Scheduler) scheduleSegments(buf *event.Buffer, track *project.Track, interval units.BlockInterval, segs []segment, totalLen float64) error {
	for _, span := range wrapWindow(interval.BeatStart, interval.BeatEnd, totalLen) {
		for _, seg := range segs {
			overlapStart := max64(span.LocalStart, seg.Start)
			overlapEnd := min64(span.LocalEnd, seg.Start+seg.Length)
			if overlapStart >= overlapEnd {
				continue
			}

			rs, ok := s.song.RiffSet(seg.RiffSetID)
			if !ok {
				continue
			}
			riffID, ok := rs.Mapping[track.ID]
			if !ok {
				continue
			}
			riff, ok := s.song.Riff(riffID)
			if !ok || riff.Length <= 0 {
				continue
			}

			riffLocalStart := overlapStart - seg.Start
			riffLocalEnd := min64(overlapEnd-seg.Start, riff.Length)
			if riffLocalStart >= riffLocalEnd {
				continue
			}
			absBase := span.AbsBase + (overlapStart - span.LocalStart)

			if err := emitRiffWindow(buf, interval, s.song.Tempo, s.song.SampleRate, riff, riffLocalStart, riffLocalEnd, absBase); err != nil {
				return err
			}
		}
	}
	return nil
}

// scheduleAutomation samples each of track's automation lanes at the
// block's first beat and, if the lane has a value there, inserts a
// Parameter event at sample offset 0, per §4.3's rule that automation is
// sampled once per block rather than interpolated within it.
func (s *Scheduler) scheduleAutomation(buf *event.Buffer, track *project.Track, interval units.BlockInterval) {
	for paramID, lane := range track.AutomationLanes {
		value, ok := lane.ValueAt(interval.BeatStart)
		if !ok {
			continue
		}
		_ = buf.Push(&event.ParameterEvent{
			Header:  event.Header{BlockIndex: interval.BlockIndex, SampleOffset: 0, Kind: event.KindParameter},
			ParamID: paramID,
			Value:   value,
		})
	}
}

// wrappedSpan is one piece of a beat window after splitting it at every
// loop-boundary crossing within a timeline of fixed length.
type wrappedSpan struct {
	LocalStart float64 // in [0, loopLength)
	LocalEnd   float64 // in (LocalStart, loopLength]
	AbsBase    float64 // absolute beat corresponding to LocalStart
}

// wrapWindow decomposes the absolute beat window [beatStart, beatEnd) into
// consecutive spans, each confined to a single pass through a timeline
// that loops every loopLength beats. A window spanning a wrap point
// produces two or more spans so the caller can schedule the tail of one
// pass and the head of the next independently.
func wrapWindow(beatStart, beatEnd, loopLength float64) []wrappedSpan {
	if loopLength <= 0 || beatEnd <= beatStart {
		return nil
	}
	var spans []wrappedSpan
	cur := beatStart
	for cur < beatEnd {
		local := wrapBeat(cur, loopLength)
		remaining := beatEnd - cur
		toBoundary := loopLength - local
		length := remaining
		if toBoundary < length {
			length = toBoundary
		}
		spans = append(spans, wrappedSpan{LocalStart: local, LocalEnd: local + length, AbsBase: cur})
		cur += length
	}
	return spans
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
