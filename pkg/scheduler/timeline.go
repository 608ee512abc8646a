package scheduler

import (
	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

// segment is one contiguous span of a composite playback timeline: play
// the riff set riffSetID's mapping starting at beat Start for Length beats.
type segment struct {
	RiffSetID uuid.UUID
	Start     float64
	Length    float64
}

// riffSetLength is §4.3's "one-riff-per-track... length = max(riff
// lengths)" rule: a riff set plays for as long as its longest mapped riff.
func riffSetLength(song *project.Song, rs *project.RiffSet) float64 {
	max := 0.0
	for _, riffID := range rs.Mapping {
		if riff, ok := song.Riff(riffID); ok && riff.Length > max {
			max = riff.Length
		}
	}
	return max
}

// sequenceSegments lays out a RiffSequence as a concatenation of its
// member RiffSets, each occupying riffSetLength(member) beats in order.
func sequenceSegments(song *project.Song, seq *project.RiffSequence) ([]segment, float64) {
	var segs []segment
	cursor := 0.0
	for _, rsID := range seq.RiffSets {
		rs, ok := song.RiffSet(rsID)
		if !ok {
			continue
		}
		length := riffSetLength(song, rs)
		if length <= 0 {
			continue
		}
		segs = append(segs, segment{RiffSetID: rs.ID, Start: cursor, Length: length})
		cursor += length
	}
	return segs, cursor
}

// arrangementSegments lays out a RiffArrangement as a concatenation of its
// items; RiffSet items contribute one segment, RiffSequence items expand
// to their own sub-sequence of segments, per §4.3.
func arrangementSegments(song *project.Song, arr *project.RiffArrangement) ([]segment, float64) {
	var segs []segment
	cursor := 0.0
	for _, item := range arr.Items {
		switch item.Kind {
		case project.ArrangementItemRiffSet:
			rs, ok := song.RiffSet(item.ID)
			if !ok {
				continue
			}
			length := riffSetLength(song, rs)
			if length <= 0 {
				continue
			}
			segs = append(segs, segment{RiffSetID: rs.ID, Start: cursor, Length: length})
			cursor += length

		case project.ArrangementItemRiffSequence:
			seq, ok := song.RiffSequence(item.ID)
			if !ok {
				continue
			}
			sub, subLen := sequenceSegments(song, seq)
			for _, s := range sub {
				segs = append(segs, segment{RiffSetID: s.RiffSetID, Start: cursor + s.Start, Length: s.Length})
			}
			cursor += subLen
		}
	}
	return segs, cursor
}

// segmentAt resolves which segment covers beat position pos in a
// wrapped timeline of total length totalLen, along with the local beat
// offset within that segment's riff-set-length window (i.e. pos mod the
// segment's own length, since riff sets themselves loop within a
// sequence slot only insofar as [4.3] doesn't say they do — in practice a
// segment is visited exactly once per wrap of the whole timeline).
func segmentAt(segs []segment, totalLen float64, pos float64) (segment, float64, bool) {
	if totalLen <= 0 || len(segs) == 0 {
		return segment{}, 0, false
	}
	wrapped := wrapBeat(pos, totalLen)
	for _, s := range segs {
		if wrapped >= s.Start && wrapped < s.Start+s.Length {
			return s, wrapped - s.Start, true
		}
	}
	return segs[len(segs)-1], wrapped - segs[len(segs)-1].Start, true
}

// wrapBeat folds pos into [0, length) the way a looping timeline does.
func wrapBeat(pos, length float64) float64 {
	if length <= 0 {
		return 0
	}
	for pos >= length {
		pos -= length
	}
	for pos < 0 {
		pos += length
	}
	return pos
}
