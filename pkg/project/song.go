// Package project holds the Project Model of §3: the Song entity graph
// that the UI edits on the control-plane thread and the Scheduler reads
// from each block. None of these types know how to serialize themselves;
// that lives in pkg/persistence, mirroring the split the teacher draws
// between pkg/param (in-memory parameter model) and pkg/state (its
// on-disk form).
package project

import (
	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
)

// TimeSignature is a musical meter, numerator over denominator.
type TimeSignature struct {
	Numerator   uint32
	Denominator uint32
}

// Song is the root of the project model (§3). SampleRate and BlockSize are
// fixed for the life of a playback session; changing either requires
// re-initialising the engine rather than a live edit.
type Song struct {
	Name          string
	Tempo         float64 // BPM, positive
	TimeSignature TimeSignature
	SampleRate    float64
	BlockSize     int

	Tracks            []*Track
	RiffSets          []*RiffSet
	RiffSequences     []*RiffSequence
	RiffArrangements  []*RiffArrangement
	Loops             []*LoopRange
	Samples           []*Sample
}

// Sample is an audio-file reference usable by AudioTrack clips.
type Sample struct {
	ID   uuid.UUID
	Name string
	Path string
}

// NewSong returns an empty song with the given transport-fixed parameters.
func NewSong(name string, tempo float64, sampleRate float64, blockSize int) *Song {
	return &Song{
		Name:          name,
		Tempo:         tempo,
		TimeSignature: TimeSignature{Numerator: 4, Denominator: 4},
		SampleRate:    sampleRate,
		BlockSize:     blockSize,
	}
}

// AddTrack appends a track, rejecting a duplicate UUID per §3's invariant
// that track UUIDs are unique across the song.
func (s *Song) AddTrack(t *Track) error {
	if _, _, ok := s.findTrack(t.ID); ok {
		return fdawerr.Wrap(fdawerr.KindScheduling, fdawerr.ErrDuplicateTrackID)
	}
	s.Tracks = append(s.Tracks, t)
	return nil
}

// RemoveTrack drops the track with the given UUID.
func (s *Song) RemoveTrack(id uuid.UUID) error {
	_, idx, ok := s.findTrack(id)
	if !ok {
		return fdawerr.Wrap(fdawerr.KindScheduling, fdawerr.ErrUnknownTrack)
	}
	s.Tracks = append(s.Tracks[:idx], s.Tracks[idx+1:]...)
	return nil
}

// Track resolves a track by UUID.
func (s *Song) Track(id uuid.UUID) (*Track, error) {
	t, _, ok := s.findTrack(id)
	if !ok {
		return nil, fdawerr.Wrap(fdawerr.KindScheduling, fdawerr.ErrUnknownTrack)
	}
	return t, nil
}

func (s *Song) findTrack(id uuid.UUID) (*Track, int, bool) {
	for i, t := range s.Tracks {
		if t.ID == id {
			return t, i, true
		}
	}
	return nil, -1, false
}

// Riff resolves a riff by UUID, searching every instrument track (riffs
// live on the track that owns them per §3).
func (s *Song) Riff(id uuid.UUID) (*Riff, bool) {
	for _, t := range s.Tracks {
		if t.Instrument == nil {
			continue
		}
		if r, ok := t.Riffs[id]; ok {
			return r, true
		}
	}
	return nil, false
}

// RiffSet resolves a riff set by UUID.
func (s *Song) RiffSet(id uuid.UUID) (*RiffSet, bool) {
	for _, rs := range s.RiffSets {
		if rs.ID == id {
			return rs, true
		}
	}
	return nil, false
}

// RiffSequence resolves a riff sequence by UUID.
func (s *Song) RiffSequence(id uuid.UUID) (*RiffSequence, bool) {
	for _, seq := range s.RiffSequences {
		if seq.ID == id {
			return seq, true
		}
	}
	return nil, false
}

// RiffArrangement resolves a riff arrangement by UUID.
func (s *Song) RiffArrangement(id uuid.UUID) (*RiffArrangement, bool) {
	for _, arr := range s.RiffArrangements {
		if arr.ID == id {
			return arr, true
		}
	}
	return nil, false
}
