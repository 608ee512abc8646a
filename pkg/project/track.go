package project

import (
	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
)

// TrackKind tags the three track flavours named in §3.
type TrackKind uint8

const (
	TrackInstrument TrackKind = iota
	TrackAudio
	TrackMidi
)

// RGBA is a track colour swatch.
type RGBA struct {
	R, G, B, A uint8
}

// Track is §3's tagged Track entity. Kind determines which of Instrument,
// AudioClips is meaningful; a MidiTrack uses neither and exists purely to
// route MIDI to other tracks.
type Track struct {
	ID    uuid.UUID
	Kind  TrackKind
	Name  string
	Color RGBA
	Mute  bool
	Solo  bool

	Volume float64 // 0..1 linear
	Pan    float64 // -1..+1

	// Instrument-track fields.
	Instrument      *Plugin
	Effects         []*Plugin
	Riffs           map[uuid.UUID]*Riff
	RiffReferences  []*RiffReference
	AutomationLanes map[uint32]*AutomationLane
	Routings        []Routing

	// Audio-track fields.
	AudioClips []*AudioClip
}

// Routing sends this track's output (MIDI or audio, depending on Kind) to
// another track.
type Routing struct {
	TargetTrackID uuid.UUID
}

// AudioClip is a placed reference to a Sample on an AudioTrack.
type AudioClip struct {
	ID       uuid.UUID
	SampleID uuid.UUID
	Position float64 // beats
	Length   float64 // beats
}

// NewTrack constructs a track with sane defaults: full volume, centred pan,
// and (for instrument tracks) an empty riff map ready for AddRiff.
func NewTrack(kind TrackKind, name string) *Track {
	t := &Track{
		ID:     uuid.New(),
		Kind:   kind,
		Name:   name,
		Volume: 1.0,
		Pan:    0.0,
	}
	if kind == TrackInstrument {
		t.Riffs = make(map[uuid.UUID]*Riff)
		t.AutomationLanes = make(map[uint32]*AutomationLane)
	}
	return t
}

// AddRiff registers a riff as owned by this track.
func (t *Track) AddRiff(r *Riff) {
	if t.Riffs == nil {
		t.Riffs = make(map[uuid.UUID]*Riff)
	}
	t.Riffs[r.ID] = r
}

// AddRiffReference places a riff on the track's timeline, validating per
// §3 that the reference resolves to a riff this track owns and does not
// sit before beat 0.
func (t *Track) AddRiffReference(ref *RiffReference) error {
	if ref.Position < 0 {
		return fdawerr.Wrap(fdawerr.KindScheduling, fdawerr.ErrUnresolvedReference)
	}
	if _, ok := t.Riffs[ref.LinkedTo]; !ok {
		return fdawerr.Wrap(fdawerr.KindScheduling, fdawerr.ErrUnknownRiff)
	}
	t.RiffReferences = append(t.RiffReferences, ref)
	return nil
}

// AutomationPoint is one value at a beat position in an AutomationLane.
type AutomationPoint struct {
	Beat  float64
	Value float64 // normalised 0..1
}

// AutomationLane is a per-parameter sequence of automation points, stepped
// or continuously interpolated per §4.3.
type AutomationLane struct {
	ParamID    uint32
	Continuous bool
	Points     []AutomationPoint
}

// ValueAt resolves the lane's value at a given beat: the held value of the
// preceding point for a stepped lane, or the linear interpolation between
// the bracketing points for a continuous one. Returns false if the lane
// has no points at or before beat.
func (l *AutomationLane) ValueAt(beat float64) (float64, bool) {
	if len(l.Points) == 0 {
		return 0, false
	}
	if beat < l.Points[0].Beat {
		return 0, false
	}

	idx := 0
	for i, p := range l.Points {
		if p.Beat <= beat {
			idx = i
		} else {
			break
		}
	}

	if !l.Continuous || idx == len(l.Points)-1 {
		return l.Points[idx].Value, true
	}

	curr, next := l.Points[idx], l.Points[idx+1]
	if next.Beat == curr.Beat {
		return next.Value, true
	}
	frac := (beat - curr.Beat) / (next.Beat - curr.Beat)
	return curr.Value + frac*(next.Value-curr.Value), true
}
