package persistence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

// trackDoc is the tagged-union wire shape §4.7 specifies: an object with a
// single key naming the concrete track kind.
type trackDoc struct {
	InstrumentTrack *instrumentTrackDoc `json:"InstrumentTrack,omitempty"`
	AudioTrack      *audioTrackDoc      `json:"AudioTrack,omitempty"`
	MidiTrack       *midiTrackDoc       `json:"MidiTrack,omitempty"`
}

type commonTrackDoc struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Color  colorDoc  `json:"color"`
	Mute   bool      `json:"mute"`
	Solo   bool      `json:"solo"`
	Volume float64   `json:"volume"`
	Pan    float64   `json:"pan"`
}

type colorDoc struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type instrumentTrackDoc struct {
	commonTrackDoc
	Instrument      *pluginDoc             `json:"instrument,omitempty"`
	Effects         []pluginDoc            `json:"effects"`
	Riffs           []riffDoc              `json:"riffs"`
	RiffReferences  []riffReferenceDoc     `json:"riff_references"`
	AutomationLanes []automationLaneDoc    `json:"automation_lanes"`
	Routings        []routingDoc           `json:"routings"`
}

type audioTrackDoc struct {
	commonTrackDoc
	AudioClips []audioClipDoc `json:"audio_clips"`
}

type midiTrackDoc struct {
	commonTrackDoc
	Routings []routingDoc `json:"routings"`
}

type routingDoc struct {
	TargetTrackID uuid.UUID `json:"target_track_id"`
}

type audioClipDoc struct {
	ID       uuid.UUID `json:"id"`
	SampleID uuid.UUID `json:"sample_id"`
	Position float64   `json:"position"`
	Length   float64   `json:"length"`
}

type automationLaneDoc struct {
	ParamID    uint32              `json:"param_id"`
	Continuous bool                `json:"continuous"`
	Points     []automationPtDoc   `json:"points"`
}

type automationPtDoc struct {
	Beat  float64 `json:"beat"`
	Value float64 `json:"value"`
}

func commonFromTrack(t *project.Track) commonTrackDoc {
	return commonTrackDoc{
		ID:     t.ID,
		Name:   t.Name,
		Color:  colorDoc{t.Color.R, t.Color.G, t.Color.B, t.Color.A},
		Mute:   t.Mute,
		Solo:   t.Solo,
		Volume: t.Volume,
		Pan:    t.Pan,
	}
}

func commonToTrack(kind project.TrackKind, c commonTrackDoc) *project.Track {
	t := project.NewTrack(kind, c.Name)
	t.ID = c.ID
	t.Color = project.RGBA{R: c.Color.R, G: c.Color.G, B: c.Color.B, A: c.Color.A}
	t.Mute = c.Mute
	t.Solo = c.Solo
	t.Volume = c.Volume
	t.Pan = c.Pan
	return t
}

func toTrackDoc(t *project.Track) trackDoc {
	switch t.Kind {
	case project.TrackInstrument:
		d := instrumentTrackDoc{commonTrackDoc: commonFromTrack(t)}
		if t.Instrument != nil {
			pd := toPluginDoc(t.Instrument)
			d.Instrument = &pd
		}
		for _, e := range t.Effects {
			d.Effects = append(d.Effects, toPluginDoc(e))
		}
		for _, r := range t.Riffs {
			d.Riffs = append(d.Riffs, toRiffDoc(r))
		}
		for _, ref := range t.RiffReferences {
			d.RiffReferences = append(d.RiffReferences, riffReferenceDoc{
				ID: ref.ID, LinkedTo: ref.LinkedTo, Position: ref.Position,
			})
		}
		for _, lane := range t.AutomationLanes {
			d.AutomationLanes = append(d.AutomationLanes, toAutomationLaneDoc(lane))
		}
		for _, r := range t.Routings {
			d.Routings = append(d.Routings, routingDoc{TargetTrackID: r.TargetTrackID})
		}
		if d.Effects == nil {
			d.Effects = []pluginDoc{}
		}
		if d.Riffs == nil {
			d.Riffs = []riffDoc{}
		}
		if d.RiffReferences == nil {
			d.RiffReferences = []riffReferenceDoc{}
		}
		if d.AutomationLanes == nil {
			d.AutomationLanes = []automationLaneDoc{}
		}
		if d.Routings == nil {
			d.Routings = []routingDoc{}
		}
		return trackDoc{InstrumentTrack: &d}

	case project.TrackAudio:
		d := audioTrackDoc{commonTrackDoc: commonFromTrack(t)}
		for _, c := range t.AudioClips {
			d.AudioClips = append(d.AudioClips, audioClipDoc{
				ID: c.ID, SampleID: c.SampleID, Position: c.Position, Length: c.Length,
			})
		}
		if d.AudioClips == nil {
			d.AudioClips = []audioClipDoc{}
		}
		return trackDoc{AudioTrack: &d}

	default: // project.TrackMidi
		d := midiTrackDoc{commonTrackDoc: commonFromTrack(t)}
		for _, r := range t.Routings {
			d.Routings = append(d.Routings, routingDoc{TargetTrackID: r.TargetTrackID})
		}
		if d.Routings == nil {
			d.Routings = []routingDoc{}
		}
		return trackDoc{MidiTrack: &d}
	}
}

func fromTrackDoc(d trackDoc) (*project.Track, error) {
	switch {
	case d.InstrumentTrack != nil:
		it := d.InstrumentTrack
		t := commonToTrack(project.TrackInstrument, it.commonTrackDoc)
		if it.Instrument != nil {
			t.Instrument = fromPluginDoc(*it.Instrument)
		}
		for _, pd := range it.Effects {
			t.Effects = append(t.Effects, fromPluginDoc(pd))
		}
		for _, rd := range it.Riffs {
			t.AddRiff(fromRiffDoc(rd))
		}
		for _, rrd := range it.RiffReferences {
			if err := t.AddRiffReference(&project.RiffReference{
				ID: rrd.ID, LinkedTo: rrd.LinkedTo, Position: rrd.Position,
			}); err != nil {
				return nil, err
			}
		}
		for _, ld := range it.AutomationLanes {
			t.AutomationLanes[ld.ParamID] = fromAutomationLaneDoc(ld)
		}
		for _, rd := range it.Routings {
			t.Routings = append(t.Routings, project.Routing{TargetTrackID: rd.TargetTrackID})
		}
		return t, nil

	case d.AudioTrack != nil:
		at := d.AudioTrack
		t := commonToTrack(project.TrackAudio, at.commonTrackDoc)
		for _, cd := range at.AudioClips {
			t.AudioClips = append(t.AudioClips, &project.AudioClip{
				ID: cd.ID, SampleID: cd.SampleID, Position: cd.Position, Length: cd.Length,
			})
		}
		return t, nil

	case d.MidiTrack != nil:
		mt := d.MidiTrack
		t := commonToTrack(project.TrackMidi, mt.commonTrackDoc)
		for _, rd := range mt.Routings {
			t.Routings = append(t.Routings, project.Routing{TargetTrackID: rd.TargetTrackID})
		}
		return t, nil

	default:
		return nil, fmt.Errorf("persistence: track document has no recognised variant")
	}
}

func toAutomationLaneDoc(l *project.AutomationLane) automationLaneDoc {
	d := automationLaneDoc{ParamID: l.ParamID, Continuous: l.Continuous}
	for _, p := range l.Points {
		d.Points = append(d.Points, automationPtDoc{Beat: p.Beat, Value: p.Value})
	}
	if d.Points == nil {
		d.Points = []automationPtDoc{}
	}
	return d
}

func fromAutomationLaneDoc(d automationLaneDoc) *project.AutomationLane {
	l := &project.AutomationLane{ParamID: d.ParamID, Continuous: d.Continuous}
	for _, p := range d.Points {
		l.Points = append(l.Points, project.AutomationPoint{Beat: p.Beat, Value: p.Value})
	}
	return l
}
