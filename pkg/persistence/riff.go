package persistence

import (
	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

type riffDoc struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	Length float64    `json:"length"`
	Events []eventDoc `json:"events"`
}

type riffReferenceDoc struct {
	ID       uuid.UUID `json:"id"`
	LinkedTo uuid.UUID `json:"linked_to"`
	Position float64   `json:"position"`
}

// eventDoc is the §4.7 tagged-union event shape: an object with a single
// key naming the event kind, e.g. { "Note": { ... } }.
type eventDoc struct {
	Note           *noteEventDoc           `json:"Note,omitempty"`
	Controller     *controllerEventDoc     `json:"Controller,omitempty"`
	PitchBend      *pitchBendEventDoc      `json:"PitchBend,omitempty"`
	KeyPressure    *keyPressureEventDoc    `json:"KeyPressure,omitempty"`
	NoteExpression *noteExpressionEventDoc `json:"NoteExpression,omitempty"`
}

type noteEventDoc struct {
	Position float64 `json:"position"`
	Note     int32   `json:"note"`
	Velocity int32   `json:"velocity"`
	Length   float64 `json:"length"`
}

type controllerEventDoc struct {
	Position   float64 `json:"position"`
	Controller int32   `json:"controller"`
	Value      int32   `json:"value"`
}

type pitchBendEventDoc struct {
	Position float64 `json:"position"`
	Value    float64 `json:"value"`
}

type keyPressureEventDoc struct {
	Position float64 `json:"position"`
	Note     int32   `json:"note"`
	Pressure int32   `json:"pressure"`
}

type noteExpressionEventDoc struct {
	Position       float64 `json:"position"`
	ExpressionType uint32  `json:"expression_type"`
	Value          float64 `json:"value"`
}

func toRiffDoc(r *project.Riff) riffDoc {
	d := riffDoc{ID: r.ID, Name: r.Name, Length: r.Length}
	for _, e := range r.Events {
		d.Events = append(d.Events, toEventDoc(e))
	}
	if d.Events == nil {
		d.Events = []eventDoc{}
	}
	return d
}

func fromRiffDoc(d riffDoc) *project.Riff {
	r := project.NewRiff(d.Name, d.Length)
	r.ID = d.ID
	for _, ed := range d.Events {
		r.Events = append(r.Events, fromEventDoc(ed))
	}
	return r
}

func toEventDoc(e project.RiffEvent) eventDoc {
	switch e.Kind {
	case project.RiffEventNote:
		return eventDoc{Note: &noteEventDoc{
			Position: e.Position, Note: e.Note, Velocity: e.Velocity, Length: e.Duration,
		}}
	case project.RiffEventController:
		return eventDoc{Controller: &controllerEventDoc{
			Position: e.Position, Controller: e.Controller, Value: e.CCValue,
		}}
	case project.RiffEventPitchBend:
		return eventDoc{PitchBend: &pitchBendEventDoc{Position: e.Position, Value: e.PitchBend}}
	case project.RiffEventKeyPressure:
		return eventDoc{KeyPressure: &keyPressureEventDoc{
			Position: e.Position, Note: e.Note, Pressure: e.Velocity,
		}}
	default: // project.RiffEventNoteExpression
		return eventDoc{NoteExpression: &noteExpressionEventDoc{
			Position: e.Position, ExpressionType: e.ExpressionType, Value: e.ExpressionVal,
		}}
	}
}

func fromEventDoc(d eventDoc) project.RiffEvent {
	switch {
	case d.Note != nil:
		return project.RiffEvent{
			Position: d.Note.Position, Kind: project.RiffEventNote,
			Note: d.Note.Note, Velocity: d.Note.Velocity, Duration: d.Note.Length,
		}
	case d.Controller != nil:
		return project.RiffEvent{
			Position: d.Controller.Position, Kind: project.RiffEventController,
			Controller: d.Controller.Controller, CCValue: d.Controller.Value,
		}
	case d.PitchBend != nil:
		return project.RiffEvent{
			Position: d.PitchBend.Position, Kind: project.RiffEventPitchBend,
			PitchBend: d.PitchBend.Value,
		}
	case d.KeyPressure != nil:
		return project.RiffEvent{
			Position: d.KeyPressure.Position, Kind: project.RiffEventKeyPressure,
			Note: d.KeyPressure.Note, Velocity: d.KeyPressure.Pressure,
		}
	case d.NoteExpression != nil:
		return project.RiffEvent{
			Position: d.NoteExpression.Position, Kind: project.RiffEventNoteExpression,
			ExpressionType: d.NoteExpression.ExpressionType, ExpressionVal: d.NoteExpression.Value,
		}
	default:
		return project.RiffEvent{}
	}
}

func toRiffSetDoc(rs *project.RiffSet) riffSetDoc {
	d := riffSetDoc{ID: rs.ID, Name: rs.Name}
	for track, riff := range rs.Mapping {
		d.Mapping = append(d.Mapping, riffSetEntryDoc{TrackID: track, RiffID: riff})
	}
	if d.Mapping == nil {
		d.Mapping = []riffSetEntryDoc{}
	}
	return d
}

func fromRiffSetDoc(d riffSetDoc) *project.RiffSet {
	rs := project.NewRiffSet(d.Name)
	rs.ID = d.ID
	for _, e := range d.Mapping {
		rs.Mapping[e.TrackID] = e.RiffID
	}
	return rs
}

type riffSetDoc struct {
	ID      uuid.UUID         `json:"id"`
	Name    string            `json:"name"`
	Mapping []riffSetEntryDoc `json:"mapping"`
}

type riffSetEntryDoc struct {
	TrackID uuid.UUID `json:"track_id"`
	RiffID  uuid.UUID `json:"riff_id"`
}

type riffSeqDoc struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	RiffSets []uuid.UUID `json:"riff_sets"`
}

func toRiffSeqDoc(seq *project.RiffSequence) riffSeqDoc {
	d := riffSeqDoc{ID: seq.ID, Name: seq.Name, RiffSets: seq.RiffSets}
	if d.RiffSets == nil {
		d.RiffSets = []uuid.UUID{}
	}
	return d
}

func fromRiffSeqDoc(d riffSeqDoc) *project.RiffSequence {
	return &project.RiffSequence{ID: d.ID, Name: d.Name, RiffSets: d.RiffSets}
}

type arrangeItemDoc struct {
	Kind string    `json:"kind"` // "RiffSet" or "RiffSequence"
	ID   uuid.UUID `json:"id"`
}

type arrangeDoc struct {
	ID    uuid.UUID        `json:"id"`
	Name  string           `json:"name"`
	Items []arrangeItemDoc `json:"items"`
}

func toArrangeDoc(a *project.RiffArrangement) arrangeDoc {
	d := arrangeDoc{ID: a.ID, Name: a.Name}
	for _, item := range a.Items {
		kind := "RiffSet"
		if item.Kind == project.ArrangementItemRiffSequence {
			kind = "RiffSequence"
		}
		d.Items = append(d.Items, arrangeItemDoc{Kind: kind, ID: item.ID})
	}
	if d.Items == nil {
		d.Items = []arrangeItemDoc{}
	}
	return d
}

func fromArrangeDoc(d arrangeDoc) *project.RiffArrangement {
	a := project.NewRiffArrangement(d.Name)
	a.ID = d.ID
	for _, item := range d.Items {
		kind := project.ArrangementItemRiffSet
		if item.Kind == "RiffSequence" {
			kind = project.ArrangementItemRiffSequence
		}
		a.Items = append(a.Items, project.ArrangementItem{Kind: kind, ID: item.ID})
	}
	return a
}
