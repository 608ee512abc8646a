package project

import (
	"github.com/google/uuid"
)

// RiffEventKind tags the five score-domain event shapes a Riff can carry.
// This is deliberately a separate vocabulary from event.Kind: riff events
// live in beat space and are keyed by (riff, position), where event.Kind
// values live in sample space and are keyed by (block, offset) once the
// Scheduler has materialised them.
type RiffEventKind uint8

const (
	RiffEventNote RiffEventKind = iota
	RiffEventController
	RiffEventPitchBend
	RiffEventKeyPressure
	RiffEventNoteExpression
)

// RiffEvent is one timed event inside a Riff, positioned in beats relative
// to the riff's own start.
type RiffEvent struct {
	Position float64
	Kind     RiffEventKind

	// Populated when Kind == RiffEventNote.
	Note     int32 // 0-127
	Velocity int32 // 0-127
	Duration float64

	// Populated when Kind == RiffEventController.
	Controller int32
	CCValue    int32

	// Populated when Kind == RiffEventPitchBend.
	PitchBend float64 // -1..+1

	// Populated when Kind == RiffEventNoteExpression.
	ExpressionType uint32
	ExpressionVal  float64
}

// Riff is §3's Riff entity: a bounded list of timed events with a length
// in beats.
type Riff struct {
	ID     uuid.UUID
	Name   string
	Length float64 // beats, positive
	Events []RiffEvent
}

// NewRiff constructs an empty riff of the given length.
func NewRiff(name string, length float64) *Riff {
	return &Riff{ID: uuid.New(), Name: name, Length: length}
}

// AddEvent appends an event, silently clamping a position that has drifted
// fractionally past Length back onto the boundary (§3's "one tick's
// rounding tolerance" allowance) rather than rejecting it outright.
func (r *Riff) AddEvent(e RiffEvent) {
	if e.Position >= r.Length {
		e.Position = r.Length
	}
	if e.Position < 0 {
		e.Position = 0
	}
	r.Events = append(r.Events, e)
}

// RiffReference places a Riff on a track's timeline (§3).
type RiffReference struct {
	ID       uuid.UUID
	LinkedTo uuid.UUID
	Position float64 // beats, >= 0
}

// NewRiffReference constructs a reference to riffID at the given position.
func NewRiffReference(riffID uuid.UUID, position float64) *RiffReference {
	return &RiffReference{ID: uuid.New(), LinkedTo: riffID, Position: position}
}
