// Package event defines the plugin event model the engine pushes into
// hosted instrument and effect instances each audio block, and the
// per-track queue (§4.2) that carries them from the Scheduler to the
// Audio Graph.
//
// The shape mirrors the teacher's CLAP event package (Header + typed
// payload structs + a Handler interface) because the event vocabulary is
// direction-agnostic: the same Note/Controller/PitchBend/Parameter/
// NoteExpression data crosses the host/plugin boundary whichever side
// produces it.
package event

// Kind identifies one of the seven event kinds named in §4.1.
type Kind uint8

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindKeyPressure
	KindController
	KindPitchBend
	KindParameter
	KindNoteExpression
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "NoteOn"
	case KindNoteOff:
		return "NoteOff"
	case KindKeyPressure:
		return "KeyPressure"
	case KindController:
		return "Controller"
	case KindPitchBend:
		return "PitchBend"
	case KindParameter:
		return "Parameter"
	case KindNoteExpression:
		return "NoteExpression"
	default:
		return "Unknown"
	}
}

// kindPriority orders events that share a sample offset, per §4.3's
// tie-break rule: note-off before note-on, controllers/parameters before
// notes, and stable insertion order within a kind.
var kindPriority = map[Kind]int{
	KindNoteOff:        0,
	KindController:     1,
	KindParameter:      1,
	KindPitchBend:      1,
	KindKeyPressure:    1,
	KindNoteExpression: 1,
	KindNoteOn:         2,
}

// Priority returns the tie-break priority for the event's kind; lower
// sorts first.
func (k Kind) Priority() int { return kindPriority[k] }

// Header carries the metadata common to every event: which block it
// belongs to, its in-block sample offset, and a monotonically increasing
// sequence number used as the final tie-break key (block_index,
// sample_offset, sequence_number) from §4.2.
type Header struct {
	BlockIndex   uint64
	SampleOffset uint32 // 0..block_size-1
	Sequence     uint64
	Kind         Kind
}

// Event is satisfied by every concrete event payload.
type Event interface {
	GetHeader() *Header
}

// Less orders two events by (block_index, sample_offset, kind priority,
// sequence_number), matching §4.2/§4.3.
func Less(a, b Event) bool {
	ha, hb := a.GetHeader(), b.GetHeader()
	if ha.BlockIndex != hb.BlockIndex {
		return ha.BlockIndex < hb.BlockIndex
	}
	if ha.SampleOffset != hb.SampleOffset {
		return ha.SampleOffset < hb.SampleOffset
	}
	if pa, pb := ha.Kind.Priority(), hb.Kind.Priority(); pa != pb {
		return pa < pb
	}
	return ha.Sequence < hb.Sequence
}

// NoteEvent represents a NoteOn, NoteOff or KeyPressure (after-touch) event.
type NoteEvent struct {
	Header   Header
	NoteID   int32 // -1 if the host has not assigned a stable note id
	Port     int16
	Channel  int16
	Key      int16 // 0-127
	Velocity float64
	Duration float64 // beats; only meaningful for NoteOn, used by the Scheduler to compute the matching NoteOff
}

func (e *NoteEvent) GetHeader() *Header { return &e.Header }

// ControllerEvent represents a MIDI-style controller change.
type ControllerEvent struct {
	Header  Header
	Port    int16
	Channel int16
	Number  int16 // controller number, 0-127
	Value   float64
}

func (e *ControllerEvent) GetHeader() *Header { return &e.Header }

// PitchBendEvent represents a pitch-bend change.
type PitchBendEvent struct {
	Header  Header
	Port    int16
	Channel int16
	Value   float64 // -1..+1
}

func (e *PitchBendEvent) GetHeader() *Header { return &e.Header }

// ParameterEvent represents a parameter value point, either from
// automation or a live UI edit.
type ParameterEvent struct {
	Header  Header
	ParamID uint32
	Value   float64 // normalised 0..1
}

func (e *ParameterEvent) GetHeader() *Header { return &e.Header }

// Note expression types, named the way CLAP and the teacher name them.
const (
	NoteExpressionVolume     uint32 = 0
	NoteExpressionPan        uint32 = 1
	NoteExpressionTuning     uint32 = 2
	NoteExpressionVibrato    uint32 = 3
	NoteExpressionExpression uint32 = 4
	NoteExpressionBrightness uint32 = 5
	NoteExpressionPressure   uint32 = 6
)

// NoteExpressionEvent represents a per-note expression change.
type NoteExpressionEvent struct {
	Header       Header
	ExpressionID uint32
	NoteID       int32
	Port         int16
	Channel      int16
	Key          int16
	Value        float64
}

func (e *NoteExpressionEvent) GetHeader() *Header { return &e.Header }

// Handler processes events with type-specific methods, for code (e.g. a
// test instrument backend) that wants to dispatch without a type switch.
type Handler interface {
	HandleNoteOn(e *NoteEvent)
	HandleNoteOff(e *NoteEvent)
	HandleKeyPressure(e *NoteEvent)
	HandleController(e *ControllerEvent)
	HandlePitchBend(e *PitchBendEvent)
	HandleParameter(e *ParameterEvent)
	HandleNoteExpression(e *NoteExpressionEvent)
}

// NoOpHandler provides default no-op implementations for every Handler
// method; embed it to implement only the events you care about.
type NoOpHandler struct{}

func (NoOpHandler) HandleNoteOn(*NoteEvent)                   {}
func (NoOpHandler) HandleNoteOff(*NoteEvent)                  {}
func (NoOpHandler) HandleKeyPressure(*NoteEvent)               {}
func (NoOpHandler) HandleController(*ControllerEvent)          {}
func (NoOpHandler) HandlePitchBend(*PitchBendEvent)            {}
func (NoOpHandler) HandleParameter(*ParameterEvent)            {}
func (NoOpHandler) HandleNoteExpression(*NoteExpressionEvent)  {}

// Dispatch calls the matching Handler method for e.
func Dispatch(h Handler, e Event) {
	switch ev := e.(type) {
	case *NoteEvent:
		switch ev.Header.Kind {
		case KindNoteOn:
			h.HandleNoteOn(ev)
		case KindNoteOff:
			h.HandleNoteOff(ev)
		case KindKeyPressure:
			h.HandleKeyPressure(ev)
		}
	case *ControllerEvent:
		h.HandleController(ev)
	case *PitchBendEvent:
		h.HandlePitchBend(ev)
	case *ParameterEvent:
		h.HandleParameter(ev)
	case *NoteExpressionEvent:
		h.HandleNoteExpression(ev)
	}
}
