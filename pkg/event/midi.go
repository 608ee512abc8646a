package event

import (
	"gitlab.com/gomidi/midi/v2"
)

// ToVST2 converts a host-side Event into the raw MIDI 1.0 byte stream a
// VST2 instance expects on its event queue, per §4.1: "for VST2, they are
// converted to a raw MIDI event stream". Events with no MIDI 1.0
// representation (Parameter, NoteExpression) return ok=false — the VST2
// adapter maps those through a different path (direct parameter setters).
func ToVST2(e Event) (msg midi.Message, ok bool) {
	switch ev := e.(type) {
	case *NoteEvent:
		ch := clampChannel(ev.Channel)
		key := clampKey(ev.Key)
		vel := velocityByte(ev.Velocity)
		switch ev.Header.Kind {
		case KindNoteOn:
			return midi.NoteOn(ch, key, vel), true
		case KindNoteOff:
			return midi.NoteOff(ch, key), true
		case KindKeyPressure:
			return midi.AfterTouch(ch, vel), true
		}
	case *ControllerEvent:
		ch := clampChannel(ev.Channel)
		cc := uint8(ev.Number)
		val := velocityByte(ev.Value)
		return midi.ControlChange(ch, cc, val), true
	case *PitchBendEvent:
		ch := clampChannel(ev.Channel)
		rel := int16(ev.Value * 8191.0)
		return midi.Pitchbend(ch, rel), true
	}
	return nil, false
}

func clampChannel(ch int16) uint8 {
	if ch < 0 {
		return 0
	}
	if ch > 15 {
		return 15
	}
	return uint8(ch)
}

func clampKey(key int16) uint8 {
	if key < 0 {
		return 0
	}
	if key > 127 {
		return 127
	}
	return uint8(key)
}

func velocityByte(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 127.0)
}

// FromVST2Note decodes a raw MIDI 1.0 note-on/note-off message back into a
// NoteEvent. It is used when a VST2 instance emits MIDI output (e.g. an
// arpeggiator plugin) that the engine must route onward.
func FromVST2Note(msg midi.Message, port int16) (*NoteEvent, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		kind := KindNoteOn
		if vel == 0 {
			kind = KindNoteOff
		}
		return &NoteEvent{
			Header:   Header{Kind: kind},
			NoteID:   -1,
			Port:     port,
			Channel:  int16(ch),
			Key:      int16(key),
			Velocity: float64(vel) / 127.0,
		}, true
	case msg.GetNoteOff(&ch, &key, &vel):
		return &NoteEvent{
			Header:   Header{Kind: KindNoteOff},
			NoteID:   -1,
			Port:     port,
			Channel:  int16(ch),
			Key:      int16(key),
			Velocity: float64(vel) / 127.0,
		}, true
	}
	return nil, false
}
