package scheduler

import (
	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/units"
)

// emitRiffWindow pushes every riff event whose absolute beat position
// falls inside [localStart, localEnd) of riff-local time into buf, having
// translated it to the block's sample-domain offset. absBase is the
// absolute beat corresponding to localStart, so an event at riff-local
// beat p maps to absolute beat absBase+(p-localStart).
func emitRiffWindow(
	buf *event.Buffer,
	interval units.BlockInterval,
	tempo, sampleRate float64,
	riff *project.Riff,
	localStart, localEnd, absBase float64,
) error {
	for _, ev := range riff.Events {
		startsInside := ev.Position >= localStart && ev.Position < localEnd
		endBeat := ev.Position + ev.Duration

		if startsInside {
			absBeat := absBase + (ev.Position - localStart)
			if err := pushRiffEvent(buf, interval, tempo, sampleRate, ev, absBeat, false); err != nil {
				return err
			}
		}

		// A note that started before this window but whose sustain ends
		// inside it still needs its matching NoteOff emitted here.
		if ev.Kind == project.RiffEventNote && !startsInside && endBeat >= localStart && endBeat < localEnd {
			absBeat := absBase + (endBeat - localStart)
			if err := pushRiffEvent(buf, interval, tempo, sampleRate, ev, absBeat, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// pushRiffEvent converts one riff-domain event into its sample-domain
// event.Event and pushes it. offOnly forces a NoteEvent's kind to
// KindNoteOff regardless of its own duration (used for the trailing
// NoteOff of a note whose start already scheduled in an earlier block).
func pushRiffEvent(
	buf *event.Buffer,
	interval units.BlockInterval,
	tempo, sampleRate float64,
	ev project.RiffEvent,
	absBeat float64,
	offOnly bool,
) error {
	offset := units.SampleOffsetForBeat(interval, absBeat, tempo, sampleRate)

	switch ev.Kind {
	case project.RiffEventNote:
		if offOnly {
			return buf.Push(&event.NoteEvent{
				Header:   event.Header{BlockIndex: interval.BlockIndex, SampleOffset: uint32(offset), Kind: event.KindNoteOff},
				NoteID:   -1,
				Key:      int16(ev.Note),
				Velocity: 0,
			})
		}
		if err := buf.Push(&event.NoteEvent{
			Header:   event.Header{BlockIndex: interval.BlockIndex, SampleOffset: uint32(offset), Kind: event.KindNoteOn},
			NoteID:   -1,
			Key:      int16(ev.Note),
			Velocity: float64(ev.Velocity) / 127.0,
			Duration: ev.Duration,
		}); err != nil {
			return err
		}
		// If the note's own end falls in this same window, emit its
		// NoteOff right away rather than waiting for a future block.
		endBeat := absBeat + ev.Duration
		if endBeat > absBeat && units.InInterval(endBeat, interval.BeatStart, interval.BeatEnd) {
			endOffset := units.SampleOffsetForBeat(interval, endBeat, tempo, sampleRate)
			return buf.Push(&event.NoteEvent{
				Header:   event.Header{BlockIndex: interval.BlockIndex, SampleOffset: uint32(endOffset), Kind: event.KindNoteOff},
				NoteID:   -1,
				Key:      int16(ev.Note),
				Velocity: 0,
			})
		}
		return nil

	case project.RiffEventController:
		return buf.Push(&event.ControllerEvent{
			Header: event.Header{BlockIndex: interval.BlockIndex, SampleOffset: uint32(offset), Kind: event.KindController},
			Number: int16(ev.Controller),
			Value:  float64(ev.CCValue) / 127.0,
		})

	case project.RiffEventPitchBend:
		return buf.Push(&event.PitchBendEvent{
			Header: event.Header{BlockIndex: interval.BlockIndex, SampleOffset: uint32(offset), Kind: event.KindPitchBend},
			Value:  ev.PitchBend,
		})

	case project.RiffEventKeyPressure:
		return buf.Push(&event.NoteEvent{
			Header:   event.Header{BlockIndex: interval.BlockIndex, SampleOffset: uint32(offset), Kind: event.KindKeyPressure},
			NoteID:   -1,
			Key:      int16(ev.Note),
			Velocity: float64(ev.Velocity) / 127.0,
		})

	default: // project.RiffEventNoteExpression
		return buf.Push(&event.NoteExpressionEvent{
			Header:       event.Header{BlockIndex: interval.BlockIndex, SampleOffset: uint32(offset), Kind: event.KindNoteExpression},
			ExpressionID: ev.ExpressionType,
			NoteID:       -1,
			Value:        ev.ExpressionVal,
		})
	}
}
