package event

import (
	"sync/atomic"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
)

// Buffer is the bounded, single-producer single-consumer per-track queue
// described in §4.2. The Scheduler (producer) pushes events for upcoming
// blocks; the Audio Graph (consumer) drains everything belonging to the
// current block before calling process on the track's instrument.
//
// It is a plain ring over a fixed-capacity slice rather than a linked
// structure, in the spirit of the teacher's event.Pool design: Push never
// allocates. DrainBlock returns a newly allocated slice on every call that
// finds at least one event for the block.
type Buffer struct {
	items    []Event
	head     uint64 // next read index (consumer-owned)
	tail     uint64 // next write index (producer-owned)
	capacity uint64
	sequence uint64 // monotonically increasing, assigned at Push time
}

// NewBuffer creates a Buffer with room for capacity events. Capacity must
// exceed the maximum events any single block can carry — §4.2 treats
// overflow as a fatal scheduling bug, never a silent drop.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		items:    make([]Event, capacity),
		capacity: uint64(capacity),
	}
}

// Push enqueues an event, stamping it with the next sequence number.
// It returns fdawerr.ErrEventOverflow if the buffer is full — the caller
// (the Scheduler) must treat this as fatal per §4.2, not drop the event.
func (b *Buffer) Push(e Event) error {
	used := b.tail - b.head
	if used >= b.capacity {
		return fdawerr.Wrap(fdawerr.KindScheduling, fdawerr.ErrEventOverflow)
	}
	e.GetHeader().Sequence = atomic.AddUint64(&b.sequence, 1)
	b.items[b.tail%b.capacity] = e
	b.tail++
	return nil
}

// DrainBlock removes and returns, in (sample_offset, kind priority,
// sequence) order, every queued event whose BlockIndex equals blockIndex.
// Events for later blocks are left in place. The Audio Graph calls this
// once per track per block before running the instrument.
func (b *Buffer) DrainBlock(blockIndex uint64) []Event {
	var out []Event
	for b.head < b.tail {
		e := b.items[b.head%b.capacity]
		if e.GetHeader().BlockIndex != blockIndex {
			break
		}
		out = append(out, e)
		b.items[b.head%b.capacity] = nil
		b.head++
	}
	sortEvents(out)
	return out
}

// Len reports the number of events currently queued (across all blocks).
func (b *Buffer) Len() int {
	return int(b.tail - b.head)
}

// Clear discards every queued event, used when the Transport stops or
// seeks and pending future-block events must be dropped (§5 Cancellation).
func (b *Buffer) Clear() {
	for b.head < b.tail {
		b.items[b.head%b.capacity] = nil
		b.head++
	}
}

// sortEvents performs an insertion sort — the slice is always short (at
// most a handful of events per track per block) and already nearly
// ordered by push order, so this never allocates and stays O(n) in
// practice without reaching for sort.Slice's reflection-based interface.
func sortEvents(events []Event) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && Less(events[j], events[j-1]); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}
