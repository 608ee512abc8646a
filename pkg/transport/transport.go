// Package transport implements §4.4's playback state machine: Stopped and
// Playing states, the Play/Stop/Seek transitions between them, and the
// read-only atomic position snapshot the UI polls.
//
// The state machine shape follows the teacher's plugin lifecycle pattern
// (pkg/plugin/interface.go's explicit-error PluginV2 transitions) generalized
// from a 4-state plugin lifecycle to transport's 2-state one.
package transport

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
	"github.com/khremeviuc1004/riff-daw/pkg/units"
)

// PlayMode selects which of §4.3's five scheduling modes governs playback.
type PlayMode uint8

const (
	PlayModeSongArrangement PlayMode = iota
	PlayModeRiffSet
	PlayModeRiffSequence
	PlayModeRiffArrangement
	PlayModeLoopRange
)

// State is a position in the transport's two-state machine.
type State uint8

const (
	StateStopped State = iota
	StatePlaying
)

func (s State) String() string {
	if s == StatePlaying {
		return "Playing"
	}
	return "Stopped"
}

// Snapshot is the read-only view the UI polls (§4.4): current beat,
// current bar, current play mode. It is a plain value type, copied out of
// the transport's atomics, never shared by reference.
type Snapshot struct {
	State         State
	Mode          PlayMode
	CurrentBeat   float64
	CurrentBar    uint32
	CurrentSample int64
	// AuditionedID is the UUID of whichever RiffSet, RiffSequence or
	// RiffArrangement the current Mode plays, or the zero UUID in
	// SongArrangement/LoopRange modes, which have no single auditioned
	// object.
	AuditionedID uuid.UUID
	HasLoop      bool
	LoopStart    float64
	LoopEnd      float64
}

// AllNotesOffFunc is invoked on every Stop and before every Seek so the
// caller can push an all-notes-off event for each active track before the
// position actually moves.
type AllNotesOffFunc func()

// Transport holds the playback position and state machine. SamplesPerBeat
// and the time signature's beats-per-bar are fixed at construction,
// matching §3's invariant that sample rate is fixed for a session.
type Transport struct {
	mu sync.Mutex

	tempo          float64
	sampleRate     float64
	beatsPerBar    float64
	onAllNotesOff  AllNotesOffFunc

	state atomic.Uint32 // State
	mode  atomic.Uint32 // PlayMode

	currentSample atomic.Int64
	loopStart     atomic.Uint64 // float64 bits; valid only with hasLoop
	loopEnd       atomic.Uint64
	hasLoop       atomic.Bool
	auditioned    atomic.Value // uuid.UUID
}

// New constructs a stopped transport for a session running at sampleRate
// with the given tempo and beats-per-bar (time signature numerator).
func New(sampleRate, tempo float64, beatsPerBar uint32, onAllNotesOff AllNotesOffFunc) *Transport {
	if beatsPerBar == 0 {
		beatsPerBar = 4
	}
	return &Transport{
		tempo:         tempo,
		sampleRate:    sampleRate,
		beatsPerBar:   float64(beatsPerBar),
		onAllNotesOff: onAllNotesOff,
	}
}

// State reports the current playback state.
func (t *Transport) State() State {
	return State(t.state.Load())
}

// Play transitions Stopped -> Playing. fromPosition, in samples, becomes
// the new playback position; if the transport is already Playing this is
// a no-op (use Seek to relocate while playing).
func (t *Transport) Play(mode PlayMode, fromPosition int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if State(t.state.Load()) == StatePlaying {
		return nil
	}
	t.mode.Store(uint32(mode))
	t.currentSample.Store(fromPosition)
	t.state.Store(uint32(StatePlaying))
	return nil
}

// Stop transitions Playing -> Stopped, emitting an all-notes-off for every
// active track before returning. No-op if already Stopped.
func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if State(t.state.Load()) == StateStopped {
		return nil
	}
	if t.onAllNotesOff != nil {
		t.onAllNotesOff()
	}
	t.state.Store(uint32(StateStopped))
	return nil
}

// Seek relocates playback to position (in samples) while remaining in
// Playing, emitting an all-notes-off first. Legal only while Playing.
func (t *Transport) Seek(position int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if State(t.state.Load()) != StatePlaying {
		return fdawerr.Wrap(fdawerr.KindTransport, fdawerr.ErrInvalidState)
	}
	if t.onAllNotesOff != nil {
		t.onAllNotesOff()
	}
	t.currentSample.Store(position)
	return nil
}

// SetLoop installs the loop range LoopRange mode confines playback to.
// Leaving it unset (never calling SetLoop, or calling ClearLoop) leaves
// other modes unaffected.
func (t *Transport) SetLoop(startBeat, endBeat float64) {
	t.loopStart.Store(floatBits(startBeat))
	t.loopEnd.Store(floatBits(endBeat))
	t.hasLoop.Store(true)
}

// ClearLoop removes any installed loop range.
func (t *Transport) ClearLoop() {
	t.hasLoop.Store(false)
}

// Advance moves the playback position forward by blockSize samples, called
// once per audio callback while Playing. If a loop range is installed and
// playback is in LoopRange mode, wrapping is handled by the caller (the
// engine), which must call SeekWrap to fold the position back rather
// than letting it run past loop.end; Advance itself never wraps.
func (t *Transport) Advance(blockSize int) {
	if State(t.state.Load()) != StatePlaying {
		return
	}
	t.currentSample.Add(int64(blockSize))
}

// SeekWrap folds the playback position back to the loop start without
// going through the Stop/Playing machinery and without requiring the
// Playing precondition Seek enforces; it still emits all-notes-off first,
// per §4.3's instruction that the wrap point must flush in-flight notes.
func (t *Transport) SeekWrap(position int64) {
	if t.onAllNotesOff != nil {
		t.onAllNotesOff()
	}
	t.currentSample.Store(position)
}

// Snapshot returns the current read-only position view.
func (t *Transport) Snapshot() Snapshot {
	sample := t.currentSample.Load()
	beat := units.SamplesToBeats(float64(sample), t.tempo, t.sampleRate)
	bar := uint32(0)
	if t.beatsPerBar > 0 {
		bar = uint32(beat/t.beatsPerBar) + 1
	}
	loopStart, loopEnd, hasLoop := t.Loop()
	return Snapshot{
		State:         State(t.state.Load()),
		Mode:          PlayMode(t.mode.Load()),
		CurrentBeat:   beat,
		CurrentBar:    bar,
		CurrentSample: sample,
		AuditionedID:  t.auditionedID(),
		HasLoop:       hasLoop,
		LoopStart:     loopStart,
		LoopEnd:       loopEnd,
	}
}

// Loop returns the installed loop range and whether one is set.
func (t *Transport) Loop() (start, end float64, ok bool) {
	if !t.hasLoop.Load() {
		return 0, 0, false
	}
	return bitsFloat(t.loopStart.Load()), bitsFloat(t.loopEnd.Load()), true
}

// SetAuditioned records which RiffSet, RiffSequence or RiffArrangement the
// current play mode plays. The Scheduler reads this on every block to
// resolve RiffSet/RiffSequence/RiffArrangement mode playback.
func (t *Transport) SetAuditioned(id uuid.UUID) {
	t.auditioned.Store(id)
}

func (t *Transport) auditionedID() uuid.UUID {
	if v := t.auditioned.Load(); v != nil {
		return v.(uuid.UUID)
	}
	return uuid.UUID{}
}
