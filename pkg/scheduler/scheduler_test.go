package scheduler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/transport"
	"github.com/khremeviuc1004/riff-daw/pkg/units"
)

const (
	testTempo      = 120.0
	testSampleRate = 44100.0
	testBlockSize  = 512
)

func newTestSong() *project.Song {
	return project.NewSong("test", testTempo, testSampleRate, testBlockSize)
}

func noteRiff(length float64, notes ...project.RiffEvent) *project.Riff {
	r := project.NewRiff("riff", length)
	for _, n := range notes {
		r.AddEvent(n)
	}
	return r
}

func snapshotFor(mode transport.PlayMode, beat float64, auditioned uuid.UUID) transport.Snapshot {
	sample := units.BeatsToSamples(beat, testTempo, testSampleRate)
	return transport.Snapshot{
		State:         transport.StatePlaying,
		Mode:          mode,
		CurrentBeat:   beat,
		CurrentSample: int64(sample),
		AuditionedID:  auditioned,
	}
}

func blockIndexForBeat(beat float64) uint64 {
	sample := units.BeatsToSamples(beat, testTempo, testSampleRate)
	return uint64(sample) / uint64(testBlockSize)
}

func TestSongArrangementSchedulesNoteOnAtReferencePosition(t *testing.T) {
	song := newTestSong()
	track := project.NewTrack(project.TrackInstrument, "lead")
	riff := noteRiff(4, project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 60, Velocity: 100, Duration: 1})
	track.AddRiff(riff)
	require.NoError(t, track.AddRiffReference(project.NewRiffReference(riff.ID, 0)))
	require.NoError(t, song.AddTrack(track))

	sched := New(song, nil)
	buf := event.NewBuffer(32)
	buffers := map[uuid.UUID]*event.Buffer{track.ID: buf}

	snap := snapshotFor(transport.PlayModeSongArrangement, 0, uuid.UUID{})
	require.NoError(t, sched.TopUp(buffers, 0, snap))

	drained := buf.DrainBlock(0)
	require.NotEmpty(t, drained)
	noteOn, ok := drained[0].(*event.NoteEvent)
	require.True(t, ok)
	assert.Equal(t, event.KindNoteOn, noteOn.Header.Kind)
	assert.Equal(t, int16(60), noteOn.Key)
}

func TestUnknownRiffReferenceIsSkipped(t *testing.T) {
	song := newTestSong()
	track := project.NewTrack(project.TrackInstrument, "lead")
	track.RiffReferences = append(track.RiffReferences, project.NewRiffReference(uuid.New(), 0))
	require.NoError(t, song.AddTrack(track))

	sched := New(song, nil)
	buf := event.NewBuffer(32)
	buffers := map[uuid.UUID]*event.Buffer{track.ID: buf}

	snap := snapshotFor(transport.PlayModeSongArrangement, 0, uuid.UUID{})
	require.NoError(t, sched.TopUp(buffers, 0, snap))
	assert.Empty(t, buf.DrainBlock(0))
}

func TestZeroLengthRiffIsNeverScheduled(t *testing.T) {
	song := newTestSong()
	track := project.NewTrack(project.TrackInstrument, "lead")
	riff := noteRiff(0, project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 60, Velocity: 100, Duration: 1})
	track.AddRiff(riff)
	track.RiffReferences = append(track.RiffReferences, project.NewRiffReference(riff.ID, 0))
	require.NoError(t, song.AddTrack(track))

	sched := New(song, nil)
	buf := event.NewBuffer(32)
	buffers := map[uuid.UUID]*event.Buffer{track.ID: buf}

	snap := snapshotFor(transport.PlayModeSongArrangement, 0, uuid.UUID{})
	require.NoError(t, sched.TopUp(buffers, 0, snap))
	assert.Empty(t, buf.DrainBlock(0))
}

func TestRiffSetModeWrapsAroundLoopLength(t *testing.T) {
	song := newTestSong()
	track := project.NewTrack(project.TrackInstrument, "lead")
	riff := noteRiff(2, project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 64, Velocity: 90, Duration: 0.5})
	track.AddRiff(riff)
	require.NoError(t, song.AddTrack(track))

	rs := project.NewRiffSet("set")
	rs.Mapping[track.ID] = riff.ID
	song.RiffSets = append(song.RiffSets, rs)

	sched := New(song, nil)
	buf := event.NewBuffer(32)
	buffers := map[uuid.UUID]*event.Buffer{track.ID: buf}

	// Second pass through the 2-beat loop starts at beat 2; the note at
	// riff-local beat 0 should reappear there.
	blockIdx := blockIndexForBeat(2)
	snap := snapshotFor(transport.PlayModeRiffSet, 2, rs.ID)
	require.NoError(t, sched.TopUp(buffers, blockIdx, snap))

	drained := buf.DrainBlock(blockIdx)
	require.NotEmpty(t, drained)
	noteOn, ok := drained[0].(*event.NoteEvent)
	require.True(t, ok)
	assert.Equal(t, event.KindNoteOn, noteOn.Header.Kind)
}

func TestRiffSequenceConcatenatesRiffSets(t *testing.T) {
	song := newTestSong()
	track := project.NewTrack(project.TrackInstrument, "lead")
	riffA := noteRiff(2, project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 60, Velocity: 100, Duration: 0.5})
	riffB := noteRiff(2, project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 67, Velocity: 100, Duration: 0.5})
	track.AddRiff(riffA)
	track.AddRiff(riffB)
	require.NoError(t, song.AddTrack(track))

	rsA := project.NewRiffSet("a")
	rsA.Mapping[track.ID] = riffA.ID
	rsB := project.NewRiffSet("b")
	rsB.Mapping[track.ID] = riffB.ID
	song.RiffSets = append(song.RiffSets, rsA, rsB)

	seq := project.NewRiffSequence("seq")
	seq.RiffSets = []uuid.UUID{rsA.ID, rsB.ID}
	song.RiffSequences = append(song.RiffSequences, seq)

	sched := New(song, nil)
	buf := event.NewBuffer(32)
	buffers := map[uuid.UUID]*event.Buffer{track.ID: buf}

	// rsB occupies beats [2,4); its note-on should land there, not rsA's.
	blockIdx := blockIndexForBeat(2)
	snap := snapshotFor(transport.PlayModeRiffSequence, 2, seq.ID)
	require.NoError(t, sched.TopUp(buffers, blockIdx, snap))

	drained := buf.DrainBlock(blockIdx)
	require.NotEmpty(t, drained)
	noteOn, ok := drained[0].(*event.NoteEvent)
	require.True(t, ok)
	assert.Equal(t, int16(67), noteOn.Key)
}

func TestLoopRangeConfinesPlaybackToLoopWindow(t *testing.T) {
	song := newTestSong()
	track := project.NewTrack(project.TrackInstrument, "lead")
	// One riff reference outside the loop window, one inside.
	outside := noteRiff(1, project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 50, Velocity: 100, Duration: 0.5})
	inside := noteRiff(1, project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 55, Velocity: 100, Duration: 0.5})
	track.AddRiff(outside)
	track.AddRiff(inside)
	require.NoError(t, track.AddRiffReference(project.NewRiffReference(outside.ID, 0)))
	require.NoError(t, track.AddRiffReference(project.NewRiffReference(inside.ID, 8)))
	require.NoError(t, song.AddTrack(track))

	sched := New(song, nil)
	buf := event.NewBuffer(32)
	buffers := map[uuid.UUID]*event.Buffer{track.ID: buf}

	snap := snapshotFor(transport.PlayModeLoopRange, 8, uuid.UUID{})
	snap.HasLoop = true
	snap.LoopStart = 8
	snap.LoopEnd = 10

	blockIdx := blockIndexForBeat(8)
	require.NoError(t, sched.TopUp(buffers, blockIdx, snap))

	drained := buf.DrainBlock(blockIdx)
	require.NotEmpty(t, drained)
	noteOn, ok := drained[0].(*event.NoteEvent)
	require.True(t, ok)
	assert.Equal(t, int16(55), noteOn.Key)
}

func TestAutomationLaneEmitsParameterAtBlockStart(t *testing.T) {
	song := newTestSong()
	track := project.NewTrack(project.TrackInstrument, "lead")
	lane := &project.AutomationLane{
		ParamID:    7,
		Continuous: false,
		Points:     []project.AutomationPoint{{Beat: 0, Value: 0.25}},
	}
	track.AutomationLanes[7] = lane
	require.NoError(t, song.AddTrack(track))

	sched := New(song, nil)
	buf := event.NewBuffer(32)
	buffers := map[uuid.UUID]*event.Buffer{track.ID: buf}

	snap := snapshotFor(transport.PlayModeSongArrangement, 0, uuid.UUID{})
	require.NoError(t, sched.TopUp(buffers, 0, snap))

	drained := buf.DrainBlock(0)
	require.NotEmpty(t, drained)
	param, ok := drained[0].(*event.ParameterEvent)
	require.True(t, ok)
	assert.Equal(t, uint32(7), param.ParamID)
	assert.InDelta(t, 0.25, param.Value, 1e-9)
}
