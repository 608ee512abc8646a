package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTrackRejectsDuplicateID(t *testing.T) {
	s := NewSong("demo", 120, 44100, 256)
	tr := NewTrack(TrackInstrument, "Lead")
	require.NoError(t, s.AddTrack(tr))
	assert.Error(t, s.AddTrack(tr))
}

func TestRemoveUnknownTrackFails(t *testing.T) {
	s := NewSong("demo", 120, 44100, 256)
	assert.Error(t, s.RemoveTrack(NewTrack(TrackInstrument, "ghost").ID))
}

func TestAddRiffReferenceValidatesOwnership(t *testing.T) {
	tr := NewTrack(TrackInstrument, "Lead")
	riff := NewRiff("verse", 16)
	tr.AddRiff(riff)

	ref := NewRiffReference(riff.ID, 0)
	require.NoError(t, tr.AddRiffReference(ref))

	unrelated := NewRiffReference(NewRiff("orphan", 4).ID, 4)
	assert.Error(t, tr.AddRiffReference(unrelated))

	negative := NewRiffReference(riff.ID, -1)
	assert.Error(t, tr.AddRiffReference(negative))
}

func TestRiffAddEventClampsPositionToLength(t *testing.T) {
	r := NewRiff("clamped", 4)
	r.AddEvent(RiffEvent{Position: 4.5, Kind: RiffEventNote, Note: 60, Velocity: 100})
	assert.Equal(t, 4.0, r.Events[0].Position)
}

func TestAutomationLaneSteppedHoldsValue(t *testing.T) {
	lane := &AutomationLane{
		ParamID: 1,
		Points: []AutomationPoint{
			{Beat: 0, Value: 0.0},
			{Beat: 4, Value: 1.0},
		},
	}
	v, ok := lane.ValueAt(2)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	v, ok = lane.ValueAt(4)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = lane.ValueAt(-1)
	assert.False(t, ok)
}

func TestAutomationLaneContinuousInterpolates(t *testing.T) {
	lane := &AutomationLane{
		ParamID:    1,
		Continuous: true,
		Points: []AutomationPoint{
			{Beat: 0, Value: 0.0},
			{Beat: 4, Value: 1.0},
		},
	}
	v, ok := lane.ValueAt(2)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestRiffSetMapsTracksToRiffs(t *testing.T) {
	tr := NewTrack(TrackInstrument, "Lead")
	riff := NewRiff("verse", 8)
	rs := NewRiffSet("A")
	rs.Mapping[tr.ID] = riff.ID
	assert.Equal(t, riff.ID, rs.Mapping[tr.ID])
}
