package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayStopEmitsAllNotesOff(t *testing.T) {
	calls := 0
	tr := New(44100, 120, 4, func() { calls++ })

	require.NoError(t, tr.Play(PlayModeSongArrangement, 0))
	assert.Equal(t, StatePlaying, tr.State())
	assert.Equal(t, 0, calls)

	require.NoError(t, tr.Stop())
	assert.Equal(t, StateStopped, tr.State())
	assert.Equal(t, 1, calls)
}

func TestSeekRequiresPlaying(t *testing.T) {
	tr := New(44100, 120, 4, nil)
	assert.Error(t, tr.Seek(1000))

	require.NoError(t, tr.Play(PlayModeSongArrangement, 0))
	assert.NoError(t, tr.Seek(1000))
}

func TestSeekEmitsAllNotesOffBeforeMoving(t *testing.T) {
	var sampleAtCallback int64 = -1
	tr := New(44100, 120, 4, func() {
		sampleAtCallback = tr.Snapshot().CurrentSample
	})
	require.NoError(t, tr.Play(PlayModeSongArrangement, 0))
	tr.Advance(512)

	require.NoError(t, tr.Seek(9999))
	assert.Equal(t, int64(512), sampleAtCallback)
	assert.Equal(t, int64(9999), tr.Snapshot().CurrentSample)
}

func TestAdvanceOnlyMovesWhilePlaying(t *testing.T) {
	tr := New(44100, 120, 4, nil)
	tr.Advance(256)
	assert.Equal(t, int64(0), tr.Snapshot().CurrentSample)

	require.NoError(t, tr.Play(PlayModeSongArrangement, 0))
	tr.Advance(256)
	assert.Equal(t, int64(256), tr.Snapshot().CurrentSample)
}

func TestSnapshotDerivesBeatAndBar(t *testing.T) {
	tr := New(44100, 120, 4, nil)
	require.NoError(t, tr.Play(PlayModeSongArrangement, 0))

	samplesPerBeat := 44100.0 * 60.0 / 120.0
	tr.Advance(int(samplesPerBeat) * 8) // two bars at 4 beats/bar

	snap := tr.Snapshot()
	assert.InDelta(t, 8.0, snap.CurrentBeat, 0.01)
	assert.Equal(t, uint32(3), snap.CurrentBar)
}

func TestLoopRangeRoundTrip(t *testing.T) {
	tr := New(44100, 120, 4, nil)
	_, _, ok := tr.Loop()
	assert.False(t, ok)

	tr.SetLoop(0, 8)
	start, end, ok := tr.Loop()
	require.True(t, ok)
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 8.0, end)

	tr.ClearLoop()
	_, _, ok = tr.Loop()
	assert.False(t, ok)
}
