package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
)

func TestBufferDrainOrdersByOffsetThenPriority(t *testing.T) {
	buf := NewBuffer(16)

	on := &NoteEvent{Header: Header{BlockIndex: 0, SampleOffset: 10, Kind: KindNoteOn}, Key: 60}
	off := &NoteEvent{Header: Header{BlockIndex: 0, SampleOffset: 10, Kind: KindNoteOff}, Key: 60}
	param := &ParameterEvent{Header: Header{BlockIndex: 0, SampleOffset: 0, Kind: KindParameter}}

	require.NoError(t, buf.Push(on))
	require.NoError(t, buf.Push(off))
	require.NoError(t, buf.Push(param))

	drained := buf.DrainBlock(0)
	require.Len(t, drained, 3)
	assert.Equal(t, KindParameter, drained[0].GetHeader().Kind)
	assert.Equal(t, KindNoteOff, drained[1].GetHeader().Kind)
	assert.Equal(t, KindNoteOn, drained[2].GetHeader().Kind)
}

func TestBufferDrainOnlyCurrentBlock(t *testing.T) {
	buf := NewBuffer(16)
	require.NoError(t, buf.Push(&NoteEvent{Header: Header{BlockIndex: 0, Kind: KindNoteOn}}))
	require.NoError(t, buf.Push(&NoteEvent{Header: Header{BlockIndex: 1, Kind: KindNoteOn}}))

	assert.Len(t, buf.DrainBlock(0), 1)
	assert.Equal(t, 1, buf.Len())
	assert.Len(t, buf.DrainBlock(1), 1)
	assert.Equal(t, 0, buf.Len())
}

func TestBufferOverflowIsFatal(t *testing.T) {
	buf := NewBuffer(1)
	require.NoError(t, buf.Push(&NoteEvent{Header: Header{Kind: KindNoteOn}}))
	err := buf.Push(&NoteEvent{Header: Header{Kind: KindNoteOn}})
	require.Error(t, err)
	_, ok := fdawerr.As(err, fdawerr.KindScheduling)
	assert.True(t, ok)
}

func TestBufferClearDropsPending(t *testing.T) {
	buf := NewBuffer(4)
	require.NoError(t, buf.Push(&NoteEvent{Header: Header{BlockIndex: 5, Kind: KindNoteOn}}))
	buf.Clear()
	assert.Equal(t, 0, buf.Len())
	assert.Empty(t, buf.DrainBlock(5))
}

func TestPoolTracksHitsAndHighWaterMark(t *testing.T) {
	p := NewPool()
	a := p.GetNote()
	b := p.GetNote()
	d := p.Diagnostics()
	assert.EqualValues(t, 2, d.CurrentAllocated)
	assert.EqualValues(t, 2, d.HighWaterMark)

	p.PutNote(a)
	p.PutNote(b)
	d = p.Diagnostics()
	assert.EqualValues(t, 0, d.CurrentAllocated)
}
