package controlplane

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchAppliesCommandsInOrder(t *testing.T) {
	b := New(nil)
	var applied []uint64

	b.Submit(Command{Sequence: 1, Kind: CmdSetParameter, Value: 0.1})
	b.Submit(Command{Sequence: 2, Kind: CmdSetParameter, Value: 0.2})

	b.Dispatch(func(cmd Command) error {
		applied = append(applied, cmd.Sequence)
		return nil
	})

	assert.Equal(t, []uint64{1, 2}, applied)
}

func TestDispatchDropsAlreadyAppliedSequence(t *testing.T) {
	b := New(nil)
	var applied []uint64
	handler := func(cmd Command) error {
		applied = append(applied, cmd.Sequence)
		return nil
	}

	b.Submit(Command{Sequence: 5, Kind: CmdTransportPlay})
	b.Dispatch(handler)

	// A retried send of the same sequence number must not re-apply.
	b.Submit(Command{Sequence: 5, Kind: CmdTransportPlay})
	b.Dispatch(handler)

	assert.Equal(t, []uint64{5}, applied)
}

func TestDispatchTracksSequenceIndependentlyPerKind(t *testing.T) {
	b := New(nil)
	var applied []CommandKind
	handler := func(cmd Command) error {
		applied = append(applied, cmd.Kind)
		return nil
	}

	b.Submit(Command{Sequence: 1, Kind: CmdTransportPlay})
	b.Submit(Command{Sequence: 1, Kind: CmdAddTrack})
	b.Dispatch(handler)

	assert.ElementsMatch(t, []CommandKind{CmdTransportPlay, CmdAddTrack}, applied)
}

func TestDispatchPublishesErrorNotificationOnHandlerFailure(t *testing.T) {
	b := New(nil)
	sub := b.Subscribe()

	boom := errors.New("boom")
	b.Submit(Command{Sequence: 1, Kind: CmdLoadProject})
	b.Dispatch(func(cmd Command) error { return boom })

	n := <-sub
	assert.Equal(t, NotifyError, n.Kind)
	assert.ErrorIs(t, n.Err, boom)
}

func TestPublishDeliversToEverySubscriber(t *testing.T) {
	b := New(nil)
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(Notification{Kind: NotifyPlayPosition, BlockIndex: 7, CurrentBeat: 2.5})

	na := <-a
	nc := <-c
	assert.Equal(t, uint64(7), na.BlockIndex)
	assert.Equal(t, uint64(7), nc.BlockIndex)
}

func TestUnsubscribeStopsFurtherDelivery(t *testing.T) {
	b := New(nil)
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	b.Publish(Notification{Kind: NotifyPlayPosition, BlockIndex: 1})

	_, open := <-sub
	require.False(t, open, "channel should be closed after Unsubscribe")
}
