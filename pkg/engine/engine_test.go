package engine

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khremeviuc1004/riff-daw/pkg/controlplane"
	"github.com/khremeviuc1004/riff-daw/pkg/param"
	"github.com/khremeviuc1004/riff-daw/pkg/plugin"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/transport"
)

func newTestEngine(t *testing.T) (*Engine, *project.Track) {
	t.Helper()
	song := project.NewSong("test", 120, 44100, 512)
	track := project.NewTrack(project.TrackInstrument, "lead")
	track.Instrument = project.NewPlugin("synth", "CLAP", "", true)
	riff := project.NewRiff("riff", 4)
	riff.AddEvent(project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 60, Velocity: 100, Duration: 1})
	track.AddRiff(riff)
	require.NoError(t, track.AddRiffReference(project.NewRiffReference(riff.ID, 0)))
	require.NoError(t, song.AddTrack(track))

	log := logrus.New()
	host := plugin.NewHost(log)
	host.RegisterBackend(plugin.FormatCLAP, plugin.NewMemoryBackendFactory([]param.Info{
		{ID: 0, Title: "gain", MinValue: 0, MaxValue: 1, DefaultValue: 1},
	}))

	e := New(song, host, log)

	id, err := host.Create(plugin.FormatCLAP, "", track.Instrument.ID.String(), song.SampleRate, song.BlockSize, plugin.Callbacks{})
	require.NoError(t, err)
	inst, err := host.Get(id)
	require.NoError(t, err)
	require.NoError(t, inst.Activate(true, song.SampleRate, song.BlockSize))
	require.NoError(t, inst.SetProcessing(true))
	e.Graph().BindPlugin(track.Instrument.ID, inst)

	return e, track
}

func TestProcessBlockAdvancesTransportByBlockSize(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Bridge().Submit(controlplane.Command{Sequence: 1, Kind: controlplane.CmdTransportPlay, Mode: uint8(transport.PlayModeSongArrangement)})

	before := e.Transport().Snapshot().CurrentSample
	_, _, err := e.ProcessBlock()
	require.NoError(t, err)
	after := e.Transport().Snapshot().CurrentSample

	assert.Equal(t, int64(512), after-before)
}

func TestSetParameterCommandNotifiesSubscribers(t *testing.T) {
	e, track := newTestEngine(t)
	sub := e.Bridge().Subscribe()

	e.Bridge().Submit(controlplane.Command{
		Sequence: 1,
		Kind:     controlplane.CmdSetParameter,
		PluginID: track.Instrument.ID,
		ParamID:  0,
		Value:    0.5,
	})
	_, _, err := e.ProcessBlock()
	require.NoError(t, err)

	n := <-sub
	assert.Equal(t, controlplane.NotifyParamChanged, n.Kind)
	assert.Equal(t, 0.5, n.Value)
}

func TestAddTrackCommandAddsTrackToSong(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Bridge().Submit(controlplane.Command{
		Sequence: 1,
		Kind:     controlplane.CmdAddTrack,
		Track:    &controlplane.TrackSpec{Name: "bass", Kind: uint8(project.TrackInstrument)},
	})

	_, _, err := e.ProcessBlock()
	require.NoError(t, err)

	assert.Len(t, e.Song().Tracks, 2)
}

func TestTransportStopCommandStopsTransport(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Bridge().Submit(controlplane.Command{Sequence: 1, Kind: controlplane.CmdTransportPlay, Mode: uint8(transport.PlayModeSongArrangement)})
	_, _, err := e.ProcessBlock()
	require.NoError(t, err)

	e.Bridge().Submit(controlplane.Command{Sequence: 2, Kind: controlplane.CmdTransportStop})
	_, _, err = e.ProcessBlock()
	require.NoError(t, err)

	assert.Equal(t, transport.StateStopped, e.Transport().State())
}
