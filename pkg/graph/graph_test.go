package graph

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khremeviuc1004/riff-daw/pkg/audio"
	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/param"
	"github.com/khremeviuc1004/riff-daw/pkg/plugin"
	"github.com/khremeviuc1004/riff-daw/pkg/pluginstate"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/scheduler"
	"github.com/khremeviuc1004/riff-daw/pkg/transport"
)

// toneBackend is a minimal Backend that outputs a constant amplitude
// whenever it has a pending NoteOn, standing in for a real synth so tests
// can assert on the graph's routing, pan, gain and mute/solo logic
// without a native plugin module.
type toneBackend struct {
	sounding bool
}

func newToneBackendFactory() plugin.BackendFactory {
	return func(info plugin.Info, callbacks plugin.Callbacks) (plugin.Backend, error) {
		return &toneBackend{}, nil
	}
}

func (b *toneBackend) Load(path, uid string, sampleRate float64, blockSize int) error { return nil }
func (b *toneBackend) Activate(sampleRate float64, blockSize int) error               { return nil }
func (b *toneBackend) Deactivate() error                                              { return nil }
func (b *toneBackend) SetProcessing(on bool) error                                    { return nil }

func (b *toneBackend) PushEvent(e event.Event) error {
	if ne, ok := e.(*event.NoteEvent); ok && ne.Header.Kind == event.KindNoteOn {
		b.sounding = true
	}
	return nil
}

func (b *toneBackend) Process(inL, inR, outL, outR []float32) error {
	var v float32
	if b.sounding {
		v = 1.0
	}
	for i := range outL {
		outL[i] = v
		outR[i] = v
	}
	b.sounding = false
	return nil
}

func (b *toneBackend) ParameterCount() int { return 0 }

func (b *toneBackend) ParameterInfo(index int) (param.Info, error) {
	return param.Info{}, param.ErrInvalidParam
}

func (b *toneBackend) GetPreset() (pluginstate.PresetBytes, error) { return nil, nil }
func (b *toneBackend) SetPreset(data pluginstate.PresetBytes) error { return nil }

func (b *toneBackend) OpenEditor(nativeWindowID uintptr, onResize plugin.WindowResizeNotifier) error {
	return nil
}
func (b *toneBackend) CloseEditor() error { return nil }
func (b *toneBackend) Close() error       { return nil }

func bindNewInstrument(t *testing.T, g *Graph, host *plugin.Host, song *project.Song, track *project.Track) {
	t.Helper()
	id, err := host.Create(plugin.FormatCLAP, "", track.Instrument.ID.String(), song.SampleRate, song.BlockSize, plugin.Callbacks{})
	require.NoError(t, err)
	inst, err := host.Get(id)
	require.NoError(t, err)
	require.NoError(t, inst.Activate(true, song.SampleRate, song.BlockSize))
	require.NoError(t, inst.SetProcessing(true))
	g.BindPlugin(track.Instrument.ID, inst)
}

func newTestGraph(t *testing.T) (*Graph, *project.Song, *project.Track, *plugin.Host) {
	t.Helper()
	song := project.NewSong("test", 120, 44100, 512)
	track := project.NewTrack(project.TrackInstrument, "lead")
	track.Instrument = project.NewPlugin("tone", "CLAP", "", true)
	riff := project.NewRiff("riff", 4)
	riff.AddEvent(project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 60, Velocity: 100, Duration: 1})
	track.AddRiff(riff)
	require.NoError(t, track.AddRiffReference(project.NewRiffReference(riff.ID, 0)))
	require.NoError(t, song.AddTrack(track))

	log := logrus.New()
	host := plugin.NewHost(log)
	host.RegisterBackend(plugin.FormatCLAP, newToneBackendFactory())

	sched := scheduler.New(song, log)
	g := New(song, host, sched, log)
	bindNewInstrument(t, g, host, song, track)

	return g, song, track, host
}

func TestProcessBlockMixesInstrumentOutput(t *testing.T) {
	g, _, _, _ := newTestGraph(t)
	snap := transport.Snapshot{State: transport.StatePlaying, Mode: transport.PlayModeSongArrangement}

	left, right, err := g.ProcessBlock(0, snap)
	require.NoError(t, err)
	assert.NotEmpty(t, left)
	assert.NotEmpty(t, right)

	nonZero := false
	for _, v := range left {
		if v != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero, "expected instrument's note-on to produce nonzero output")
}

func TestMutedTrackProducesSilence(t *testing.T) {
	g, _, track, _ := newTestGraph(t)
	track.Mute = true
	snap := transport.Snapshot{State: transport.StatePlaying, Mode: transport.PlayModeSongArrangement}

	left, _, err := g.ProcessBlock(0, snap)
	require.NoError(t, err)
	for _, v := range left {
		assert.Equal(t, float32(0), v)
	}
}

func TestSoloExcludesNonSoloedTracks(t *testing.T) {
	g, song, leadTrack, host := newTestGraph(t)

	other := project.NewTrack(project.TrackInstrument, "other")
	other.Instrument = project.NewPlugin("tone2", "CLAP", "", true)
	otherRiff := project.NewRiff("riff2", 4)
	otherRiff.AddEvent(project.RiffEvent{Position: 0, Kind: project.RiffEventNote, Note: 67, Velocity: 100, Duration: 1})
	other.AddRiff(otherRiff)
	require.NoError(t, other.AddRiffReference(project.NewRiffReference(otherRiff.ID, 0)))
	require.NoError(t, song.AddTrack(other))
	g.AddTrack(other)
	bindNewInstrument(t, g, host, song, other)

	leadTrack.Solo = true
	snap := transport.Snapshot{State: transport.StatePlaying, Mode: transport.PlayModeSongArrangement}

	// AddTrack enqueued its setup; ProcessBlock drains commands before
	// scheduling, so the new track participates from this very call.
	left, _, err := g.ProcessBlock(0, snap)
	require.NoError(t, err)
	nonZero := false
	for _, v := range left {
		if v != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero, "soloed lead track should still be audible")

	// Both tone backends output 1.0 this block; only the lead's panned,
	// gained level may reach master, so the other track adds nothing.
	leadL, _ := audio.Pan(float32(leadTrack.Pan))
	assert.InDelta(t, float64(leadL)*leadTrack.Volume, float64(left[0]), 1e-6)
}
