// Package engine wires the Plugin Host, Scheduler, Transport, Audio Graph,
// Control Plane and Project Model together into the single object a driver
// (a real audio callback, or the headless CLI's block loop) advances one
// block at a time.
package engine

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/khremeviuc1004/riff-daw/pkg/controlplane"
	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
	"github.com/khremeviuc1004/riff-daw/pkg/graph"
	"github.com/khremeviuc1004/riff-daw/pkg/persistence"
	"github.com/khremeviuc1004/riff-daw/pkg/plugin"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/scheduler"
	"github.com/khremeviuc1004/riff-daw/pkg/transport"
	"github.com/khremeviuc1004/riff-daw/pkg/units"
)

// Engine owns one playing session: a Song, the live plugin Host behind it,
// and the Scheduler/Transport/Graph/Bridge built over that song. ProcessBlock
// is the only method the realtime driver calls; everything else runs on the
// control thread.
type Engine struct {
	song      *project.Song
	host      *plugin.Host
	transport *transport.Transport
	scheduler *scheduler.Scheduler
	graph     *graph.Graph
	bridge    *controlplane.Bridge
	log       *logrus.Entry

	blockIndex uint64
}

// New constructs an Engine over song using host to resolve plugin slot ids
// to live instances. host must already have its format backends registered
// (RegisterBackend); New does not register any itself.
func New(song *project.Song, host *plugin.Host, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	e := &Engine{
		song: song,
		host: host,
		log:  log.WithField("component", "engine"),
	}
	e.transport = transport.New(song.SampleRate, song.Tempo, song.TimeSignature.Numerator, e.flushAllNotes)
	e.scheduler = scheduler.New(song, log)
	e.graph = graph.New(song, host, e.scheduler, log)
	e.bridge = controlplane.New(log)
	e.graph.OnTrackError(e.notifyTrackError)
	return e
}

func (e *Engine) notifyTrackError(trackID uuid.UUID, err error) {
	e.bridge.Publish(controlplane.Notification{
		Kind:    controlplane.NotifyError,
		TrackID: trackID,
		Err:     err,
	})
}

func (e *Engine) flushAllNotes() { e.graph.FlushAllNotes() }

// Song returns the engine's project model.
func (e *Engine) Song() *project.Song { return e.song }

// Transport returns the engine's transport state machine.
func (e *Engine) Transport() *transport.Transport { return e.transport }

// Graph returns the engine's audio graph.
func (e *Engine) Graph() *graph.Graph { return e.graph }

// Host returns the engine's plugin host.
func (e *Engine) Host() *plugin.Host { return e.host }

// Bridge returns the engine's control-plane bridge.
func (e *Engine) Bridge() *controlplane.Bridge { return e.bridge }

// ProcessBlock runs the control-plane dispatch, the Audio Graph's block
// pipeline, and the transport housekeeping (position advance, loop wrap,
// position notification) for one block. The caller — a real audio
// callback, or the headless CLI's render loop — calls this once per block
// at a steady block-size cadence.
func (e *Engine) ProcessBlock() (left, right []float32, err error) {
	e.bridge.Dispatch(e.applyCommand)

	blockIndex := e.blockIndex
	snap := e.transport.Snapshot()

	left, right, err = e.graph.ProcessBlock(blockIndex, snap)
	if err != nil {
		return nil, nil, err
	}

	e.blockIndex++
	e.transport.Advance(e.song.BlockSize)
	e.wrapLoopIfNeeded(snap)
	e.publishPosition(blockIndex)

	return left, right, nil
}

// wrapLoopIfNeeded folds the transport's position back to the start of the
// current mode's loop once playback has passed its end, per §4.4/§5: the
// LoopRange's explicit bounds for LoopRange mode, or the auditioned
// RiffSet/RiffSequence/RiffArrangement's own length for the other
// composite modes. SongArrangement mode has no loop point and is left
// alone.
func (e *Engine) wrapLoopIfNeeded(prevSnap transport.Snapshot) {
	if prevSnap.State != transport.StatePlaying {
		return
	}
	snap := e.transport.Snapshot()

	switch snap.Mode {
	case transport.PlayModeLoopRange:
		if !snap.HasLoop || snap.LoopEnd <= snap.LoopStart {
			return
		}
		if snap.CurrentBeat < snap.LoopEnd {
			return
		}
		wrapped := snap.LoopStart + wrapBeat(snap.CurrentBeat-snap.LoopStart, snap.LoopEnd-snap.LoopStart)
		e.transport.SeekWrap(int64(units.BeatsToSamples(wrapped, e.song.Tempo, e.song.SampleRate)))

	case transport.PlayModeRiffSet, transport.PlayModeRiffSequence, transport.PlayModeRiffArrangement:
		length := e.scheduler.TimelineLength(snap.Mode, snap.AuditionedID)
		if length <= 0 || snap.CurrentBeat < length {
			return
		}
		wrapped := wrapBeat(snap.CurrentBeat, length)
		e.transport.SeekWrap(int64(units.BeatsToSamples(wrapped, e.song.Tempo, e.song.SampleRate)))
	}
}

func wrapBeat(pos, length float64) float64 {
	if length <= 0 {
		return 0
	}
	for pos >= length {
		pos -= length
	}
	for pos < 0 {
		pos += length
	}
	return pos
}

func (e *Engine) publishPosition(blockIndex uint64) {
	snap := e.transport.Snapshot()
	e.bridge.Publish(controlplane.Notification{
		Kind:        controlplane.NotifyPlayPosition,
		BlockIndex:  blockIndex,
		CurrentBeat: snap.CurrentBeat,
		CurrentBar:  snap.CurrentBar,
	})
}

// applyCommand is the Engine's controlplane.CommandHandler: it translates
// a dispatched Command into the corresponding Transport/Song/Graph/Host
// mutation.
func (e *Engine) applyCommand(cmd controlplane.Command) error {
	switch cmd.Kind {
	case controlplane.CmdTransportPlay:
		return e.transport.Play(transport.PlayMode(cmd.Mode), cmd.Position)
	case controlplane.CmdTransportStop:
		return e.transport.Stop()
	case controlplane.CmdTransportSeek:
		return e.transport.Seek(cmd.Position)
	case controlplane.CmdTransportSetLoop:
		e.transport.SetLoop(cmd.LoopStart, cmd.LoopEnd)
		return nil
	case controlplane.CmdTransportClearLoop:
		e.transport.ClearLoop()
		return nil
	case controlplane.CmdAddTrack:
		return e.addTrack(cmd)
	case controlplane.CmdRemoveTrack:
		return e.removeTrack(cmd.TrackID)
	case controlplane.CmdSetParameter:
		return e.setParameter(cmd)
	case controlplane.CmdLoadProject:
		return e.loadProjectFile(cmd.ProjectPath)
	case controlplane.CmdSaveProject:
		return e.saveProjectFile(cmd.ProjectPath)
	case controlplane.CmdSavePresetFromPlugin:
		return e.savePresetFromPlugin(cmd)
	default:
		return nil
	}
}

// loadProjectFile replaces the engine's project model in place (scheduler
// and graph both hold a pointer to the same *project.Song, so a field-wise
// copy is enough for them to see the new data on the very next block).
// Live plugin instances are not recreated here: binding a reloaded track's
// instrument/effects to fresh instances is a worker-thread operation
// (module load, potentially blocking I/O) the caller drives explicitly via
// Host.Create + Graph.BindPlugin, the same path a freshly authored project
// takes. Rejected while playing since swapping the model mid-block would
// race the Scheduler's read of it.
func (e *Engine) loadProjectFile(path string) error {
	if e.transport.State() == transport.StatePlaying {
		return fdawerr.Wrap(fdawerr.KindPersistence, fdawerr.ErrInvalidState)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fdawerr.Wrap(fdawerr.KindPersistence, err)
	}
	data, err := persistence.ReadDocument(raw)
	if err != nil {
		return err
	}
	loaded, err := persistence.Unmarshal(data)
	if err != nil {
		return err
	}

	*e.song = *loaded
	for _, t := range e.song.Tracks {
		if t.Kind == project.TrackInstrument {
			e.graph.AddTrack(t)
		}
	}
	return nil
}

func (e *Engine) saveProjectFile(path string) error {
	data, err := persistence.Marshal(e.song)
	if err != nil {
		return err
	}
	return fdawerr.Wrap(fdawerr.KindPersistence, os.WriteFile(path, data, 0o644))
}

func (e *Engine) addTrack(cmd controlplane.Command) error {
	if cmd.Track == nil {
		return fdawerr.Wrap(fdawerr.KindScheduling, fdawerr.ErrUnresolvedReference)
	}
	t := project.NewTrack(project.TrackKind(cmd.Track.Kind), cmd.Track.Name)
	if err := e.song.AddTrack(t); err != nil {
		return err
	}
	e.graph.AddTrack(t)
	return nil
}

func (e *Engine) removeTrack(id uuid.UUID) error {
	if err := e.song.RemoveTrack(id); err != nil {
		return err
	}
	e.graph.RemoveTrack(id)
	return nil
}

func (e *Engine) setParameter(cmd controlplane.Command) error {
	inst, ok := e.graph.Instance(cmd.PluginID)
	if !ok {
		return fdawerr.Wrap(fdawerr.KindPluginProcess, fdawerr.ErrPluginNotFound)
	}
	if err := inst.PushEvent(&event.ParameterEvent{
		Header:  event.Header{Kind: event.KindParameter},
		ParamID: cmd.ParamID,
		Value:   cmd.Value,
	}); err != nil {
		return err
	}
	e.bridge.Publish(controlplane.Notification{
		Kind:     controlplane.NotifyParamChanged,
		PluginID: cmd.PluginID,
		ParamID:  cmd.ParamID,
		Value:    cmd.Value,
	})
	return nil
}

func (e *Engine) savePresetFromPlugin(cmd controlplane.Command) error {
	inst, ok := e.graph.Instance(cmd.PluginID)
	if !ok {
		return fdawerr.Wrap(fdawerr.KindPluginProcess, fdawerr.ErrPluginNotFound)
	}
	data, err := inst.GetPreset()
	if err != nil {
		return err
	}
	return fdawerr.Wrap(fdawerr.KindPersistence, os.WriteFile(cmd.PresetPath, data, 0o644))
}
