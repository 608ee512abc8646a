// Package graph implements the Audio Graph of §4.5: the per-block
// pipeline that drains each track's topped-up Event Buffer, runs its
// instrument and effect chain, pans and mixes the result into the master
// bus, and reports block timing for xrun detection.
package graph

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/khremeviuc1004/riff-daw/pkg/audio"
	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/performance"
	"github.com/khremeviuc1004/riff-daw/pkg/plugin"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
	"github.com/khremeviuc1004/riff-daw/pkg/rtcheck"
	"github.com/khremeviuc1004/riff-daw/pkg/scheduler"
	"github.com/khremeviuc1004/riff-daw/pkg/transport"
)

// commandQueueSize bounds how many pending Commands the graph will buffer
// before Enqueue starts blocking its caller.
const commandQueueSize = 256

// trackBus holds the ping-pong scratch buffers one instrument track's
// instrument-then-effects chain processes into, sized once when the track
// is added to the graph, to the song's fixed block size.
type trackBus struct {
	a, b [2][]float32 // index 0 = left, 1 = right
}

// Graph wires a Song's tracks to their bound plugin instances and mixes
// every block's output. It is driven by a single caller (the audio
// callback or, headless, a CLI loop) that calls ProcessBlock once per
// block; all other goroutines must go through Enqueue/QueuePluginWork.
type Graph struct {
	song         *project.Song
	host         *plugin.Host
	scheduler    *scheduler.Scheduler
	metrics      *BlockMetrics
	allocTracker *performance.AllocationTracker
	log          *logrus.Entry
	rt           *rtcheck.Checker
	rtOnce       sync.Once

	mu         sync.RWMutex
	buffers    map[uuid.UUID]*event.Buffer     // per-track event queue
	bindings   map[uuid.UUID]*plugin.Instance  // plugin slot id -> live instance
	buses      map[uuid.UUID]*trackBus         // track id -> scratch buffers
	masterGain float64

	silenceL, silenceR []float32 // shared zero input for instrument tracks

	commands   chan Command
	pluginWork chan pluginWork
	workerDone chan struct{}

	onTrackError func(trackID uuid.UUID, err error)
}

// New constructs a Graph over song, using host to resolve plugin slot IDs
// to live instances and sched to top up each track's event buffer every
// block. The plugin worker goroutine is started immediately; call
// Shutdown to stop it.
func New(song *project.Song, host *plugin.Host, sched *scheduler.Scheduler, log *logrus.Logger) *Graph {
	if log == nil {
		log = logrus.New()
	}
	g := &Graph{
		song:         song,
		host:         host,
		scheduler:    sched,
		metrics:      NewBlockMetrics(song.SampleRate, song.BlockSize),
		allocTracker: performance.NewAllocationTracker(),
		log:          log.WithField("component", "graph"),
		rt:           rtcheck.NewChecker(),
		buffers:    make(map[uuid.UUID]*event.Buffer),
		bindings:   make(map[uuid.UUID]*plugin.Instance),
		buses:      make(map[uuid.UUID]*trackBus),
		masterGain: 1.0,
		silenceL:   make([]float32, song.BlockSize),
		silenceR:   make([]float32, song.BlockSize),
		commands:   make(chan Command, commandQueueSize),
		pluginWork: make(chan pluginWork, commandQueueSize),
		workerDone: make(chan struct{}),
	}
	for _, t := range song.Tracks {
		if t.Kind == project.TrackInstrument {
			g.addTrackLocked(t)
		}
	}
	go g.runPluginWorker()
	return g
}

func (g *Graph) addTrackLocked(t *project.Track) {
	g.buffers[t.ID] = event.NewBuffer(256)
	g.buses[t.ID] = &trackBus{
		a: [2][]float32{make([]float32, g.song.BlockSize), make([]float32, g.song.BlockSize)},
		b: [2][]float32{make([]float32, g.song.BlockSize), make([]float32, g.song.BlockSize)},
	}
}

// AddTrack registers a newly added instrument track with the graph. The
// caller (control plane) enqueues this rather than mutating song.Tracks
// directly so the allocation happens off the audio thread's fast path the
// first time ProcessBlock next drains commands.
func (g *Graph) AddTrack(t *project.Track) {
	g.Enqueue(func(g *Graph) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.addTrackLocked(t)
	})
}

// RemoveTrack drops a track's event buffer and scratch buses.
func (g *Graph) RemoveTrack(id uuid.UUID) {
	g.Enqueue(func(g *Graph) {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.buffers, id)
		delete(g.buses, id)
	})
}

// BindPlugin associates a project Plugin slot id (an instrument or an
// effect) with a live instance, typically called from a QueuePluginWork
// closure once the worker goroutine has finished creating it.
func (g *Graph) BindPlugin(slotID uuid.UUID, inst *plugin.Instance) {
	g.rt.AssertNotAudioThread("Graph.BindPlugin")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bindings[slotID] = inst
}

// UnbindPlugin removes a plugin slot's binding without destroying the
// instance; callers destroy it via QueuePluginWork separately.
func (g *Graph) UnbindPlugin(slotID uuid.UUID) {
	g.rt.AssertNotAudioThread("Graph.UnbindPlugin")
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.bindings, slotID)
}

// Instance resolves a project Plugin slot id to its bound live instance, if
// any. The control plane uses this to reach a plugin for parameter changes
// and preset save/load without needing to know the Host's own instance id.
func (g *Graph) Instance(slotID uuid.UUID) (*plugin.Instance, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	inst, ok := g.bindings[slotID]
	return inst, ok
}

// SetMasterGain sets the linear gain applied to the mixed master bus.
func (g *Graph) SetMasterGain(gain float64) {
	g.Enqueue(func(g *Graph) { g.masterGain = gain })
}

// FlushAllNotes discards every track's pending future-block events and
// pushes a synthetic all-notes-off (NoteOff with Key -1) to each bound
// instrument, per §5's cancellation rule that stopping or seeking releases
// active notes. Safe to call from any non-realtime thread; the transport
// calls this (via the engine) before every Stop and Seek.
func (g *Graph) FlushAllNotes() {
	g.Enqueue(func(g *Graph) {
		for id, buf := range g.buffers {
			buf.Clear()
			t, err := g.song.Track(id)
			if err != nil || t.Instrument == nil {
				continue
			}
			inst, ok := g.bindings[t.Instrument.ID]
			if !ok {
				continue
			}
			_ = inst.PushEvent(&event.NoteEvent{
				Header: event.Header{Kind: event.KindNoteOff},
				NoteID: -1,
				Key:    -1,
			})
		}
	})
}

// Metrics returns the block-timing tracker for this graph.
func (g *Graph) Metrics() *BlockMetrics { return g.metrics }

// OnTrackError registers a callback invoked whenever a track's instrument
// or effect chain fails to process and the track is muted as a result.
// The engine uses this to relay an Error notification through the control
// plane without the graph needing to know about it directly.
func (g *Graph) OnTrackError(fn func(trackID uuid.UUID, err error)) {
	g.onTrackError = fn
}

// ProcessBlock runs one block: it drains pending commands, tops up every
// instrument track's event buffer via the Scheduler, processes each
// unmuted (solo-respecting) track's instrument and effect chain, pans and
// mixes the result, and applies master gain. left and right are sized to
// the song's block size and are newly allocated on every call, so the
// caller owns them.
func (g *Graph) ProcessBlock(blockIndex uint64, snap transport.Snapshot) (left, right []float32, err error) {
	g.rtOnce.Do(g.rt.DeclareAudioThread)
	g.rt.AssertAudioThread("Graph.ProcessBlock")

	started := g.metrics.Start()
	g.allocTracker.StartBuffer()
	defer func() {
		g.allocTracker.EndBuffer()
		if g.metrics.End(started) {
			g.log.WithField("block", blockIndex).Warn("block exceeded its real-time deadline (xrun)")
		}
		if performance.CheckGCPauses() {
			g.log.WithField("block", blockIndex).Warn("garbage collector paused during block processing")
		}
	}()

	g.drainCommands()

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.scheduler.TopUp(g.buffers, blockIndex, snap); err != nil {
		return nil, nil, err
	}

	masterL := make([]float32, g.song.BlockSize)
	masterR := make([]float32, g.song.BlockSize)

	anySolo := false
	for _, t := range g.song.Tracks {
		if t.Kind == project.TrackInstrument && t.Solo {
			anySolo = true
			break
		}
	}

	for _, t := range g.song.Tracks {
		if t.Kind != project.TrackInstrument {
			continue
		}
		if t.Mute || (anySolo && !t.Solo) {
			continue
		}
		g.processTrack(t, blockIndex, masterL, masterR)
	}

	gain := float32(g.masterGain)
	for i := range masterL {
		masterL[i] *= gain
		masterR[i] *= gain
	}
	return masterL, masterR, nil
}

// processTrack runs track's instrument and effect chain and mixes its
// panned, gained output into masterL/masterR. A failure anywhere in the
// chain substitutes silence for this track's block and mutes the track for
// the remainder of the session rather than aborting the whole block: one
// misbehaving plugin must not silence every other track.
func (g *Graph) processTrack(t *project.Track, blockIndex uint64, masterL, masterR []float32) {
	bus, ok := g.buses[t.ID]
	if !ok {
		return
	}
	if t.Instrument == nil {
		return
	}
	inst, ok := g.bindings[t.Instrument.ID]
	if !ok {
		return
	}

	buf := g.buffers[t.ID]
	for _, ev := range buf.DrainBlock(blockIndex) {
		if err := inst.PushEvent(ev); err != nil {
			g.failTrack(t, err)
			return
		}
	}

	clearPair(bus.a)
	if err := inst.Process(g.silenceL, g.silenceR, bus.a[0], bus.a[1]); err != nil {
		g.failTrack(t, err)
		return
	}

	src, dst := bus.a, bus.b
	for _, fx := range t.Effects {
		fxInst, ok := g.bindings[fx.ID]
		if !ok {
			continue
		}
		clearPair(dst)
		if err := fxInst.Process(src[0], src[1], dst[0], dst[1]); err != nil {
			g.failTrack(t, err)
			return
		}
		src, dst = dst, src
	}

	leftGain, rightGain := audio.Pan(float32(t.Pan))
	volume := float32(t.Volume)
	for i := range masterL {
		masterL[i] += src[0][i] * leftGain * volume
		masterR[i] += src[1][i] * rightGain * volume
	}
}

// failTrack mutes t so every subsequent block skips it outright, logs the
// failure, and notifies onTrackError if one is registered. The current
// block's output for t is left as silence (masterL/masterR are simply never
// written for it).
func (g *Graph) failTrack(t *project.Track, err error) {
	t.Mute = true
	g.log.WithError(err).WithField("track", t.ID).Warn("track process failed, muting for remainder of session")
	if g.onTrackError != nil {
		g.onTrackError(t.ID, err)
	}
}

func clearPair(p [2][]float32) {
	for i := range p[0] {
		p[0][i] = 0
		p[1][i] = 0
	}
}

// Shutdown stops the plugin worker goroutine. Safe to call once during
// engine teardown.
func (g *Graph) Shutdown() {
	close(g.pluginWork)
	<-g.workerDone
}
