package plugin

import (
	"sync"

	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/fdawerr"
	"github.com/khremeviuc1004/riff-daw/pkg/param"
	"github.com/khremeviuc1004/riff-daw/pkg/pluginstate"
)

// State is a position in the per-instance lifecycle state machine of §4.1:
// Created -> Activated -> Processing <-> Activated -> Destroyed.
type State uint8

const (
	StateCreated State = iota
	StateActivated
	StateProcessing
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateActivated:
		return "Activated"
	case StateProcessing:
		return "Processing"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// ParameterChangeNotifier is invoked when the plugin's own UI edits a
// parameter, so the host can mirror the new value into its parameter
// manager and notify listeners.
type ParameterChangeNotifier func(id uint32, value float64)

// WindowResizeNotifier is invoked when a plugin's editor requests its
// host-owned window be resized.
type WindowResizeNotifier func(width, height uint32)

// Callbacks bundles the two notifiers create(...) takes per §4.1.
type Callbacks struct {
	OnParameterChange ParameterChangeNotifier
	OnWindowResize    WindowResizeNotifier
}

// Backend is the format-specific half of an Instance: loading a module,
// wiring buses, pushing events in the module's native shape, and running
// the block. VST2, VST3 and CLAP each get their own Backend; the Instance
// state machine and failure-mode handling above it is format-agnostic.
type Backend interface {
	Load(path, uid string, sampleRate float64, blockSize int) error
	Activate(sampleRate float64, blockSize int) error
	Deactivate() error
	SetProcessing(on bool) error
	PushEvent(e event.Event) error
	Process(inL, inR []float32, outL, outR []float32) error
	ParameterCount() int
	ParameterInfo(index int) (param.Info, error)
	GetPreset() (pluginstate.PresetBytes, error)
	SetPreset(data pluginstate.PresetBytes) error
	OpenEditor(nativeWindowID uintptr, onResize WindowResizeNotifier) error
	CloseEditor() error
	Close() error
}

// Instance is the single concrete type §4.1 names: a PluginId-addressable
// wrapper around a Backend that enforces the state machine and translates
// backend errors into the typed fdawerr kinds the rest of the engine
// switches on.
type Instance struct {
	mu sync.Mutex

	id      string
	info    Info
	backend Backend
	state   State

	params    *param.Manager
	callbacks Callbacks
}

func newInstance(id string, info Info, backend Backend, callbacks Callbacks) *Instance {
	return &Instance{
		id:        id,
		info:      info,
		backend:   backend,
		state:     StateCreated,
		params:    param.NewManager(),
		callbacks: callbacks,
	}
}

// ID returns the PluginId this instance is addressed by in the Host registry.
func (i *Instance) ID() string { return i.id }

// Info returns the module metadata this instance was created from.
func (i *Instance) Info() Info { return i.info }

func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Activate moves Created/Activated -> Activated, or no-ops within Activated.
// on=false from Activated or Processing tears the instance back down to
// Created, deactivating any live processing first.
func (i *Instance) Activate(on bool, sampleRate float64, blockSize int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if on {
		switch i.state {
		case StateActivated, StateProcessing:
			return nil
		case StateCreated:
			if err := i.backend.Activate(sampleRate, blockSize); err != nil {
				return fdawerr.Wrap(fdawerr.KindPluginInitialise, err)
			}
			i.state = StateActivated
			return nil
		default:
			return fdawerr.Wrap(fdawerr.KindPluginInitialise, fdawerr.ErrInvalidState)
		}
	}

	switch i.state {
	case StateCreated:
		return nil
	case StateProcessing:
		if err := i.backend.SetProcessing(false); err != nil {
			return fdawerr.Wrap(fdawerr.KindPluginProcess, err)
		}
		fallthrough
	case StateActivated:
		if err := i.backend.Deactivate(); err != nil {
			return fdawerr.Wrap(fdawerr.KindPluginInitialise, err)
		}
		i.state = StateCreated
		return nil
	default:
		return fdawerr.Wrap(fdawerr.KindPluginInitialise, fdawerr.ErrInvalidState)
	}
}

// SetProcessing toggles the Activated <-> Processing edge. It is legal only
// while the instance is Activated (to start) or Processing (to stop).
func (i *Instance) SetProcessing(on bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if on {
		if i.state != StateActivated {
			if i.state == StateProcessing {
				return nil
			}
			return fdawerr.Wrap(fdawerr.KindPluginProcess, fdawerr.ErrInvalidState)
		}
		if err := i.backend.SetProcessing(true); err != nil {
			return fdawerr.Wrap(fdawerr.KindPluginProcess, err)
		}
		i.state = StateProcessing
		return nil
	}

	if i.state != StateProcessing {
		return nil
	}
	if err := i.backend.SetProcessing(false); err != nil {
		return fdawerr.Wrap(fdawerr.KindPluginProcess, err)
	}
	i.state = StateActivated
	return nil
}

// PushEvent queues a single event for the next Process call. Legal in any
// state once the instance has been created; the backend is responsible for
// format-specific queuing (raw MIDI for VST2, ParameterChange for VST3,
// clap_event_* for CLAP).
func (i *Instance) PushEvent(e event.Event) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state == StateDestroyed {
		return fdawerr.Wrap(fdawerr.KindPluginProcess, fdawerr.ErrInvalidState)
	}
	return i.backend.PushEvent(e)
}

// Process runs one audio block. Legal only in Processing; a "false" return
// from the underlying plugin is propagated to the caller so the Audio Graph
// can substitute silence for the block and carry on (§4.1 failure modes).
func (i *Instance) Process(inL, inR, outL, outR []float32) error {
	i.mu.Lock()
	state := i.state
	i.mu.Unlock()

	if state != StateProcessing {
		return fdawerr.Wrap(fdawerr.KindPluginProcess, fdawerr.ErrProcessNotAllowed)
	}
	return i.backend.Process(inL, inR, outL, outR)
}

// ParameterCount reports the plugin-reported parameter count.
func (i *Instance) ParameterCount() int {
	return i.backend.ParameterCount()
}

// ParameterInfo returns the static descriptor for the parameter at index.
func (i *Instance) ParameterInfo(index int) (param.Info, error) {
	return i.backend.ParameterInfo(index)
}

// GetPreset serializes the plugin's current parameter state to an opaque
// byte stream (§4.1, §4.7).
func (i *Instance) GetPreset() (pluginstate.PresetBytes, error) {
	return i.backend.GetPreset()
}

// SetPreset restores a previously captured preset. Per §4.1 this may need
// set_processing(false) -> set_preset -> set_processing(true) bracketing
// around large parameter changes; the backend is responsible for that
// sequence internally since only it knows whether its format requires it.
func (i *Instance) SetPreset(data pluginstate.PresetBytes) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state == StateDestroyed {
		return fdawerr.Wrap(fdawerr.KindPersistence, fdawerr.ErrInvalidState)
	}
	return i.backend.SetPreset(data)
}

// OpenEditor embeds the plugin's native editor into a host-owned window.
func (i *Instance) OpenEditor(nativeWindowID uintptr) error {
	return i.backend.OpenEditor(nativeWindowID, i.callbacks.OnWindowResize)
}

// CloseEditor tears down an open editor window, if any.
func (i *Instance) CloseEditor() error {
	return i.backend.CloseEditor()
}

// Destroy tears the instance down from whatever state it is in, releasing
// the backend's resources. Calling it on an already Destroyed instance is a
// no-op that returns nil.
func (i *Instance) Destroy() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == StateDestroyed {
		return nil
	}
	if i.state == StateProcessing {
		if err := i.backend.SetProcessing(false); err != nil {
			return fdawerr.Wrap(fdawerr.KindPluginProcess, err)
		}
		i.state = StateActivated
	}
	if i.state == StateActivated {
		if err := i.backend.Deactivate(); err != nil {
			return fdawerr.Wrap(fdawerr.KindPluginInitialise, err)
		}
	}
	if err := i.backend.Close(); err != nil {
		return fdawerr.Wrap(fdawerr.KindPluginInitialise, err)
	}
	i.state = StateDestroyed
	return nil
}
