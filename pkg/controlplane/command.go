// Package controlplane implements §4.6's bidirectional bridge: typed UI ->
// engine commands carrying a sequence number for at-most-once delivery, and
// engine -> UI notifications fanned out to every subscriber at-least-once.
//
// The command queue is grounded on the same channel-backed idiom as
// pkg/graph's command queue (itself grounded on the teacher's
// pkg/plugin/runloop.go); notification fan-out follows the teacher's
// pkg/param.Manager listener pattern: take a snapshot of subscribers under
// a lock, then deliver without holding it.
package controlplane

import "github.com/google/uuid"

// CommandKind identifies the variant carried by a Command.
type CommandKind string

const (
	CmdTransportPlay        CommandKind = "TransportPlay"
	CmdTransportStop        CommandKind = "TransportStop"
	CmdTransportSeek        CommandKind = "TransportSeek"
	CmdTransportSetLoop     CommandKind = "TransportSetLoop"
	CmdTransportClearLoop   CommandKind = "TransportClearLoop"
	CmdAddTrack             CommandKind = "AddTrack"
	CmdRemoveTrack          CommandKind = "RemoveTrack"
	CmdLoadProject          CommandKind = "LoadProject"
	CmdSaveProject          CommandKind = "SaveProject"
	CmdSavePresetFromPlugin CommandKind = "SavePresetFromPlugin"
	CmdSetParameter         CommandKind = "SetParameter"
)

// Command is one UI -> engine request. Sequence is assigned by the sender
// and must be strictly increasing per sender; the Bridge uses it to drop
// a command it has already applied, giving state-changing commands
// at-most-once semantics even if the transport between UI and engine
// retries a send it couldn't confirm.
type Command struct {
	Sequence uint64
	Kind     CommandKind

	TrackID  uuid.UUID
	PluginID uuid.UUID
	ParamID  uint32
	Value    float64

	Mode      uint8 // transport.PlayMode, kept untyped here to avoid an import cycle
	Position  int64
	LoopStart float64
	LoopEnd   float64

	ProjectPath string
	PresetPath  string

	Track *TrackSpec // payload for AddTrack
}

// TrackSpec is the subset of a project.Track an AddTrack command needs to
// describe; the handler constructs the real *project.Track from it so this
// package does not need to import pkg/project for every command shape.
type TrackSpec struct {
	Name         string
	Kind         uint8 // project.TrackKind
	IsInstrument bool
}

// CommandHandler applies a single dispatched Command to the engine. It runs
// on whatever goroutine calls Bridge.Dispatch, never on the audio thread;
// handlers that need to reach the audio thread do so through the Graph's
// own Enqueue/QueuePluginWork.
type CommandHandler func(Command) error
