package project

import (
	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/pluginstate"
)

// Plugin is §3's project-model Plugin entity: the persisted description of
// a plugin slot on a track, as distinct from pkg/plugin.Instance, which is
// the live runtime handle the audio engine holds while the track exists.
// A project Plugin survives across engine restarts; an Instance does not.
type Plugin struct {
	ID           uuid.UUID
	Name         string
	Format       string // "VST2", "VST3", "CLAP" — kept as a plain tag here, not plugin.Format, since an unresolvable plugin must still round-trip through save/load
	Path         string
	Category     string
	ShellSubID   int32 // sub-plugin index within a multi-plugin shell module; -1 if not a shell
	IsInstrument bool

	PresetBytes       pluginstate.PresetBytes
	ParameterSnapshot map[uint32]float64
}

// NewPlugin constructs a plugin slot descriptor with no shell sub-id.
func NewPlugin(name, format, path string, isInstrument bool) *Plugin {
	return &Plugin{
		ID:                uuid.New(),
		Name:              name,
		Format:            format,
		Path:              path,
		ShellSubID:        -1,
		IsInstrument:      isInstrument,
		ParameterSnapshot: make(map[uint32]float64),
	}
}
