package persistence

import (
	"github.com/google/uuid"

	"github.com/khremeviuc1004/riff-daw/pkg/pluginstate"
	"github.com/khremeviuc1004/riff-daw/pkg/project"
)

type pluginDoc struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Format            string             `json:"format"`
	Path              string             `json:"path"`
	Category          string             `json:"category"`
	ShellSubID        int32              `json:"shell_sub_id"`
	IsInstrument      bool               `json:"is_instrument"`
	PresetBytes       string             `json:"preset_bytes"` // base64, per §4.7
	ParameterSnapshot map[uint32]float64 `json:"parameter_snapshot"`
}

func toPluginDoc(p *project.Plugin) pluginDoc {
	d := pluginDoc{
		ID:                p.ID,
		Name:              p.Name,
		Format:            p.Format,
		Path:              p.Path,
		Category:          p.Category,
		ShellSubID:        p.ShellSubID,
		IsInstrument:      p.IsInstrument,
		PresetBytes:       pluginstate.PresetBytes(p.PresetBytes).EncodeBase64(),
		ParameterSnapshot: p.ParameterSnapshot,
	}
	if d.ParameterSnapshot == nil {
		d.ParameterSnapshot = map[uint32]float64{}
	}
	return d
}

func fromPluginDoc(d pluginDoc) *project.Plugin {
	p := project.NewPlugin(d.Name, d.Format, d.Path, d.IsInstrument)
	p.ID = d.ID
	p.Category = d.Category
	p.ShellSubID = d.ShellSubID
	if decoded, err := pluginstate.DecodeBase64PresetBytes(d.PresetBytes); err == nil {
		p.PresetBytes = decoded
	}
	if d.ParameterSnapshot != nil {
		p.ParameterSnapshot = d.ParameterSnapshot
	}
	return p
}
