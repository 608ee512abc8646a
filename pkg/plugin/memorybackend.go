package plugin

import (
	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/param"
	"github.com/khremeviuc1004/riff-daw/pkg/pluginstate"
)

// memoryBackend is a format-free Backend used by tests and by the headless
// CLI's "play-null" mode: it accumulates pushed events until the next
// Process call and copies its input buffers to its output buffers, with no
// real plugin module involved.
type memoryBackend struct {
	paramInfo []param.Info
	values    map[uint32]float64
	events    []event.Event
	preset    pluginstate.PresetBytes
	editorOpen bool
}

// NewMemoryBackendFactory returns a BackendFactory producing memoryBackend
// instances, for use with Host.RegisterBackend in tests and the headless
// CLI where no native plugin module is available.
func NewMemoryBackendFactory(params []param.Info) BackendFactory {
	return func(info Info, callbacks Callbacks) (Backend, error) {
		values := make(map[uint32]float64, len(params))
		for _, p := range params {
			values[p.ID] = p.DefaultValue
		}
		return &memoryBackend{paramInfo: params, values: values}, nil
	}
}

func (b *memoryBackend) Load(path, uid string, sampleRate float64, blockSize int) error {
	return nil
}

func (b *memoryBackend) Activate(sampleRate float64, blockSize int) error { return nil }

func (b *memoryBackend) Deactivate() error { return nil }

func (b *memoryBackend) SetProcessing(on bool) error { return nil }

func (b *memoryBackend) PushEvent(e event.Event) error {
	b.events = append(b.events, e)
	if pe, ok := e.(*event.ParameterEvent); ok {
		b.values[pe.ParamID] = pe.Value
	}
	return nil
}

func (b *memoryBackend) Process(inL, inR, outL, outR []float32) error {
	for i := range outL {
		outL[i] = inL[i]
		outR[i] = inR[i]
	}
	b.events = b.events[:0]
	return nil
}

func (b *memoryBackend) ParameterCount() int { return len(b.paramInfo) }

func (b *memoryBackend) ParameterInfo(index int) (param.Info, error) {
	if index < 0 || index >= len(b.paramInfo) {
		return param.Info{}, param.ErrInvalidParam
	}
	return b.paramInfo[index], nil
}

func (b *memoryBackend) GetPreset() (pluginstate.PresetBytes, error) {
	return b.preset, nil
}

func (b *memoryBackend) SetPreset(data pluginstate.PresetBytes) error {
	b.preset = data
	return nil
}

func (b *memoryBackend) OpenEditor(nativeWindowID uintptr, onResize WindowResizeNotifier) error {
	b.editorOpen = true
	return nil
}

func (b *memoryBackend) CloseEditor() error {
	b.editorOpen = false
	return nil
}

func (b *memoryBackend) Close() error { return nil }
