package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khremeviuc1004/riff-daw/pkg/event"
	"github.com/khremeviuc1004/riff-daw/pkg/param"
)

func testHost(t *testing.T) *Host {
	t.Helper()
	h := NewHost(nil)
	h.RegisterBackend(FormatCLAP, NewMemoryBackendFactory([]param.Info{
		{ID: 1, Title: "Cutoff", MinValue: 0, MaxValue: 1, DefaultValue: 0.5},
	}))
	return h
}

func TestCreateUnknownFormatFails(t *testing.T) {
	h := NewHost(nil)
	_, err := h.Create(FormatVST3, "/dev/null", "uid", 44100, 128, Callbacks{})
	assert.Error(t, err)
}

func TestLifecycleStateMachine(t *testing.T) {
	h := testHost(t)
	id, err := h.Create(FormatCLAP, "/dev/null", "uid", 44100, 128, Callbacks{})
	require.NoError(t, err)

	inst, err := h.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateCreated, inst.State())

	in := make([]float32, 128)
	out := make([]float32, 128)
	assert.Error(t, inst.Process(in, in, out, out), "process before activation must fail")

	require.NoError(t, inst.Activate(true, 44100, 128))
	assert.Equal(t, StateActivated, inst.State())

	assert.Error(t, inst.Process(in, in, out, out), "process before set_processing must fail")

	require.NoError(t, inst.SetProcessing(true))
	assert.Equal(t, StateProcessing, inst.State())
	assert.NoError(t, inst.Process(in, in, out, out))

	require.NoError(t, inst.SetProcessing(false))
	assert.Equal(t, StateActivated, inst.State())

	require.NoError(t, inst.Activate(false, 44100, 128))
	assert.Equal(t, StateCreated, inst.State())

	require.NoError(t, h.Destroy(id))
	_, err = h.Get(id)
	assert.Error(t, err)
}

func TestPushEventAfterDestroyFails(t *testing.T) {
	h := testHost(t)
	id, err := h.Create(FormatCLAP, "/dev/null", "uid", 44100, 128, Callbacks{})
	require.NoError(t, err)
	inst, err := h.Get(id)
	require.NoError(t, err)

	require.NoError(t, h.Destroy(id))
	err = inst.PushEvent(&event.ParameterEvent{ParamID: 1, Value: 0.2})
	assert.Error(t, err)
}

func TestParameterInfoRoundTrip(t *testing.T) {
	h := testHost(t)
	id, err := h.Create(FormatCLAP, "/dev/null", "uid", 44100, 128, Callbacks{})
	require.NoError(t, err)
	inst, err := h.Get(id)
	require.NoError(t, err)

	assert.Equal(t, 1, inst.ParameterCount())
	info, err := inst.ParameterInfo(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), info.ID)

	_, err = inst.ParameterInfo(5)
	assert.Error(t, err)
}
