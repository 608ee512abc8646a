package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterComputesDefaultNormalised(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register(Info{
		ID: 1, Title: "Cutoff", MinValue: 20, MaxValue: 20020, DefaultValue: 1020,
	}))
	info, err := m.GetInfo(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, info.DefaultNormalised, 1e-9)
}

func TestSetRejectsOutOfRange(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register(Info{ID: 1, MinValue: 0, MaxValue: 1, DefaultValue: 0.5}))
	assert.Error(t, m.Set(1, 1.5))
	assert.Error(t, m.Set(1, -0.5))
	assert.NoError(t, m.Set(1, 0.9))
}

func TestSetNotifiesListeners(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register(Info{ID: 2, MinValue: 0, MaxValue: 1, DefaultValue: 0}))

	var gotOld, gotNew float64
	require.NoError(t, m.AddListener(func(id uint32, old, new float64) {
		gotOld, gotNew = old, new
	}))

	require.NoError(t, m.Set(2, 0.75))
	assert.Equal(t, 0.0, gotOld)
	assert.Equal(t, 0.75, gotNew)
}

func TestDuplicateRegisterFails(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register(Info{ID: 1}))
	assert.ErrorIs(t, m.Register(Info{ID: 1}), ErrParamExists)
}
