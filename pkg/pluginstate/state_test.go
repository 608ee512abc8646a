package pluginstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m := NewManager("fdaw.synth", "Test Synth", Version1)
	state := m.CreateState([]Parameter{{ID: 1, Value: 0.5, Name: "cutoff"}}, nil)

	data, err := m.SaveToJSON(state)
	require.NoError(t, err)

	loaded, err := m.LoadFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, state.Parameters, loaded.Parameters)
	assert.Equal(t, state.Header.PluginID, loaded.Header.PluginID)
}

func TestLoadRejectsWrongPlugin(t *testing.T) {
	m := NewManager("fdaw.synth", "Test Synth", Version1)
	other := NewManager("fdaw.other", "Other", Version1)
	state := other.CreateState(nil, nil)

	data, err := other.SaveToJSON(state)
	require.NoError(t, err)

	_, err = m.LoadFromJSON(data)
	assert.ErrorIs(t, err, ErrInvalidPluginID)
}

func TestMigrationChainAppliesInOrder(t *testing.T) {
	chain := NewMigrationChain()
	chain.AddMigrator(NewSimpleMigrator(Version1, Version2, MigrateV1ToV2))

	old := &State{Header: Header{Version: Version1, PluginID: "fdaw.synth"}}
	migrated, err := chain.Migrate(old, Version2)
	require.NoError(t, err)
	assert.Equal(t, Version2, migrated.Header.Version)
}

func TestPresetBytesBase64RoundTrip(t *testing.T) {
	original := PresetBytes{0x00, 0x01, 0xFF, 0x7F}
	encoded := original.EncodeBase64()
	decoded, err := DecodeBase64PresetBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
