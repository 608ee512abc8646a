package pluginindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khremeviuc1004/riff-daw/pkg/plugin"
)

func writeDiscoveryFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestScanDirectoryParsesDiscoveryLines(t *testing.T) {
	dir := t.TempDir()
	writeDiscoveryFile(t, dir, "synth.clap", "##########Analog Synth:synth.clap:com.fdaw.analog:Instrument:CLAP\n")

	idx := New()
	require.NoError(t, idx.ScanDirectory(dir, plugin.FormatCLAP))

	entry, ok := idx.Lookup("com.fdaw.analog")
	require.True(t, ok)
	assert.Equal(t, "Analog Synth", entry.Name)
	assert.Equal(t, "Instrument", entry.Category)
	assert.Equal(t, plugin.FormatCLAP, entry.Format)
}

func TestScanDirectoryDefaultsFormatWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	writeDiscoveryFile(t, dir, "reverb.dll", "##########Hall Reverb:reverb.dll:com.fdaw.hall\n")

	idx := New()
	require.NoError(t, idx.ScanDirectory(dir, plugin.FormatVST2))

	entry, ok := idx.Lookup("com.fdaw.hall")
	require.True(t, ok)
	assert.Equal(t, plugin.FormatVST2, entry.Format)
}

func TestScanDirectoryIgnoresMalformedLines(t *testing.T) {
	dir := t.TempDir()
	writeDiscoveryFile(t, dir, "broken.clap", "##########onlyname\nnot a discovery line\n")

	idx := New()
	require.NoError(t, idx.ScanDirectory(dir, plugin.FormatCLAP))
	assert.Empty(t, idx.Entries())
}

func TestScanEnvSkipsMissingDirectories(t *testing.T) {
	t.Setenv("VST_PATH", "/nonexistent/path/for/fdaw/test")
	t.Setenv("CLAP_PATH", "")

	idx := New()
	assert.NoError(t, idx.ScanEnv())
	assert.Empty(t, idx.Entries())
}
