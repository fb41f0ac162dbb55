package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())
	p := Default()
	p.GridVisible = false
	p.LastModel = "ferrari_sf90.glb"
	p.WindowW = 1280
	require.NoError(t, Save(p))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll("config", 0755))
	require.NoError(t, os.WriteFile(Path, []byte("{broken"), 0644))
	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll("config", 0755))
	require.NoError(t, os.WriteFile(Path, []byte(`{"last_model":"bmw.glb"}`), 0644))
	p, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bmw.glb", p.LastModel)
	assert.Equal(t, Default().ModelsDir, p.ModelsDir, "unset fields keep their defaults")
}
