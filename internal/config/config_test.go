package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks platform validation and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil configuration.
	err := Validate(nil)
	require.Error(t, err)

	// Unknown platform.
	cfg := &Config{Platform: "beos"}

	err = Validate(cfg)
	require.Error(t, err)

	// Defaults are filled.
	cfg = &Config{Platform: "windows"}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultOutputFolder, cfg.OutputFolder)
	require.Equal(t, DefaultDeltaExtensions(), cfg.DeltaExtensions)

	// Empty search path is rejected.
	cfg = &Config{Platform: "linux", SearchPaths: []string{""}}

	err = Validate(cfg)
	require.Error(t, err)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		Platform:     "osx",
		OutputFolder: filepath.Join(dir, "Releases"),
		SearchPaths:  []string{filepath.Join(dir, "tools")},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Platform, loaded.Platform)
	require.Equal(t, cfg.OutputFolder, loaded.OutputFolder)
	require.Equal(t, cfg.SearchPaths, loaded.SearchPaths)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
