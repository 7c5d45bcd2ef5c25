package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/persona/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	return dir
}

func TestWriteConfig_Project(t *testing.T) {
	chdirTemp(t)

	path, err := writeConfig(true, false)
	require.NoError(t, err)
	assert.Equal(t, config.ProjectPath(), path)
	assert.True(t, fileExists(path))

	_, err = writeConfig(true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = writeConfig(true, true)
	require.NoError(t, err, "--force overwrites")
}

func TestWriteConfig_Global(t *testing.T) {
	chdirTemp(t)

	path, err := writeConfig(false, false)
	require.NoError(t, err)
	assert.Equal(t, config.GlobalPath(), path)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
}

func TestTuning(t *testing.T) {
	cfg := config.Default()
	cfg.WheelTickDelta = 25
	tn := tuning(cfg)

	assert.Equal(t, cfg.SettleDuration, tn.SettleDuration)
	assert.Equal(t, 25.0, tn.TickDelta)
	assert.Equal(t, cfg.CellHeight, tn.CellHeight)
	assert.Equal(t, cfg.SwipeDistance, tn.SwipeDistance)
}
