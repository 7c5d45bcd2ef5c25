package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME and the working directory at a fresh temp
// dir and clears every PERSONA_ variable.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(origWd) })

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range keys {
		env := "PERSONA_" + strings.ToUpper(key)
		t.Setenv(env, "")
		_ = os.Unsetenv(env)
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/persona/persona.yml", GlobalPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		assert.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %v", got)
		assert.Equal(t, "persona.yml", filepath.Base(got))
	})
}

func TestProjectPath(t *testing.T) {
	assert.Equal(t, "persona.yml", ProjectPath())
}

func TestExists(t *testing.T) {
	isolate(t)

	assert.False(t, Exists())

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("api_url: http://localhost\n"), 0644))
	assert.True(t, Exists())
	require.NoError(t, os.Remove(ProjectPath()))

	require.NoError(t, WriteGlobal(Default()))
	assert.True(t, Exists())
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() defaults mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, cfg.Validate())
}

func TestWriteGlobal_RoundTrip(t *testing.T) {
	isolate(t)

	want := Default()
	want.APIURL = "http://localhost:3000"
	want.SettleDuration = 900 * time.Millisecond
	want.WheelTickDelta = 25
	want.LogLevel = "debug"
	want.LogFile = "/tmp/persona.log"
	require.NoError(t, WriteGlobal(want))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)
	content := string(data)
	for _, field := range []string{
		"api_url: http://localhost:3000",
		"settle_duration: 900ms",
		"wheel_tick_delta: 25",
		"log_level: debug",
	} {
		assert.Contains(t, content, field)
	}

	got, err := Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	isolate(t)

	global := Default()
	global.APIURL = "http://global.example"
	global.LogLevel = "warn"
	require.NoError(t, WriteGlobal(global))

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("api_url: http://project.example\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://project.example", cfg.APIURL)
	assert.Equal(t, "warn", cfg.LogLevel, "keys absent from the project file keep the global value")
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)

	project := Default()
	project.SwipeDistance = 80
	require.NoError(t, WriteProject(project))

	t.Setenv("PERSONA_SWIPE_DISTANCE", "120")
	t.Setenv("PERSONA_SETTLE_DURATION", "250ms")
	t.Setenv("PERSONA_API_URL", "http://env.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.SwipeDistance)
	assert.Equal(t, 250*time.Millisecond, cfg.SettleDuration)
	assert.Equal(t, "http://env.example", cfg.APIURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty api url", func(c *Config) { c.APIURL = "" }, "api_url"},
		{"relative api url", func(c *Config) { c.APIURL = "/questions" }, "api_url"},
		{"zero settle", func(c *Config) { c.SettleDuration = 0 }, "settle_duration"},
		{"negative threshold", func(c *Config) { c.WheelThreshold = -1 }, "wheel_threshold"},
		{"zero tick", func(c *Config) { c.WheelTickDelta = 0 }, "wheel_tick_delta"},
		{"zero cell height", func(c *Config) { c.CellHeight = 0 }, "cell_height"},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, "request_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
