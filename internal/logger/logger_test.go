package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"ERROR", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestLogger_LogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelDebug)

	l.Info("step %d -> %d", 0, 1)

	assert.Contains(t, buf.String(), "[INFO] step 0 -> 1")
}

func TestLogger_EnvVarLogLevel(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFile, "")

	l := New()
	assert.Equal(t, LevelDebug, l.Level())
}

func TestLogger_EnvVarInvalidLevelIgnored(t *testing.T) {
	t.Setenv(EnvLevel, "loud")
	t.Setenv(EnvFile, "")

	l := New()
	assert.Equal(t, LevelInfo, l.Level())
}

func TestLogger_EnvVarLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.log")
	t.Setenv(EnvLevel, "")
	t.Setenv(EnvFile, path)

	l := New()
	l.Info("written to file")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written to file")
}

func TestLogger_Configure(t *testing.T) {
	t.Setenv(EnvLevel, "")
	t.Setenv(EnvFile, "")
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	l := New()
	require.NoError(t, l.Configure("warn", first))
	l.Info("dropped")
	l.Warn("kept in first")

	require.NoError(t, l.Configure("", second))
	l.Error("kept in second")
	require.NoError(t, l.Close())

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.NotContains(t, string(a), "dropped")
	assert.Contains(t, string(a), "kept in first")
	assert.Contains(t, string(b), "kept in second")
	assert.NotContains(t, string(b), "kept in first")
}

func TestLogger_ConfigureRejectsBadLevel(t *testing.T) {
	l := New()
	l.SetLevel(LevelError)
	require.Error(t, l.Configure("nope", ""))
	assert.Equal(t, LevelError, l.Level())
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	t.Setenv(EnvFile, "")
	l := New()
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	prev := Default
	Default = New()
	t.Cleanup(func() { Default = prev })

	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	out := buf.String()
	assert.Contains(t, out, "debug test")
	assert.Contains(t, out, "info test")
	assert.Contains(t, out, "warn test")
	assert.Contains(t, out, "error test")
}
