package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	// quitting must not depend on which window has focus
	assert.Equal(t, InputGlobal, cfg.Input)
	assert.Equal(t, "q", cfg.QuitKey)
	assert.Equal(t, "esc", cfg.StopKey)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"radius": 30, "quit_key": " Q "}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.Radius)
	assert.Equal(t, "q", cfg.QuitKey)
	assert.Equal(t, 50, cfg.Steps)
	assert.Equal(t, 1920, cfg.RegionW)
	assert.Equal(t, 0.25, cfg.IoUThreshold)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"radius":`), 0o644))

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	cfg := DefaultConfig()
	cfg.CutoffY = 900
	cfg.Input = InputWindow
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate_ClampsOutOfRange(t *testing.T) {
	cfg := &Config{
		LogLevel:        "LOUD",
		RegionX:         -5,
		IoUThreshold:    3,
		Confidence:      -1,
		Steps:           -2,
		StepDelayMicros: -10,
		Input:           "mouse",
		QuitKey:         "esc",
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 0, cfg.RegionX)
	assert.Equal(t, 1920, cfg.RegionW)
	assert.Equal(t, 0.25, cfg.IoUThreshold)
	assert.Equal(t, 0.70, cfg.Confidence)
	assert.Equal(t, 50, cfg.Steps)
	assert.Equal(t, 0, cfg.StepDelayMicros)
	assert.Equal(t, InputGlobal, cfg.Input)
	// stop key must differ from the quit key
	assert.Equal(t, "x", cfg.StopKey)
}

func TestStepDelay(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Microsecond, cfg.StepDelay())
	cfg.StepDelayMicros = 250
	assert.Equal(t, 250*time.Microsecond, cfg.StepDelay())
}

func TestValidate_ResetsUnknownKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuitKey = "f13"
	cfg.StopKey = "ctrl"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "q", cfg.QuitKey)
	assert.Equal(t, "esc", cfg.StopKey)

	cfg.QuitKey = "Escape"
	cfg.StopKey = "F2"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "esc", cfg.QuitKey)
	assert.Equal(t, "f2", cfg.StopKey)
}
