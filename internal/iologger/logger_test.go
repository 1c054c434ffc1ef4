package iologger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/errcode"
)

func TestNewHandler_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf,
		config.LogConfig{Format: "json", Level: "info"}))

	logger.Info("dataset located", "dataset", "stream")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dataset located", entry["msg"])
	assert.Equal(t, "stream", entry["dataset"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNewHandler_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf,
		config.LogConfig{Format: "text", Level: "info"}))

	logger.Info("dataset located", "dataset", "stream")

	output := buf.String()
	assert.Contains(t, output, "dataset located")
	assert.Contains(t, output, "dataset=stream")
	assert.Contains(t, output, "level=INFO")
}

func TestNewHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf,
		config.LogConfig{Format: "text", Level: "warn"}))

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		res   slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, parseLevel(v.input), v.input)
	}
}

func TestInit_File(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	logDir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}

	require.NoError(t, Init(logDir, cfg, false))
	slog.Info("first run")
	require.NoError(t, Init(logDir, cfg, true))
	slog.Info("second run")

	content, err := os.ReadFile(filepath.Join(logDir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "first run")
	assert.Contains(t, string(content), "second run")

	require.NoError(t, Init(logDir, cfg, false))
	content, err = os.ReadFile(filepath.Join(logDir, LogFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "first run",
		"log file is truncated when not appending")
}

func TestInit_MissingDir(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	logDir := filepath.Join(t.TempDir(), "missing")
	cfg := config.LogConfig{Destination: "file"}

	err := Init(logDir, cfg, false)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, filepath.Join(logDir, LogFileName), gnErr.Vars[0])
	assert.Contains(t, gnErr.Msg, "GEOFAB_LOG_DESTINATION")
	assert.ErrorIs(t, gnErr.Err, os.ErrNotExist)
}
