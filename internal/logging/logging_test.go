package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(Config{Level: "info", OutputPath: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Named("pipeline").Info("generated", zap.String("request_id", "abc"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "pipeline", entry["logger"])
	assert.Equal(t, "generated", entry["msg"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_DebugLevelAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(Config{Level: "DEBUG", Encoding: "console", OutputPath: path})
	require.NoError(t, err)

	logger.Debug("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG")
	assert.Contains(t, string(data), "visible")
}

func TestNew_InvalidLevel(t *testing.T) {
	logger, err := New(Config{Level: "loud"})
	assert.Error(t, err)
	assert.Nil(t, logger)
}
