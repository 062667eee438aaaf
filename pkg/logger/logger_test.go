package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(Config{Level: "warn", Format: "json", Output: path})

	log.Info().Msg("dropped")
	log.WithComponent("feed").WithSource("rss", "Go Blog").Warn().Msg("slow source")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "info is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "slow source", entry["message"])
	assert.Equal(t, "feed", entry["component"])
	assert.Equal(t, "rss", entry["source_type"])
	assert.Equal(t, "Go Blog", entry["source_name"])
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(Config{Level: "loud", Output: path})

	log.Debug().Msg("hidden")
	log.WithUser("u1").Info().Msg("shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"user_id":"u1"`)
}
