package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EKMAN_CONFIG_DIR", dir)
	t.Setenv("EKMAN_BACKEND", "")
	t.Setenv("EKMAN_SERVER_URL", "")
	t.Setenv("EKMAN_DB", "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, c.Backend)
	assert.Equal(t, filepath.Join(dir, "ekman.db"), c.Database)
	assert.Equal(t, 2.5, c.WeightStep)
	assert.Equal(t, 10*time.Second, c.RequestTimeout.Duration)
	require.NoError(t, c.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EKMAN_CONFIG_DIR", dir)
	t.Setenv("EKMAN_BACKEND", "")
	t.Setenv("EKMAN_DB", "")
	t.Setenv("EKMAN_SERVER_URL", "https://gym.example.com")

	body := `
backend = "remote"
server_url = "http://localhost:9999"
weight_step = 1.25
graph_metric = "est_1rm"
request_timeout = "3s"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, c.Backend)
	assert.Equal(t, "https://gym.example.com", c.ServerURL)
	assert.Equal(t, 1.25, c.WeightStep)
	assert.Equal(t, "est_1rm", c.GraphMetric)
	assert.Equal(t, 3*time.Second, c.RequestTimeout.Duration)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 50, c.GraphPoints, "unset keys keep their defaults")
	require.NoError(t, c.Validate())
}

func TestLoadFromFile_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("colour = \"red\"\n"), 0o644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Backend = "carrier-pigeon"
	c.WeightStep = 0
	c.GraphMetric = "vibes"

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")
	assert.Contains(t, err.Error(), "weight_step")
	assert.Contains(t, err.Error(), "vibes")

	c = Default()
	c.Backend = BackendRemote
	c.ServerURL = "localhost"
	assert.Error(t, c.Validate())
}

func TestSaveToFile_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	c := Default()
	c.Backend = BackendRemote
	c.RequestTimeout = Duration{42 * time.Second}
	require.NoError(t, c.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}
