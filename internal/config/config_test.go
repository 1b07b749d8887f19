package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[gps]
path = "/data/location"
file = "receiver.nmea"
latency = 500
workers = 2

[mqtt]
broker = "tcp://localhost:1883"
client_id = "bench-unit"
topic_prefix = "bench"

[log]
debug = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/location", cfg.GPS.Path)
	assert.Equal(t, "receiver.nmea", cfg.GPS.File)
	assert.Equal(t, 500, cfg.GPS.Latency)
	assert.Equal(t, 2, cfg.GPS.Workers)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "bench-unit", cfg.MQTT.ClientID)
	assert.True(t, cfg.Log.Debug)
}

func TestLoadAppliesDefaults(t *testing.T) {
	// latency 0 means "not configured", the default takes over
	path := writeConfig(t, `
[gps]
latency = 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultNMEAPath, cfg.GPS.Path)
	assert.Equal(t, DefaultNMEAFile, cfg.GPS.File)
	assert.Equal(t, DefaultLatencyMs, cfg.GPS.Latency)
	assert.Equal(t, DefaultWorkers, cfg.GPS.Workers)
	assert.Empty(t, cfg.MQTT.Broker)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := writeConfig(t, "[gps\nnot toml at all")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultRoundTripsThroughTOML(t *testing.T) {
	raw, err := toml.Marshal(Default())
	require.NoError(t, err)

	path := writeConfig(t, string(raw))
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
}
