package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigPath = "/etc/gpstaild/config.toml"

	DefaultNMEAPath = "/media/internal/location"
	DefaultNMEAFile = "gps.nmea"

	// DefaultLatencyMs applies when the latency key is absent or zero
	DefaultLatencyMs = 2000

	DefaultWorkers = 1
)

var ErrInvalidConfig = errors.New("invalid configuration")

// GPSConfig selects the tailed sentence log and the dispatch behavior.
type GPSConfig struct {
	// Directory holding the sentence log
	Path string `toml:"path"`

	// File name of the sentence log
	File string `toml:"file"`

	// Latency in milliseconds; the dispatch pacing interval is half of it
	Latency int `toml:"latency"`

	// Dispatch pool worker count
	Workers int `toml:"workers"`
}

// MQTTConfig enables the fix exporter when a broker is set.
type MQTTConfig struct {
	Broker      string `toml:"broker"`
	ClientID    string `toml:"client_id"`
	TopicPrefix string `toml:"topic_prefix"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

type Config struct {
	GPS  GPSConfig  `toml:"gps"`
	MQTT MQTTConfig `toml:"mqtt,omitempty"`
	Log  LogConfig  `toml:"log,omitempty"`
}

// Default returns the configuration used when no file overrides anything.
func Default() Config {
	return Config{
		GPS: GPSConfig{
			Path:    DefaultNMEAPath,
			File:    DefaultNMEAFile,
			Latency: DefaultLatencyMs,
			Workers: DefaultWorkers,
		},
		MQTT: MQTTConfig{
			ClientID:    "gpstaild",
			TopicPrefix: "gpstaild",
		},
	}
}

// applyDefaults fills zero values after decoding, so a sparse file works.
func (c *Config) applyDefaults() {
	if c.GPS.Path == "" {
		c.GPS.Path = DefaultNMEAPath
	}
	if c.GPS.File == "" {
		c.GPS.File = DefaultNMEAFile
	}
	if c.GPS.Latency <= 0 {
		c.GPS.Latency = DefaultLatencyMs
	}
	if c.GPS.Workers <= 0 {
		c.GPS.Workers = DefaultWorkers
	}
	if c.MQTT.Broker != "" && c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "gpstaild"
	}
	if c.MQTT.Broker != "" && c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "gpstaild"
	}
}

func (c *Config) validate() error {
	if c.GPS.Path == "" || c.GPS.File == "" {
		return fmt.Errorf("%w: gps path and file must be set", ErrInvalidConfig)
	}
	return nil
}

// Load reads and decodes the TOML configuration at path. A missing file is
// an error; the session cannot start without its configuration.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
