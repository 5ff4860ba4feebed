package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Update modes for the pose bridge network path. Absolute replaces the stored
// pose wholesale; relative adds the received position as a delta while still
// replacing the rotation.
const (
	UpdateModeAbsolute = "absolute"
	UpdateModeRelative = "relative"
)

// Config represents the posebridge configuration loaded at startup
type Config struct {
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Bridge  BridgeConfig  `yaml:"bridge" json:"bridge"`
	Viewer  ViewerConfig  `yaml:"viewer" json:"viewer"`
	ZeroMQ  ZeroMQConfig  `yaml:"zeromq" json:"zeromq"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogPath string `yaml:"log_path,omitempty" json:"log_path,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	HTTPPort int `yaml:"http_port" json:"http_port"`
}

// BridgeConfig holds the UDP pose bridge settings. The bridge is entirely
// inert (no socket opened, no goroutine started) unless Enabled is true.
type BridgeConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	ListenAddress string `yaml:"listen_address" json:"listen_address"`
	ReceiveBuffer int    `yaml:"receive_buffer" json:"receive_buffer"`
	UpdateMode    string `yaml:"update_mode" json:"update_mode"`
}

// ViewerConfig holds frame loop settings
type ViewerConfig struct {
	FrameRateHz int `yaml:"frame_rate_hz" json:"frame_rate_hz"`
}

// ZeroMQConfig holds the optional pose republisher settings
type ZeroMQConfig struct {
	Enabled            bool   `yaml:"enabled" json:"enabled"`
	PublishBindAddress string `yaml:"publish_bind_address" json:"publish_bind_address"`
}

// LoadConfig loads the configuration from the specified YAML file,
// validates required fields and applies defaults for the rest.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in defaults for fields the file left unset
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Bridge.ListenAddress == "" {
		c.Bridge.ListenAddress = "0.0.0.0:4444"
	}
	if c.Bridge.ReceiveBuffer == 0 {
		c.Bridge.ReceiveBuffer = 1024
	}
	if c.Bridge.UpdateMode == "" {
		c.Bridge.UpdateMode = UpdateModeAbsolute
	}
	if c.Viewer.FrameRateHz == 0 {
		c.Viewer.FrameRateHz = 60
	}
}

// validate checks required fields and value ranges
func (c *Config) validate() error {
	if c.Bridge.UpdateMode != UpdateModeAbsolute && c.Bridge.UpdateMode != UpdateModeRelative {
		return fmt.Errorf("invalid value for bridge.update_mode: '%s' (expected '%s' or '%s')",
			c.Bridge.UpdateMode, UpdateModeAbsolute, UpdateModeRelative)
	}
	if c.Bridge.ReceiveBuffer < 0 {
		return fmt.Errorf("invalid value for bridge.receive_buffer: %d", c.Bridge.ReceiveBuffer)
	}
	if c.Viewer.FrameRateHz < 1 {
		return fmt.Errorf("invalid value for viewer.frame_rate_hz: %d", c.Viewer.FrameRateHz)
	}
	if c.ZeroMQ.Enabled && c.ZeroMQ.PublishBindAddress == "" {
		return fmt.Errorf("missing required field in config: zeromq.publish_bind_address")
	}
	return nil
}
