package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "posebridge.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfig(t *testing.T) {
	configContent := `
logging:
  level: "debug"
  log_path: "/var/log/posebridge"
server:
  http_port: 9090
bridge:
  enabled: true
  listen_address: "0.0.0.0:4444"
  receive_buffer: 1024
  update_mode: "absolute"
viewer:
  frame_rate_hz: 30
zeromq:
  enabled: true
  publish_bind_address: "tcp://*:5556"
`
	configPath := writeTestConfig(t, configContent)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected logging level 'debug', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.LogPath != "/var/log/posebridge" {
		t.Errorf("Expected log path '/var/log/posebridge', got '%s'", cfg.Logging.LogPath)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("Expected server http_port 9090, got %d", cfg.Server.HTTPPort)
	}
	if !cfg.Bridge.Enabled {
		t.Errorf("Expected bridge enabled")
	}
	if cfg.Bridge.ListenAddress != "0.0.0.0:4444" {
		t.Errorf("Expected bridge listen_address '0.0.0.0:4444', got '%s'", cfg.Bridge.ListenAddress)
	}
	if cfg.Bridge.ReceiveBuffer != 1024 {
		t.Errorf("Expected bridge receive_buffer 1024, got %d", cfg.Bridge.ReceiveBuffer)
	}
	if cfg.Bridge.UpdateMode != UpdateModeAbsolute {
		t.Errorf("Expected bridge update_mode 'absolute', got '%s'", cfg.Bridge.UpdateMode)
	}
	if cfg.Viewer.FrameRateHz != 30 {
		t.Errorf("Expected viewer frame_rate_hz 30, got %d", cfg.Viewer.FrameRateHz)
	}
	if !cfg.ZeroMQ.Enabled {
		t.Errorf("Expected zeromq enabled")
	}
	if cfg.ZeroMQ.PublishBindAddress != "tcp://*:5556" {
		t.Errorf("Expected zeromq publish_bind_address 'tcp://*:5556', got '%s'", cfg.ZeroMQ.PublishBindAddress)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// A minimal file gets defaults for everything it omits
	configContent := `
bridge:
  enabled: true
`
	configPath := writeTestConfig(t, configContent)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default logging level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("Expected default http_port 8080, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Bridge.ListenAddress != "0.0.0.0:4444" {
		t.Errorf("Expected default listen_address '0.0.0.0:4444', got '%s'", cfg.Bridge.ListenAddress)
	}
	if cfg.Bridge.ReceiveBuffer != 1024 {
		t.Errorf("Expected default receive_buffer 1024, got %d", cfg.Bridge.ReceiveBuffer)
	}
	if cfg.Bridge.UpdateMode != UpdateModeAbsolute {
		t.Errorf("Expected default update_mode 'absolute', got '%s'", cfg.Bridge.UpdateMode)
	}
	if cfg.Viewer.FrameRateHz != 60 {
		t.Errorf("Expected default frame_rate_hz 60, got %d", cfg.Viewer.FrameRateHz)
	}
	if cfg.ZeroMQ.Enabled {
		t.Errorf("Expected zeromq disabled by default")
	}
}

func TestLoadConfigInvalidUpdateMode(t *testing.T) {
	configContent := `
bridge:
  enabled: true
  update_mode: "differential"
`
	configPath := writeTestConfig(t, configContent)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatalf("Expected error for invalid update_mode, got nil")
	}
	if !strings.Contains(err.Error(), "bridge.update_mode") {
		t.Errorf("Expected error to mention bridge.update_mode, got: %v", err)
	}
}

func TestLoadConfigMissingZeroMQAddress(t *testing.T) {
	configContent := `
zeromq:
  enabled: true
`
	configPath := writeTestConfig(t, configContent)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatalf("Expected error for missing publish_bind_address, got nil")
	}
	if !strings.Contains(err.Error(), "zeromq.publish_bind_address") {
		t.Errorf("Expected error to mention zeromq.publish_bind_address, got: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("Expected error for missing config file, got nil")
	}
}
