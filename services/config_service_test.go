package services

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// testLogger discards all output
type testLogger struct{}

func (testLogger) Debugf(format string, args ...interface{}) {}
func (testLogger) Infof(format string, args ...interface{})  {}
func (testLogger) Warnf(format string, args ...interface{})  {}
func (testLogger) Errorf(format string, args ...interface{}) {}
func (testLogger) Fatalf(format string, args ...interface{}) {}

func TestBridgeConfigService(t *testing.T) {
	configContent := []byte(`
logging:
  level: "info"
bridge:
  enabled: true
  listen_address: "0.0.0.0:4444"
`)
	configPath := filepath.Join(t.TempDir(), "posebridge.yaml")
	if err := os.WriteFile(configPath, configContent, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	svc, err := NewBridgeConfigService(configPath, testLogger{})
	if err != nil {
		t.Fatalf("NewBridgeConfigService failed: %v", err)
	}

	if svc.GetCurrentConfig() != nil {
		t.Errorf("Expected nil config before LoadConfig")
	}

	if err := svc.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	cfg := svc.GetCurrentConfig()
	if cfg == nil {
		t.Fatalf("Expected config after LoadConfig")
	}
	if !cfg.Bridge.Enabled {
		t.Errorf("Expected bridge enabled")
	}

	yamlData, err := svc.GetCurrentConfigYAML()
	if err != nil {
		t.Fatalf("GetCurrentConfigYAML failed: %v", err)
	}
	if !bytes.Equal(yamlData, configContent) {
		t.Errorf("Expected YAML to match the file content")
	}
}

func TestBridgeConfigServiceValidation(t *testing.T) {
	if _, err := NewBridgeConfigService("", testLogger{}); err == nil {
		t.Errorf("Expected error for empty config path")
	}
	if _, err := NewBridgeConfigService("some/path.yaml", nil); err == nil {
		t.Errorf("Expected error for nil logger")
	}
}
