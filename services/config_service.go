package services

import (
	"fmt"
	"os"
	"sync"

	"github.com/splatview/posebridge/pkg/config"
	customlog "github.com/splatview/posebridge/pkg/log"
	"gopkg.in/yaml.v3"
)

// BridgeConfigService defines the interface for serving the operational
// posebridge configuration to the HTTP API. The configuration is fixed at
// startup; the enable switch and socket settings are not hot-reloadable.
type BridgeConfigService interface {
	LoadConfig() error
	GetCurrentConfig() *config.Config
	GetCurrentConfigYAML() ([]byte, error)
}

// bridgeConfigService implements the BridgeConfigService interface.
type bridgeConfigService struct {
	configPath    string
	logger        customlog.Logger
	currentConfig *config.Config
	currentYAML   []byte
	mu            sync.RWMutex
}

// NewBridgeConfigService creates a new BridgeConfigService for the given
// config file path.
func NewBridgeConfigService(configPath string, logger customlog.Logger) (BridgeConfigService, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &bridgeConfigService{
		configPath: configPath,
		logger:     logger,
	}, nil
}

// LoadConfig reads and parses the configuration file, caching both the typed
// config and the raw YAML for the API.
func (s *bridgeConfigService) LoadConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("error reading config file '%s': %w", s.configPath, err)
	}

	s.currentConfig = cfg
	s.currentYAML = data
	s.logger.Infof("Loaded bridge configuration from %s", s.configPath)
	return nil
}

// GetCurrentConfig returns the cached configuration, or nil before LoadConfig.
func (s *bridgeConfigService) GetCurrentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentConfig
}

// GetCurrentConfigYAML returns the configuration serialized as YAML. The
// cached file content is preferred; if it is absent the typed config is
// marshaled instead.
func (s *bridgeConfigService) GetCurrentConfigYAML() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentYAML != nil {
		return s.currentYAML, nil
	}
	if s.currentConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	data, err := yaml.Marshal(s.currentConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}
