package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

const deployConfigFile = "config.json"

// DeployConfigStore reads <data>/configs/<network>/config.json
type DeployConfigStore struct {
	configsDir string
}

// NewDeployConfigStore creates a new DeployConfigStore
func NewDeployConfigStore(cfg *config.RuntimeConfig) *DeployConfigStore {
	return &DeployConfigStore{configsDir: filepath.Join(cfg.DataDir, "configs")}
}

// Load parses the network's config file. Semantic checks are left to the caller.
func (s *DeployConfigStore) Load(_ context.Context, network string) (*domain.DeploymentConfig, error) {
	if err := domain.ValidateNetworkName(network); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.configsDir, network)
	exists, err := ensureDir(dir, false)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewConfigurationError(dir, "config directory not found", nil)
	}

	path := filepath.Join(dir, deployConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewConfigurationError(path, "config file not found", nil)
		}
		return nil, domain.NewConfigurationError(path, "failed to read config file", err)
	}

	var cfg domain.DeploymentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, domain.NewConfigurationError(path, "malformed config file", err)
	}
	return &cfg, nil
}

// Ensure DeployConfigStore implements DeployConfigRepository
var _ usecase.DeployConfigRepository = (*DeployConfigStore)(nil)
