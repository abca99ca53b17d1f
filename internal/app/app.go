package app

import (
	"log/slog"

	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Log      *slog.Logger
	Progress usecase.ProgressSink

	// Use cases
	DeployStaking  *usecase.DeployStaking
	CheckConfig    *usecase.CheckConfig
	ShowDeployment *usecase.ShowDeployment
	ListHistory    *usecase.ListHistory
	ListNetworks   *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	progress usecase.ProgressSink,
	deployStaking *usecase.DeployStaking,
	checkConfig *usecase.CheckConfig,
	showDeployment *usecase.ShowDeployment,
	listHistory *usecase.ListHistory,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:         cfg,
		Log:            log,
		Progress:       progress,
		DeployStaking:  deployStaking,
		CheckConfig:    checkConfig,
		ShowDeployment: showDeployment,
		ListHistory:    listHistory,
		ListNetworks:   listNetworks,
	}, nil
}
