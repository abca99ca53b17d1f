//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/warpstake/wsdeploy/internal/adapters"
	"github.com/warpstake/wsdeploy/internal/config"
	"github.com/warpstake/wsdeploy/internal/logging"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewLoadDeployConfig,
		usecase.NewDeployStaking,
		usecase.NewCheckConfig,
		usecase.NewShowDeployment,
		usecase.NewListHistory,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
