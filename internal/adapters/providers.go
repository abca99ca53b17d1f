package adapters

import (
	"github.com/google/wire"

	"github.com/warpstake/wsdeploy/internal/adapters/anvil"
	"github.com/warpstake/wsdeploy/internal/adapters/artifacts"
	"github.com/warpstake/wsdeploy/internal/adapters/blockchain"
	"github.com/warpstake/wsdeploy/internal/adapters/fs"
	"github.com/warpstake/wsdeploy/internal/adapters/interactive"
	"github.com/warpstake/wsdeploy/internal/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewRecordRepository,
	wire.Bind(new(usecase.DeploymentRecordRepository), new(*fs.RecordRepository)),

	fs.NewHistoryRepository,
	wire.Bind(new(usecase.DeploymentHistoryRepository), new(*fs.HistoryRepository)),

	fs.NewDeployConfigStore,
	wire.Bind(new(usecase.DeployConfigRepository), new(*fs.DeployConfigStore)),

	artifacts.NewLoader,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Loader)),
)

// BlockchainSet provides node and fork implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),

	anvil.NewManager,
	wire.Bind(new(usecase.ForkManager), new(*anvil.Manager)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPrompter,
	wire.Bind(new(usecase.Prompter), new(*interactive.Prompter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	BlockchainSet,
	InteractiveSet,
	ConfigSet,
)
