package usecase

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/domain/models"
)

// Persistence interfaces

// DeploymentRecordStore holds the current records of one network
type DeploymentRecordStore interface {
	Get(name string) (domain.DeploymentRecord, bool)
	Set(ctx context.Context, name string, record domain.DeploymentRecord) error
	Records() domain.DeploymentRecords
	Path() string
}

// DeploymentRecordRepository opens record stores. With persist false, Set never touches the disk.
type DeploymentRecordRepository interface {
	Open(ctx context.Context, network string, persist bool) (DeploymentRecordStore, error)
}

// DeploymentHistoryStore is the append-only history of one network
type DeploymentHistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) (string, error)
	Latest(ctx context.Context) (string, bool, error)
	// List returns the files newest first. Latest flags are left to the caller.
	List(ctx context.Context) ([]domain.HistoryFile, error)
	Read(ctx context.Context, name string) (*domain.HistoryEntry, error)
	Dir() string
}

// DeploymentHistoryRepository opens history stores
type DeploymentHistoryRepository interface {
	Open(ctx context.Context, network string, persist bool) (DeploymentHistoryStore, error)
}

// DeployConfigRepository reads configs/<network>/config.json
type DeployConfigRepository interface {
	Load(ctx context.Context, network string) (*domain.DeploymentConfig, error)
}

// ArtifactRepository provides compiled contract artifacts
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
}

// Chain interfaces

// ChainConnector opens clients to JSON-RPC endpoints
type ChainConnector interface {
	Dial(ctx context.Context, rpcURL string) (ChainClient, error)
}

// ChainClient is the node API used by the deployer
type ChainClient interface {
	ChainID(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	TokenMetadata(ctx context.Context, token common.Address) (*domain.TokenMetadata, error)
	ImplementationAddress(ctx context.Context, proxy common.Address) (common.Address, error)
	DeployProxy(ctx context.Context, req DeployProxyRequest) (*DeployProxyResult, error)
	Close()
}

// DeployProxyRequest describes an implementation deployed behind a fresh ERC1967Proxy
type DeployProxyRequest struct {
	Implementation *models.Artifact
	Proxy          *models.Artifact
	Initializer    string
	InitArgs       []any
	Key            *ecdsa.PrivateKey
	Overrides      *domain.TxOverrides
	Progress       ProgressSink
}

// DeployProxyResult holds the mined deployment
type DeployProxyResult struct {
	Implementation   common.Address
	Proxy            common.Address
	ImplementationTx common.Hash
	ProxyTx          common.Hash
	GasUsed          uint64
}

// ForkManager runs local anvil forks
type ForkManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
	SetBalance(ctx context.Context, instance *domain.AnvilInstance, account common.Address, wei *big.Int) error
}

// NetworkResolver resolves network names from foundry.toml
type NetworkResolver interface {
	Resolve(ctx context.Context, name string) (*config.Network, error)
	GetNetworks() []string
}

// Interaction interfaces

// Prompter asks the operator
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	SelectNetwork(ctx context.Context, networks []string) (string, error)
}

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
