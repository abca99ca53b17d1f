package usecase

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/domain/config"
)

const (
	// DefaultContractName is the record key and artifact of the staking contract
	DefaultContractName = "WarpStake"
	// ProxyArtifactName is the ERC-1967 proxy the implementation is deployed behind
	ProxyArtifactName = "ERC1967Proxy"
	// DefaultForkPort is the local port of the dry-run fork
	DefaultForkPort = "8545"

	initializer = "initialize"
)

// forkFunding is the balance given to the deployer on a dry-run fork
var forkFunding = new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))

// DeployStakingParams contains parameters for a deployment
type DeployStakingParams struct {
	Network      string
	PrivateKey   string
	ContractName string
	DryRun       bool
	ForkPort     string
	SkipConfirm  bool
	Progress     ProgressSink
}

// DeployStakingResult contains the result of a deployment
type DeployStakingResult struct {
	Network        string
	ChainID        uint64
	DryRun         bool
	ContractName   string
	Deployer       common.Address
	Record         domain.DeploymentRecord
	Entry          domain.HistoryEntry
	HistoryFile    string
	RecordPath     string
	BalanceBefore  *big.Int
	BalanceAfter   *big.Int
	Spent          *big.Int
	GasUsed        uint64
	Warnings       []string
	TokenMetadata  *domain.TokenMetadata
	Implementation common.Address
}

// DeployStaking deploys the staking contract behind a fresh proxy and records the result
type DeployStaking struct {
	config    *config.RuntimeConfig
	resolver  NetworkResolver
	connector ChainConnector
	forks     ForkManager
	artifacts ArtifactRepository
	loader    *LoadDeployConfig
	records   DeploymentRecordRepository
	history   DeploymentHistoryRepository
	prompter  Prompter
	log       *slog.Logger
}

// NewDeployStaking creates a new DeployStaking use case
func NewDeployStaking(
	cfg *config.RuntimeConfig,
	resolver NetworkResolver,
	connector ChainConnector,
	forks ForkManager,
	artifacts ArtifactRepository,
	loader *LoadDeployConfig,
	records DeploymentRecordRepository,
	history DeploymentHistoryRepository,
	prompter Prompter,
	log *slog.Logger,
) *DeployStaking {
	return &DeployStaking{
		config:    cfg,
		resolver:  resolver,
		connector: connector,
		forks:     forks,
		artifacts: artifacts,
		loader:    loader,
		records:   records,
		history:   history,
		prompter:  prompter,
		log:       log,
	}
}

// Run executes the deployment
func (uc *DeployStaking) Run(ctx context.Context, params DeployStakingParams) (result *DeployStakingResult, err error) {
	progress := params.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	if params.ContractName == "" {
		params.ContractName = DefaultContractName
	}
	if params.ForkPort == "" {
		params.ForkPort = DefaultForkPort
	}

	key, err := ParsePrivateKey(params.PrivateKey)
	if err != nil {
		return nil, err
	}
	deployer := crypto.PubkeyToAddress(key.PublicKey)

	networkName, err := uc.selectNetwork(ctx, params.Network)
	if err != nil {
		return nil, err
	}

	network, err := uc.resolver.Resolve(ctx, networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network: %w", err)
	}

	rpcURL := network.RPCURL
	if params.DryRun {
		fork := &domain.AnvilInstance{
			Name:    "fork-" + network.Name,
			Port:    params.ForkPort,
			ChainID: fmt.Sprint(domain.ForkChainID),
			ForkURL: network.RPCURL,
		}
		progress.OnProgress(ctx, ProgressEvent{Stage: "fork", Message: fmt.Sprintf("Forking %s on port %s", network.Name, fork.Port), Spinner: true})
		if err := uc.forks.Start(ctx, fork); err != nil {
			return nil, fmt.Errorf("failed to start fork: %w", err)
		}
		defer func() {
			// The caller's context may already be cancelled
			if stopErr := uc.forks.Stop(context.Background(), fork); stopErr != nil {
				uc.log.Warn("failed to stop fork", "name", fork.Name, "error", stopErr)
				if err == nil {
					err = fmt.Errorf("failed to stop fork: %w", stopErr)
				}
			}
		}()
		if err := uc.verifyFork(ctx, fork); err != nil {
			return nil, err
		}
		rpcURL = fork.RPCURL()
		uc.fundOnFork(ctx, fork, deployer)
	}

	client, err := uc.connector.Dial(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer client.Close()

	if params.DryRun {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read fork chain id: %w", err)
		}
		if chainID != domain.ForkChainID {
			return nil, fmt.Errorf("fork on port %s reports chain id %d, expected %d: another node may hold the port", params.ForkPort, chainID, domain.ForkChainID)
		}
	}

	balanceBefore, err := client.BalanceAt(ctx, deployer)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployer balance: %w", err)
	}
	progress.Info(fmt.Sprintf("Deployer %s balance: %s ETH", deployer.Hex(), FormatEther(balanceBefore)))

	loaded, err := uc.loader.Run(ctx, LoadDeployConfigParams{
		Network: network.Name,
		DryRun:  params.DryRun,
		Client:  client,
	})
	if err != nil {
		return nil, err
	}

	persist := !params.DryRun
	records, err := uc.records.Open(ctx, network.Name, persist)
	if err != nil {
		return nil, err
	}
	history, err := uc.history.Open(ctx, network.Name, persist)
	if err != nil {
		return nil, err
	}

	if !params.DryRun && !params.SkipConfirm {
		ok, err := uc.prompter.Confirm(ctx, fmt.Sprintf("Deploy %s to %s (chain %d) from %s", params.ContractName, network.Name, loaded.ChainID, deployer.Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeploymentCancelled
		}
	}

	impl, err := uc.artifacts.GetArtifact(ctx, params.ContractName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s artifact: %w", params.ContractName, err)
	}
	proxyArtifact, err := uc.artifacts.GetArtifact(ctx, ProxyArtifactName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s artifact: %w", ProxyArtifactName, err)
	}

	deployed, err := client.DeployProxy(ctx, DeployProxyRequest{
		Implementation: impl,
		Proxy:          proxyArtifact,
		Initializer:    initializer,
		InitArgs:       []any{loaded.Token, loaded.TransferManager},
		Key:            key,
		Overrides:      loaded.Config.EthConnection.EthOptions,
		Progress:       progress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", params.ContractName, err)
	}

	implementation, err := client.ImplementationAddress(ctx, deployed.Proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to read implementation of %s: %w", deployed.Proxy.Hex(), err)
	}
	if implementation != deployed.Implementation {
		uc.log.Warn("proxy implementation slot differs from deployed implementation",
			"slot", implementation.Hex(), "deployed", deployed.Implementation.Hex())
	}

	tx := deployed.ProxyTx.Hex()
	entry := domain.HistoryEntry{
		Proxy:          deployed.Proxy.Hex(),
		Implementation: implementation.Hex(),
		Tx:             &tx,
	}
	record := domain.DeploymentRecord{
		Proxy:          entry.Proxy,
		Implementation: entry.Implementation,
	}

	historyFile, err := history.Append(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to write deployment history: %w", err)
	}
	if err := records.Set(ctx, params.ContractName, record); err != nil {
		return nil, fmt.Errorf("failed to write deployment record: %w", err)
	}

	balanceAfter, err := client.BalanceAt(ctx, deployer)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployer balance: %w", err)
	}

	return &DeployStakingResult{
		Network:        network.Name,
		ChainID:        loaded.ChainID,
		DryRun:         params.DryRun,
		ContractName:   params.ContractName,
		Deployer:       deployer,
		Record:         record,
		Entry:          entry,
		HistoryFile:    historyFile,
		RecordPath:     records.Path(),
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceAfter,
		Spent:          new(big.Int).Sub(balanceBefore, balanceAfter),
		GasUsed:        deployed.GasUsed,
		Warnings:       loaded.Warnings,
		TokenMetadata:  loaded.TokenMetadata,
		Implementation: deployed.Implementation,
	}, nil
}

func (uc *DeployStaking) selectNetwork(ctx context.Context, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if uc.config.NonInteractive {
		return "", errors.New("no network specified: use --network")
	}
	networks := uc.resolver.GetNetworks()
	if len(networks) == 0 {
		return "", errors.New("no networks configured in foundry.toml [rpc_endpoints]")
	}
	return uc.prompter.SelectNetwork(ctx, networks)
}

// verifyFork checks that the started fork is ours and answers with the fork chain id
func (uc *DeployStaking) verifyFork(ctx context.Context, fork *domain.AnvilInstance) error {
	status, err := uc.forks.GetStatus(ctx, fork)
	if err != nil {
		return fmt.Errorf("failed to check fork status: %w", err)
	}
	switch {
	case !status.Running:
		return fmt.Errorf("fork %s is not running, see %s", fork.Name, status.LogFile)
	case !status.RPCHealthy:
		return fmt.Errorf("fork %s does not answer on %s: %s", fork.Name, status.RPCURL, status.Error)
	case status.ChainID != domain.ForkChainID:
		return fmt.Errorf("fork on port %s reports chain id %d, expected %d", fork.Port, status.ChainID, domain.ForkChainID)
	}
	return nil
}

// fundOnFork is best effort: a deployer funded on the live network can still deploy on the fork
func (uc *DeployStaking) fundOnFork(ctx context.Context, fork *domain.AnvilInstance, deployer common.Address) {
	if err := uc.forks.SetBalance(ctx, fork, deployer, forkFunding); err != nil {
		uc.log.Warn("failed to fund deployer on fork", "address", deployer.Hex(), "error", err)
	}
}

// ParsePrivateKey parses a hex secp256k1 key, with or without 0x. The key never appears in errors.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, domain.NewValidationError("private key", "", "required: use --private-key or WSDEPLOY_PRIVATE_KEY")
	}
	hexKey = strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, domain.NewValidationError("private key", "", "not a valid secp256k1 key")
	}
	return key, nil
}

// FormatEther renders wei as ETH with up to 18 decimals and no trailing zeros
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, big.NewInt(1e18), new(big.Int))
	s := whole.String()
	if frac.Sign() != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%018d", frac), "0")
	}
	if neg {
		s = "-" + s
	}
	return s
}
