package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/warpstake/wsdeploy/internal/domain"
)

// LoadDeployConfigParams contains parameters for loading a deploy config
type LoadDeployConfigParams struct {
	Network string
	DryRun  bool
	// Client is the connection the deployment will use. In a dry run it points at the fork.
	Client ChainClient
}

// LoadDeployConfigResult is a fully validated deploy config
type LoadDeployConfigResult struct {
	Config          *domain.DeploymentConfig
	Token           common.Address
	TransferManager common.Address
	TokenMetadata   *domain.TokenMetadata
	ChainID         uint64
	Warnings        []string
}

// LoadDeployConfig reads configs/<network>/config.json and validates it against the chain
type LoadDeployConfig struct {
	repo DeployConfigRepository
	log  *slog.Logger
}

// NewLoadDeployConfig creates a new LoadDeployConfig use case
func NewLoadDeployConfig(repo DeployConfigRepository, log *slog.Logger) *LoadDeployConfig {
	return &LoadDeployConfig{repo: repo, log: log}
}

// Run loads and validates the config. Any failure is a ConfigurationError or a ValidationError.
func (uc *LoadDeployConfig) Run(ctx context.Context, params LoadDeployConfigParams) (*LoadDeployConfigResult, error) {
	cfg, err := uc.repo.Load(ctx, params.Network)
	if err != nil {
		return nil, err
	}

	result := &LoadDeployConfigResult{Config: cfg}

	chainID, err := params.Client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	result.ChainID = chainID

	if !params.DryRun && cfg.EthConnection.ChainID != chainID {
		return nil, domain.NewValidationError(
			"ethConnection.chainId",
			fmt.Sprint(cfg.EthConnection.ChainID),
			fmt.Sprintf("connected network reports chain id %d", chainID),
		)
	}

	if cfg.EthConnection.EthOptions == nil {
		warning := "ethOptions are undefined: this may cause unexpected deployment failures"
		uc.log.Warn(warning, "network", params.Network)
		result.Warnings = append(result.Warnings, warning)
	} else if err := validateOverrides(cfg.EthConnection.EthOptions); err != nil {
		return nil, err
	}

	token, err := parseAddress("token", cfg.Token.Address)
	if err != nil {
		return nil, err
	}
	result.Token = token

	transferManager, err := parseAddress("transferManager", cfg.TransferManager)
	if err != nil {
		return nil, err
	}
	result.TransferManager = transferManager

	if cfg.Token.HasMetadata() {
		meta, err := params.Client.TokenMetadata(ctx, token)
		if err != nil {
			return nil, domain.NewValidationError("token", cfg.Token.Address, fmt.Sprintf("failed to read ERC-20 metadata: %v", err))
		}
		if cfg.Token.Symbol != "" && cfg.Token.Symbol != meta.Symbol {
			return nil, domain.NewValidationError("token.symbol", cfg.Token.Symbol, fmt.Sprintf("on-chain symbol is %q", meta.Symbol))
		}
		if cfg.Token.Decimals != nil && *cfg.Token.Decimals != meta.Decimals {
			return nil, domain.NewValidationError("token.decimals", fmt.Sprint(*cfg.Token.Decimals), fmt.Sprintf("on-chain decimals are %d", meta.Decimals))
		}
		result.TokenMetadata = meta
	}

	return result, nil
}

// parseAddress accepts all-lowercase or all-uppercase hex, and mixed case only with a valid EIP-55 checksum
func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, domain.NewValidationError(field, value, "not an address")
	}

	address := common.HexToAddress(value)
	body := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	mixed := strings.ToLower(body) != body && strings.ToUpper(body) != body
	if mixed && address.Hex()[2:] != body {
		return common.Address{}, domain.NewValidationError(field, value, "bad address checksum")
	}
	return address, nil
}

func validateOverrides(o *domain.TxOverrides) error {
	if o.GasPrice != nil && (o.MaxFeePerGas != nil || o.MaxPriorityFeePerGas != nil) {
		return domain.NewValidationError("ethConnection.ethOptions", "", "gasPrice cannot be combined with maxFeePerGas or maxPriorityFeePerGas")
	}
	if o.MaxFeePerGas != nil && o.MaxPriorityFeePerGas != nil && o.MaxPriorityFeePerGas.ToInt().Cmp(o.MaxFeePerGas.ToInt()) > 0 {
		return domain.NewValidationError("ethConnection.ethOptions.maxPriorityFeePerGas", o.MaxPriorityFeePerGas.ToInt().String(), "exceeds maxFeePerGas")
	}
	if o.GasLimit != nil && !o.GasLimit.ToInt().IsUint64() {
		return domain.NewValidationError("ethConnection.ethOptions.gasLimit", o.GasLimit.ToInt().String(), "does not fit in 64 bits")
	}
	if o.Nonce != nil && !o.Nonce.ToInt().IsUint64() {
		return domain.NewValidationError("ethConnection.ethOptions.nonce", o.Nonce.ToInt().String(), "does not fit in 64 bits")
	}
	return nil
}
