package usecase

import (
	"context"
	"fmt"
)

// CheckConfigParams contains parameters for checking a network config
type CheckConfigParams struct {
	Network string
	DryRun  bool
}

// CheckConfigResult holds the validated config and the chain it was checked against
type CheckConfigResult struct {
	Network string
	RPCURL  string
	*LoadDeployConfigResult
}

// CheckConfig validates configs/<network>/config.json against the live network without deploying
type CheckConfig struct {
	resolver  NetworkResolver
	connector ChainConnector
	loader    *LoadDeployConfig
}

// NewCheckConfig creates a new CheckConfig use case
func NewCheckConfig(resolver NetworkResolver, connector ChainConnector, loader *LoadDeployConfig) *CheckConfig {
	return &CheckConfig{
		resolver:  resolver,
		connector: connector,
		loader:    loader,
	}
}

// Run executes the use case
func (uc *CheckConfig) Run(ctx context.Context, params CheckConfigParams) (*CheckConfigResult, error) {
	network, err := uc.resolver.Resolve(ctx, params.Network)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network: %w", err)
	}

	client, err := uc.connector.Dial(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer client.Close()

	loaded, err := uc.loader.Run(ctx, LoadDeployConfigParams{
		Network: network.Name,
		DryRun:  params.DryRun,
		Client:  client,
	})
	if err != nil {
		return nil, err
	}

	return &CheckConfigResult{
		Network:                network.Name,
		RPCURL:                 network.RPCURL,
		LoadDeployConfigResult: loaded,
	}, nil
}
