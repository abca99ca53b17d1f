package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	DataDir      string // root of contracts/ and configs/
	PrivDir      string // tool-private files: fork pid/log, chain id cache
	ArtifactsDir string // Foundry build output

	// Context settings
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	Format         string // table, json or yaml
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	DryRun     bool
	PrivateKey string

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}
