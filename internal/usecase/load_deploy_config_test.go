package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

const (
	tokenAddr   = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	managerAddr = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
)

func validConfig() *domain.DeploymentConfig {
	return &domain.DeploymentConfig{
		Token:           domain.TokenConfig{Address: tokenAddr},
		TransferManager: managerAddr,
		EthConnection: domain.EthConnectionConfig{
			ChainID:    17000,
			EthOptions: &domain.TxOverrides{GasLimit: domain.NewQuantity(5_000_000)},
		},
	}
}

func runLoad(t *testing.T, cfg *domain.DeploymentConfig, client *MockChainClient, dryRun bool) (*usecase.LoadDeployConfigResult, error) {
	t.Helper()
	repo := new(MockDeployConfigRepository)
	repo.On("Load", mock.Anything, "holesky").Return(cfg, nil)
	uc := usecase.NewLoadDeployConfig(repo, discardLogger())
	return uc.Run(context.Background(), usecase.LoadDeployConfigParams{
		Network: "holesky",
		DryRun:  dryRun,
		Client:  client,
	})
}

func TestLoadDeployConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(17000), nil)

		result, err := runLoad(t, validConfig(), client, false)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(tokenAddr), result.Token)
		assert.Equal(t, common.HexToAddress(managerAddr), result.TransferManager)
		assert.Equal(t, uint64(17000), result.ChainID)
		assert.Empty(t, result.Warnings)
		assert.Nil(t, result.TokenMetadata)
		client.AssertNotCalled(t, "TokenMetadata", mock.Anything, mock.Anything)
	})

	t.Run("file layer errors propagate", func(t *testing.T) {
		repo := new(MockDeployConfigRepository)
		cfgErr := domain.NewConfigurationError("configs/holesky", "config directory not found", nil)
		repo.On("Load", mock.Anything, "holesky").Return(nil, cfgErr)

		uc := usecase.NewLoadDeployConfig(repo, discardLogger())
		_, err := uc.Run(context.Background(), usecase.LoadDeployConfigParams{Network: "holesky", Client: new(MockChainClient)})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("chain id mismatch", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(1), nil)

		_, err := runLoad(t, validConfig(), client, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "ethConnection.chainId")
	})

	t.Run("missing chain id is a mismatch", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
		cfg := validConfig()
		cfg.EthConnection.ChainID = 0

		_, err := runLoad(t, cfg, client, false)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("dry run skips the chain id check", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(domain.ForkChainID, nil)

		result, err := runLoad(t, validConfig(), client, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ForkChainID, result.ChainID)
	})

	t.Run("missing ethOptions warns", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
		cfg := validConfig()
		cfg.EthConnection.EthOptions = nil

		result, err := runLoad(t, cfg, client, false)
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "ethOptions")
	})

	t.Run("gasPrice with 1559 fees", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
		cfg := validConfig()
		cfg.EthConnection.EthOptions.GasPrice = domain.NewQuantity(10)
		cfg.EthConnection.EthOptions.MaxFeePerGas = domain.NewQuantity(20)

		_, err := runLoad(t, cfg, client, false)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("priority fee above max fee", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
		cfg := validConfig()
		cfg.EthConnection.EthOptions.MaxFeePerGas = domain.NewQuantity(20)
		cfg.EthConnection.EthOptions.MaxPriorityFeePerGas = domain.NewQuantity(30)

		_, err := runLoad(t, cfg, client, false)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("token checks", func(t *testing.T) {
		checksummed := common.HexToAddress(tokenAddr).Hex()
		badChecksum := "0x5aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

		tests := []struct {
			name    string
			address string
			wantErr bool
		}{
			{name: "lowercase", address: tokenAddr},
			{name: "checksummed", address: checksummed},
			{name: "uppercase", address: "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"},
			{name: "bad checksum", address: badChecksum, wantErr: true},
			{name: "too short", address: "0x1234", wantErr: true},
			{name: "not hex", address: "holesky", wantErr: true},
			{name: "empty", address: "", wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := new(MockChainClient)
				client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
				cfg := validConfig()
				cfg.Token.Address = tt.address

				_, err := runLoad(t, cfg, client, false)
				if tt.wantErr {
					require.Error(t, err)
					assert.ErrorIs(t, err, domain.ErrValidation)
					assert.Contains(t, err.Error(), "token")
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("invalid transfer manager", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
		cfg := validConfig()
		cfg.TransferManager = "0xnotanaddress"

		_, err := runLoad(t, cfg, client, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "transferManager")
	})

	t.Run("token metadata", func(t *testing.T) {
		six := uint8(6)
		eighteen := uint8(18)

		tests := []struct {
			name     string
			symbol   string
			decimals *uint8
			wantErr  string
		}{
			{name: "symbol and decimals match", symbol: "USDC", decimals: &six},
			{name: "symbol only", symbol: "USDC"},
			{name: "decimals only", decimals: &six},
			{name: "symbol mismatch", symbol: "DAI", decimals: &six, wantErr: "token.symbol"},
			{name: "decimals mismatch", symbol: "USDC", decimals: &eighteen, wantErr: "token.decimals"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := new(MockChainClient)
				client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
				client.On("TokenMetadata", mock.Anything, common.HexToAddress(tokenAddr)).
					Return(&domain.TokenMetadata{Symbol: "USDC", Decimals: 6}, nil)
				cfg := validConfig()
				cfg.Token.Symbol = tt.symbol
				cfg.Token.Decimals = tt.decimals

				result, err := runLoad(t, cfg, client, false)
				if tt.wantErr != "" {
					require.Error(t, err)
					assert.ErrorIs(t, err, domain.ErrValidation)
					assert.Contains(t, err.Error(), tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, "USDC", result.TokenMetadata.Symbol)
			})
		}
	})

	t.Run("token metadata call fails", func(t *testing.T) {
		client := new(MockChainClient)
		client.On("ChainID", mock.Anything).Return(uint64(17000), nil)
		client.On("TokenMetadata", mock.Anything, mock.Anything).Return(nil, errors.New("execution reverted"))
		cfg := validConfig()
		cfg.Token.Symbol = "USDC"

		_, err := runLoad(t, cfg, client, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "execution reverted")
	})
}
