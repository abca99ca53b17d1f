package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/warpstake/wsdeploy/internal/domain/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

func TestListNetworks(t *testing.T) {
	ctx := context.Background()
	resolver := new(MockNetworkResolver)
	resolver.On("GetNetworks").Return([]string{"holesky", "mainnet"})
	resolver.On("Resolve", mock.Anything, "holesky").Return(&config.Network{Name: "holesky", ChainID: 17000}, nil)
	resolver.On("Resolve", mock.Anything, "mainnet").Return(nil, errors.New("dial tcp: connection refused"))

	uc := usecase.NewListNetworks(resolver)

	t.Run("resolves chain ids", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ListNetworksParams{})
		require.NoError(t, err)
		require.Len(t, result.Networks, 2)
		assert.Equal(t, uint64(17000), result.Networks[0].ChainID)
		assert.NoError(t, result.Networks[0].Error)
		assert.Error(t, result.Networks[1].Error)
	})

	t.Run("offline", func(t *testing.T) {
		offline := new(MockNetworkResolver)
		offline.On("GetNetworks").Return([]string{"holesky"})

		result, err := usecase.NewListNetworks(offline).Run(ctx, usecase.ListNetworksParams{Offline: true})
		require.NoError(t, err)
		require.Len(t, result.Networks, 1)
		assert.Zero(t, result.Networks[0].ChainID)
		offline.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})
}
