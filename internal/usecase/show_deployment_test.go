package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

func TestShowDeployment(t *testing.T) {
	ctx := context.Background()
	stake := domain.DeploymentRecord{Proxy: "0xproxy", Implementation: "0ximpl"}

	repo := newMemRecordRepository()
	repo.store.records["WarpStake"] = stake
	repo.store.records["Other"] = domain.DeploymentRecord{Proxy: "0xa", Implementation: "0xb"}
	uc := usecase.NewShowDeployment(repo)

	t.Run("all records", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ShowDeploymentParams{Network: "holesky"})
		require.NoError(t, err)
		assert.Len(t, result.Records, 2)
		assert.False(t, repo.persist)
	})

	t.Run("one record", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ShowDeploymentParams{Network: "holesky", Name: "WarpStake"})
		require.NoError(t, err)
		assert.Equal(t, domain.DeploymentRecords{"WarpStake": stake}, result.Records)
	})

	t.Run("network escaping the data dir", func(t *testing.T) {
		repo := newMemRecordRepository()
		_, err := usecase.NewShowDeployment(repo).Run(ctx, usecase.ShowDeploymentParams{Network: "../../x"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.False(t, repo.opened)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{Network: "holesky", Name: "Missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		broken := newMemRecordRepository()
		broken.err = domain.NewConfigurationError("contracts/holesky.json", "malformed deployment records", nil)
		_, err := usecase.NewShowDeployment(broken).Run(ctx, usecase.ShowDeploymentParams{Network: "holesky"})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("network required", func(t *testing.T) {
		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{})
		assert.Error(t, err)
	})
}
