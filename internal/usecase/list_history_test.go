package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

func TestListHistory(t *testing.T) {
	ctx := context.Background()
	repo := newMemHistoryRepository()
	tx := "0xfeed"
	for _, proxy := range []string{"0x1", "0x2", "0x3"} {
		_, err := repo.store.Append(ctx, domain.HistoryEntry{Proxy: proxy, Implementation: "0xi", Tx: &tx})
		require.NoError(t, err)
	}
	uc := usecase.NewListHistory(repo)

	t.Run("newest first", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ListHistoryParams{Network: "holesky"})
		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.False(t, repo.persist)

		assert.Equal(t, "2024-05-01_02.json", result.Items[0].Name)
		assert.True(t, result.Items[0].Latest)
		assert.Equal(t, "0x3", result.Items[0].Entry.Proxy)
		assert.Equal(t, "2024-05-01.json", result.Items[2].Name)
		assert.False(t, result.Items[2].Latest)
	})

	t.Run("limit", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ListHistoryParams{Network: "holesky", Limit: 1})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.True(t, result.Items[0].Latest)
	})

	t.Run("latest flag follows the store", func(t *testing.T) {
		repo.store.latest = "2024-05-01_01.json"
		defer func() { repo.store.latest = "" }()

		result, err := uc.Run(ctx, usecase.ListHistoryParams{Network: "holesky"})
		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.False(t, result.Items[0].Latest)
		assert.True(t, result.Items[1].Latest)
		assert.Equal(t, "2024-05-01_01.json", result.Items[1].Name)
	})

	t.Run("network escaping the data dir", func(t *testing.T) {
		repo := newMemHistoryRepository()
		_, err := usecase.NewListHistory(repo).Run(ctx, usecase.ListHistoryParams{Network: "../../x"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.False(t, repo.opened)
	})

	t.Run("empty history", func(t *testing.T) {
		result, err := usecase.NewListHistory(newMemHistoryRepository()).Run(ctx, usecase.ListHistoryParams{Network: "holesky"})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})
}
