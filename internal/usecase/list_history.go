package usecase

import (
	"context"
	"fmt"

	"github.com/warpstake/wsdeploy/internal/domain"
)

// ListHistoryParams contains parameters for listing deployment history
type ListHistoryParams struct {
	Network string
	Limit   int
}

// HistoryItem is one history file with its content.
// Error is set instead of Entry when the file cannot be read.
type HistoryItem struct {
	domain.HistoryFile
	Entry *domain.HistoryEntry
	Error error
}

// ListHistoryResult contains the history of a network, newest first
type ListHistoryResult struct {
	Network string
	Dir     string
	Items   []HistoryItem
}

// ListHistory lists the deployment history of a network
type ListHistory struct {
	history DeploymentHistoryRepository
}

// NewListHistory creates a new ListHistory use case
func NewListHistory(history DeploymentHistoryRepository) *ListHistory {
	return &ListHistory{history: history}
}

// Run executes the use case
func (uc *ListHistory) Run(ctx context.Context, params ListHistoryParams) (*ListHistoryResult, error) {
	if params.Network == "" {
		return nil, fmt.Errorf("no network specified: use --network")
	}
	if err := domain.ValidateNetworkName(params.Network); err != nil {
		return nil, err
	}

	// Read-only: never creates the history directory
	store, err := uc.history.Open(ctx, params.Network, false)
	if err != nil {
		return nil, err
	}

	files, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if params.Limit > 0 && len(files) > params.Limit {
		files = files[:params.Limit]
	}

	latest, _, err := store.Latest(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(files))
	for _, file := range files {
		file.Latest = file.Name == latest
		entry, err := store.Read(ctx, file.Name)
		items = append(items, HistoryItem{HistoryFile: file, Entry: entry, Error: err})
	}

	return &ListHistoryResult{
		Network: params.Network,
		Dir:     store.Dir(),
		Items:   items,
	}, nil
}
