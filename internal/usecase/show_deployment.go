package usecase

import (
	"context"
	"fmt"

	"github.com/warpstake/wsdeploy/internal/domain"
)

// ShowDeploymentParams contains parameters for showing deployment records
type ShowDeploymentParams struct {
	Network string
	// Name limits the result to one contract; empty shows every record of the network
	Name string
}

// ShowDeploymentResult contains the records of a network
type ShowDeploymentResult struct {
	Network string
	Path    string
	Records domain.DeploymentRecords
}

// ShowDeployment reads the current records of a network
type ShowDeployment struct {
	records DeploymentRecordRepository
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(records DeploymentRecordRepository) *ShowDeployment {
	return &ShowDeployment{records: records}
}

// Run executes the use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*ShowDeploymentResult, error) {
	if params.Network == "" {
		return nil, fmt.Errorf("no network specified: use --network")
	}
	if err := domain.ValidateNetworkName(params.Network); err != nil {
		return nil, err
	}

	store, err := uc.records.Open(ctx, params.Network, false)
	if err != nil {
		return nil, err
	}

	result := &ShowDeploymentResult{
		Network: params.Network,
		Path:    store.Path(),
	}

	if params.Name == "" {
		result.Records = store.Records()
		return result, nil
	}

	record, ok := store.Get(params.Name)
	if !ok {
		return nil, fmt.Errorf("no %s deployment on %s: %w", params.Name, params.Network, domain.ErrNotFound)
	}
	result.Records = domain.DeploymentRecords{params.Name: record}
	return result, nil
}
