package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/warpstake/wsdeploy/internal/usecase"
)

// DeployRenderer renders the outcome of a deployment
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints the deployment JSON, where it was recorded and what it cost
func (r *DeployRenderer) Render(result *usecase.DeployStakingResult) error {
	for _, warning := range result.Warnings {
		fmt.Fprintln(r.out, FormatWarning(warning))
	}

	deployment, err := json.MarshalIndent(result.Entry, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(deployment))
	fmt.Fprintln(r.out)

	if result.DryRun {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Dry run of %s on %s fork succeeded (nothing written)", result.ContractName, result.Network)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s to %s (chain %d)", result.ContractName, result.Network, result.ChainID)))
	}

	r.field("proxy", result.Record.Proxy)
	r.field("implementation", result.Record.Implementation)
	if result.TokenMetadata != nil {
		r.field("token", fmt.Sprintf("%s (%d decimals)", result.TokenMetadata.Symbol, result.TokenMetadata.Decimals))
	}
	if !result.DryRun {
		r.field("record", result.RecordPath)
		r.field("history", result.HistoryFile)
	}
	r.field("gas used", fmt.Sprint(result.GasUsed))
	r.field("balance before", usecase.FormatEther(result.BalanceBefore)+" ETH")
	r.field("balance after", usecase.FormatEther(result.BalanceAfter)+" ETH")
	r.field("spent", color.New(color.FgYellow).Sprint(usecase.FormatEther(result.Spent)+" ETH"))
	return nil
}

func (r *DeployRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %-16s %s\n", labelStyle.Sprint(title(label)+":"), value)
}

var _ Renderer[*usecase.DeployStakingResult] = (*DeployRenderer)(nil)
