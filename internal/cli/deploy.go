package cli

import (
	"github.com/spf13/cobra"

	"github.com/warpstake/wsdeploy/internal/cli/render"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy WarpStake behind a new ERC-1967 proxy",
		Long: `Deploy the WarpStake implementation and an ERC1967Proxy initialized with
initialize(token, transferManager) from configs/<network>/config.json.

On success the proxy and implementation are written to contracts/<network>.json
and a snapshot is added to configs/<network>/states/.

With --dry-run the deployment runs against a local anvil fork of the network
and nothing is written.`,
		Example: `  wsdeploy deploy --network holesky --private-key $KEY
  wsdeploy deploy --network holesky --private-key $KEY --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			forkPort, _ := cmd.Flags().GetString("fork-port")
			yes, _ := cmd.Flags().GetBool("yes")

			result, err := app.DeployStaking.Run(cmd.Context(), usecase.DeployStakingParams{
				Network:      networkName(app),
				PrivateKey:   app.Config.PrivateKey,
				ContractName: name,
				DryRun:       app.Config.DryRun,
				ForkPort:     forkPort,
				SkipConfirm:  yes,
				Progress:     app.Progress,
			})
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().String("private-key", "", "Deployer private key (hex), or set WSDEPLOY_PRIVATE_KEY")
	cmd.Flags().Bool("dry-run", false, "Deploy to a local anvil fork and write nothing")
	cmd.Flags().String("name", usecase.DefaultContractName, "Contract name: artifact and record key")
	cmd.Flags().String("fork-port", usecase.DefaultForkPort, "Local port of the dry-run fork")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
