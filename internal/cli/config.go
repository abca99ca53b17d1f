package cli

import (
	"github.com/spf13/cobra"

	"github.com/warpstake/wsdeploy/internal/cli/render"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// NewConfigCmd creates the config command group
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect deployment configs",
	}

	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configs/<network>/config.json against the network",
		Long: `Load configs/<network>/config.json and run every check a deployment runs:
the chain id must match the connected network, token and transferManager must
be valid addresses and pinned token metadata must match the ERC-20 on chain.

With --dry-run the chain id check is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CheckConfig.Run(cmd.Context(), usecase.CheckConfigParams{
				Network: networkName(app),
				DryRun:  app.Config.DryRun,
			})
			if err != nil {
				return err
			}

			return render.NewConfigCheckRenderer(cmd.OutOrStdout(), app.Config.Format).Render(result)
		},
	}

	cmd.Flags().Bool("dry-run", false, "Skip the chain id check")
	return cmd
}
