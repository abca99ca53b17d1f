package cli

import (
	"github.com/spf13/cobra"

	"github.com/warpstake/wsdeploy/internal/cli/render"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from foundry.toml",
		Long: `List all networks configured in the [rpc_endpoints] section of foundry.toml.

This command shows all available networks and attempts to fetch their chain IDs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			offline, _ := cmd.Flags().GetBool("offline")
			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Offline: offline})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout(), app.Config.Format).Render(result)
		},
	}

	cmd.Flags().Bool("offline", false, "Do not contact the RPC endpoints")
	return cmd
}
