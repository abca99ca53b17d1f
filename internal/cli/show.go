package cli

import (
	"github.com/spf13/cobra"

	"github.com/warpstake/wsdeploy/internal/cli/render"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show the deployment records of a network",
		Long:  `Show contracts/<network>.json, or the record of a single contract.`,
		Example: `  wsdeploy show --network holesky
  wsdeploy show WarpStake --network holesky --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentParams{Network: networkName(app)}
			if len(args) == 1 {
				params.Name = args[0]
			}

			result, err := app.ShowDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewRecordsRenderer(cmd.OutOrStdout(), app.Config.Format).Render(result)
		},
	}

	return cmd
}
