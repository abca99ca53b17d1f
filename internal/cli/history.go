package cli

import (
	"github.com/spf13/cobra"

	"github.com/warpstake/wsdeploy/internal/cli/render"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the deployment history of a network",
		Long:  `List configs/<network>/states/, newest first, with the content of each snapshot.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			result, err := app.ListHistory.Run(cmd.Context(), usecase.ListHistoryParams{
				Network: networkName(app),
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			return render.NewHistoryRenderer(cmd.OutOrStdout(), app.Config.Format).Render(result)
		},
	}

	cmd.Flags().Int("limit", 0, "Show only the newest N snapshots")
	return cmd
}
