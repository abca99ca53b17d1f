package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warpstake/wsdeploy/internal/adapters/progress"
	"github.com/warpstake/wsdeploy/internal/app"
	"github.com/warpstake/wsdeploy/internal/config"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wsdeploy",
		Short: "Deploy the WarpStake staking contract",
		Long: `wsdeploy deploys the upgradeable WarpStake staking contract behind an
ERC-1967 proxy, validates per-network deployment configs and keeps the
deployment records and history under the data directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			nonInteractive := v.GetBool("non_interactive")
			var sink usecase.ProgressSink = progress.NewSpinnerSink()
			if nonInteractive {
				sink = usecase.NopProgress{}
			}

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (a key of [rpc_endpoints] in foundry.toml)")
	rootCmd.PersistentFlags().StringP("format", "f", "table", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding contracts/ and configs/ (default <project>/data)")
	rootCmd.PersistentFlags().String("project-root", "", "Foundry project root (default: nearest directory with foundry.toml)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	showCmd := NewShowCmd()
	showCmd.GroupID = "main"
	rootCmd.AddCommand(showCmd)

	historyCmd := NewHistoryCmd()
	historyCmd.GroupID = "main"
	rootCmd.AddCommand(historyCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether cmd runs without a project
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// networkName returns the --network value, empty when not given
func networkName(a *app.App) string {
	if a.Config.Network == nil {
		return ""
	}
	return a.Config.Network.Name
}
