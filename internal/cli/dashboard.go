package cli

import (
	"hrpilot/internal/common"
	"hrpilot/internal/panel"
	"hrpilot/internal/types"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the recruitment overview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := getLoggerFromContext(cmd.Context())
		view := panel.NewDashboard(types.Language(globalFlags.Language), nil).View()
		return common.NewOutputHandler(logger, cmd.OutOrStdout()).HandleOutput(view.DashboardSnapshot, globalFlags.CommandConfig)
	},
}
