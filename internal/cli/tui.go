package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/billbook/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive terminal user interface for billbook.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	appInstance.Logger.Info("starting tui")
	return tui.Run(appInstance)
}
