package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/andy/billbook/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "billbook",
	Short: "Create, track and export invoices from the terminal",
	Long: `Billbook keeps a local book of invoices: create them, record payments,
search and filter them, and export a PDF to send to your client.

By default, running billbook without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every RunE
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
}
