package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored data",
	Long: `Delete all stored data: every invoice and the company details.

Examples:
  billbook reset          # asks before deleting
  billbook reset --yes    # no questions asked`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if !confirmPrompt(cmd, "This will delete ALL data (invoices and company details). Continue?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.ClearAll(ctx); err != nil {
			return err
		}
		if err := appInstance.CompanyRepo.Delete(ctx); err != nil {
			return err
		}

		fmt.Fprintln(out, "All data has been deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
