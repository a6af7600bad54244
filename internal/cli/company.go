package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/billbook/internal/domain"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage your company details",
	Long:  `Your company details appear in the header of every exported invoice.`,
}

var companyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show company details",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		profile, err := appInstance.CompanyRepo.Get(cmd.Context())
		if err != nil {
			return err
		}
		if profile.IsEmpty() {
			fmt.Fprintln(out, "No company details set. Use 'billbook company set --name ...'")
			return nil
		}

		fmt.Fprintf(out, "Name:    %s\n", profile.Name)
		fmt.Fprintf(out, "Phone:   %s\n", profile.Phone)
		fmt.Fprintf(out, "Email:   %s\n", profile.Email)
		fmt.Fprintf(out, "Address: %s\n", profile.Address)
		return nil
	},
}

var companySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set company details",
	Long:  `Set company details. Fields not given keep their current value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		profile, err := appInstance.CompanyRepo.Get(ctx)
		if err != nil {
			return err
		}
		if profile == nil {
			profile = &domain.CompanyProfile{}
		}

		fields := map[string]*string{
			"name":    &profile.Name,
			"phone":   &profile.Phone,
			"email":   &profile.Email,
			"address": &profile.Address,
		}
		for name, field := range fields {
			if cmd.Flags().Changed(name) {
				*field, _ = cmd.Flags().GetString(name)
			}
		}

		if err := appInstance.CompanyRepo.Save(ctx, profile); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ Company details saved")
		return nil
	},
}

var companyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove company details",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !confirmPrompt(cmd, "Remove company details?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := appInstance.CompanyRepo.Delete(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(out, "✓ Company details removed")
		return nil
	},
}

func init() {
	companyCmd.AddCommand(companyShowCmd)
	companyCmd.AddCommand(companySetCmd)
	companyCmd.AddCommand(companyClearCmd)

	companySetCmd.Flags().String("name", "", "Company name")
	companySetCmd.Flags().String("phone", "", "Phone number")
	companySetCmd.Flags().String("email", "", "Email address")
	companySetCmd.Flags().String("address", "", "Postal address")

	companyClearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
