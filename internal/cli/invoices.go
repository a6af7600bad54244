package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/export"
	"github.com/andy/billbook/internal/repository"
	"github.com/andy/billbook/internal/service"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, search, pay, export and delete invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		filter := service.ListFilter{}
		filter.Query, _ = cmd.Flags().GetString("search")
		if cmd.Flags().Changed("status") {
			raw, _ := cmd.Flags().GetString("status")
			status, err := domain.ParseStatus(raw)
			if err != nil {
				return err
			}
			filter.Status = &status
		}

		invoices := appInstance.InvoiceService.ListInvoices(ctx, filter)
		if len(invoices) == 0 {
			if filter.Query != "" || filter.Status != nil {
				fmt.Fprintln(out, "No invoices match your search")
			} else {
				fmt.Fprintln(out, "No invoices yet")
			}
			return nil
		}

		fmt.Fprintf(out, "%-36s %-18s %-20s %-10s %12s %12s %-8s\n", "ID", "Number", "Client", "Date", "Total", "Pending", "Status")
		fmt.Fprintln(out, strings.Repeat("-", 122))

		now := time.Now()
		for _, inv := range invoices {
			status := string(inv.Status)
			if inv.IsPastDue(now) {
				status += " (past due)"
			}
			fmt.Fprintf(out, "%-36s %-18s %-20s %-10s %12s %12s %-8s\n",
				inv.ID,
				truncate(inv.InvoiceNumber, 18),
				truncate(inv.ClientName, 20),
				inv.Date,
				money(inv.Total),
				money(inv.Pending()),
				status,
			)
		}

		fmt.Fprintf(out, "\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [invoice_id]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.InvoiceService.GetInvoice(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		printInvoice(cmd.OutOrStdout(), inv)
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invoice",
	Long: `Create a new invoice. Items are given as name:qty:price and may be repeated.

Examples:
  billbook invoices create --client "Acme" --item "Widget:2:5" --item "Bolt:1:5"
  billbook invoices create --client "Acme" --item "Service:1:120" --tax 18 --due 2026-05-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		in := service.CreateInvoiceInput{}
		in.InvoiceNumber, _ = flags.GetString("number")
		in.ClientName, _ = flags.GetString("client")
		in.ClientContact, _ = flags.GetString("contact")
		in.ClientAddress, _ = flags.GetString("address")
		in.Date, _ = flags.GetString("date")
		in.DueDate, _ = flags.GetString("due")
		in.TaxRate, _ = flags.GetString("tax")
		in.PaidAmount, _ = flags.GetString("paid")
		in.Notes, _ = flags.GetString("notes")
		in.VehicleNo, _ = flags.GetString("vehicle")

		rawItems, _ := flags.GetStringArray("item")
		for _, raw := range rawItems {
			item, err := parseItemFlag(raw)
			if err != nil {
				return err
			}
			in.Items = append(in.Items, item)
		}

		inv, err := appInstance.InvoiceService.Create(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Invoice created: %s\n", inv.InvoiceNumber)
		fmt.Fprintf(out, "  ID:     %s\n", inv.ID)
		fmt.Fprintf(out, "  Client: %s\n", inv.ClientName)
		fmt.Fprintf(out, "  Total:  %s (%s)\n", money(inv.Total), inv.Status)
		return nil
	},
}

var invoicesPayCmd = &cobra.Command{
	Use:   "pay [invoice_id] [amount]",
	Short: "Set the amount paid on an invoice",
	Long:  `Set the total amount received so far. Status is derived: pending, partial or paid.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.InvoiceService.EditPayment(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Payment updated for %s: paid %s, pending %s (%s)\n",
			inv.InvoiceNumber, money(inv.PaidAmount), money(inv.Pending()), inv.Status)
		return nil
	},
}

var invoicesUpdateCmd = &cobra.Command{
	Use:   "update [invoice_id]",
	Short: "Edit invoice fields",
	Long: `Edit invoice fields. Only flags that are given are changed.
Passing --item replaces all items.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		inv, err := appInstance.InvoiceService.GetInvoice(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		text := map[string]*string{
			"number":  &inv.InvoiceNumber,
			"client":  &inv.ClientName,
			"contact": &inv.ClientContact,
			"address": &inv.ClientAddress,
			"date":    &inv.Date,
			"due":     &inv.DueDate,
			"notes":   &inv.Notes,
			"vehicle": &inv.VehicleNo,
		}
		for name, field := range text {
			if flags.Changed(name) {
				*field, _ = flags.GetString(name)
			}
		}

		if flags.Changed("tax") {
			raw, _ := flags.GetString("tax")
			inv.TaxRate = domain.ParseAmount(raw)
		}
		if flags.Changed("paid") {
			raw, _ := flags.GetString("paid")
			paid, err := domain.ParseAmountStrict(raw)
			if err != nil {
				return err
			}
			inv.PaidAmount = paid
		}
		if flags.Changed("item") {
			rawItems, _ := flags.GetStringArray("item")
			inv.Items = inv.Items[:0]
			for _, raw := range rawItems {
				item, err := parseItemFlag(raw)
				if err != nil {
					return err
				}
				inv.Items = append(inv.Items, domain.InvoiceItem{
					ID:        uuid.NewString(),
					Name:      item.Name,
					Quantity:  domain.ParseQuantity(item.Quantity),
					UnitPrice: domain.ParseAmount(item.UnitPrice),
				})
			}
		}

		ok, err := appInstance.InvoiceService.UpdateInvoice(ctx, inv)
		if err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		if !ok {
			return repository.ErrInvoiceNotFound
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice %s updated: total %s (%s)\n", inv.InvoiceNumber, money(inv.Total), inv.Status)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [invoice_id]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		inv, err := appInstance.InvoiceService.GetInvoice(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		if !confirmPrompt(cmd, fmt.Sprintf("Delete invoice %s for %s?", inv.InvoiceNumber, inv.ClientName)) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		ok, err := appInstance.InvoiceService.DeleteInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		if !ok {
			return repository.ErrInvoiceNotFound
		}

		fmt.Fprintf(out, "✓ Invoice %s deleted\n", inv.InvoiceNumber)
		return nil
	},
}

var invoicesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !confirmPrompt(cmd, "This will delete ALL invoices. Continue?") {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.ClearAll(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(out, "All invoices have been deleted.")
		return nil
	},
}

var invoicesExportCmd = &cobra.Command{
	Use:   "export [invoice_id]",
	Short: "Export an invoice as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := appInstance.Exporter.ExportPDF(cmd.Context(), args[0])
		if errors.Is(err, export.ErrCompanyProfileMissing) {
			return fmt.Errorf("%w: set it first with 'billbook company set --name ...'", err)
		}
		if err != nil {
			return fmt.Errorf("failed to export invoice: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ PDF written to %s\n", path)
		return nil
	},
}

var invoicesLedgerCmd = &cobra.Command{
	Use:   "ledger [path.xlsx]",
	Short: "Export all invoices to a spreadsheet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		written, err := appInstance.Exporter.ExportLedger(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("failed to export ledger: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Ledger written to %s\n", written)
		return nil
	},
}

var invoicesSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals across all invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		s := appInstance.SummaryService.GetSummary(cmd.Context(), time.Now())

		fmt.Fprintf(out, "Invoices:    %d\n", s.Count)
		for _, status := range domain.Statuses {
			if n := s.ByStatus[status]; n > 0 {
				fmt.Fprintf(out, "  %-10s %d\n", status, n)
			}
		}
		if s.PastDue > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", "past due", s.PastDue)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Billed:      %s\n", money(s.Billed))
		fmt.Fprintf(out, "Collected:   %s\n", money(s.Collected))
		fmt.Fprintf(out, "Outstanding: %s\n", money(s.Outstanding))
		return nil
	},
}

func addInvoiceFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("number", "", "Invoice number (defaults to <prefix>-<timestamp>)")
	cmd.Flags().String("client", "", "Client name")
	cmd.Flags().String("contact", "", "Client phone or email")
	cmd.Flags().String("address", "", "Client address")
	cmd.Flags().String("date", "", "Invoice date YYYY-MM-DD (defaults to today)")
	cmd.Flags().String("due", "", "Due date YYYY-MM-DD")
	cmd.Flags().StringArray("item", nil, "Line item as name:qty:price (repeatable)")
	cmd.Flags().String("tax", "", "Tax rate in percent (defaults to invoice.default_tax_rate)")
	cmd.Flags().String("paid", "", "Amount already paid")
	cmd.Flags().String("notes", "", "Notes printed on the invoice")
	cmd.Flags().String("vehicle", "", "Vehicle number")
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesPayCmd)
	invoicesCmd.AddCommand(invoicesUpdateCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesClearCmd)
	invoicesCmd.AddCommand(invoicesExportCmd)
	invoicesCmd.AddCommand(invoicesLedgerCmd)
	invoicesCmd.AddCommand(invoicesSummaryCmd)

	// list flags
	invoicesListCmd.Flags().String("search", "", "Match client name or invoice number")
	invoicesListCmd.Flags().String("status", "", "Filter by status (pending, partial, paid, overdue)")

	addInvoiceFieldFlags(invoicesCreateCmd)
	addInvoiceFieldFlags(invoicesUpdateCmd)

	invoicesDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	invoicesClearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
