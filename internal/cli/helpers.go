package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/service"
)

func money(d decimal.Decimal) string {
	return domain.FormatMoney(appInstance.Config.Invoice.Currency, d)
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// confirmPrompt asks a yes/no question on the command's input. --yes skips it.
func confirmPrompt(cmd *cobra.Command, message string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", message)
	input, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

// parseItemFlag splits "name:qty:price". The name may itself contain colons;
// quantity and price are taken from the right.
func parseItemFlag(raw string) (service.ItemInput, error) {
	priceAt := strings.LastIndex(raw, ":")
	if priceAt < 0 {
		return service.ItemInput{}, fmt.Errorf("invalid item %q: expected name:qty:price", raw)
	}
	qtyAt := strings.LastIndex(raw[:priceAt], ":")
	if qtyAt < 0 {
		return service.ItemInput{}, fmt.Errorf("invalid item %q: expected name:qty:price", raw)
	}

	return service.ItemInput{
		Name:      raw[:qtyAt],
		Quantity:  raw[qtyAt+1 : priceAt],
		UnitPrice: raw[priceAt+1:],
	}, nil
}

func printInvoice(w io.Writer, inv *domain.Invoice) {
	fmt.Fprintf(w, "Invoice %s\n", inv.InvoiceNumber)
	fmt.Fprintf(w, "  ID:      %s\n", inv.ID)
	fmt.Fprintf(w, "  Client:  %s\n", inv.ClientName)
	if inv.ClientContact != "" {
		fmt.Fprintf(w, "  Contact: %s\n", inv.ClientContact)
	}
	if inv.ClientAddress != "" {
		fmt.Fprintf(w, "  Address: %s\n", inv.ClientAddress)
	}
	if inv.VehicleNo != "" {
		fmt.Fprintf(w, "  Vehicle: %s\n", inv.VehicleNo)
	}
	fmt.Fprintf(w, "  Date:    %s\n", inv.Date)
	if inv.DueDate != "" {
		fmt.Fprintf(w, "  Due:     %s\n", inv.DueDate)
	}
	fmt.Fprintf(w, "  Status:  %s\n", inv.Status)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-30s %6s %12s %12s\n", "Item", "Qty", "Price", "Amount")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 63))
	for _, item := range inv.Items {
		fmt.Fprintf(w, "  %-30s %6d %12s %12s\n",
			truncate(item.Name, 30),
			item.Quantity,
			money(item.UnitPrice),
			money(item.LineTotal()),
		)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-20s %12s\n", "Subtotal:", money(inv.Subtotal))
	fmt.Fprintf(w, "  %-20s %12s\n", fmt.Sprintf("Tax (%s%%):", inv.TaxRate.String()), money(inv.TaxAmount))
	fmt.Fprintf(w, "  %-20s %12s\n", "Total:", money(inv.Total))
	fmt.Fprintf(w, "  %-20s %12s\n", "Paid:", money(inv.PaidAmount))
	fmt.Fprintf(w, "  %-20s %12s\n", "Pending:", money(inv.Pending()))

	if inv.Notes != "" {
		fmt.Fprintf(w, "\n  Notes: %s\n", inv.Notes)
	}
}
