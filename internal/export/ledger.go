package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andy/billbook/internal/domain"
)

const ledgerSheet = "Invoices"

var ledgerHeaders = []string{
	"Invoice #", "Date", "Due Date", "Client", "Contact", "Vehicle No",
	"Items", "Subtotal", "Tax %", "Tax", "Total", "Paid", "Pending", "Status", "Created",
}

// WriteLedger saves one row per invoice plus a totals row to an .xlsx file
func WriteLedger(path string, invoices []*domain.Invoice, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFormat := fmt.Sprintf(`"%s"#,##0.00`, currency)
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}

	for col, title := range ledgerHeaders {
		if err := setCell(f, col+1, 1, title); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ledgerHeaders))
	if err := f.SetCellStyle(ledgerSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	billed, collected, outstanding := decimal.Zero, decimal.Zero, decimal.Zero
	for i, inv := range invoices {
		row := i + 2
		values := []any{
			inv.InvoiceNumber,
			inv.Date,
			inv.DueDate,
			inv.ClientName,
			inv.ClientContact,
			inv.VehicleNo,
			len(inv.Items),
			inv.Subtotal.InexactFloat64(),
			inv.TaxRate.InexactFloat64(),
			inv.TaxAmount.InexactFloat64(),
			inv.Total.InexactFloat64(),
			inv.PaidAmount.InexactFloat64(),
			inv.Pending().InexactFloat64(),
			string(inv.Status),
			inv.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}

		billed = billed.Add(inv.Total)
		collected = collected.Add(inv.PaidAmount)
		outstanding = outstanding.Add(inv.Pending())
	}

	totalRow := len(invoices) + 2
	totals := map[int]any{
		1:  "Total",
		11: billed.InexactFloat64(),
		12: collected.InexactFloat64(),
		13: outstanding.InexactFloat64(),
	}
	for col, v := range totals {
		if err := setCell(f, col, totalRow, v); err != nil {
			return err
		}
	}

	// Subtotal through Pending, skipping the Tax % column
	for _, span := range [][2]string{{"H", "H"}, {"J", "M"}} {
		if err := f.SetCellStyle(ledgerSheet, fmt.Sprintf("%s2", span[0]), fmt.Sprintf("%s%d", span[1], totalRow), moneyStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}
	if err := f.SetColWidth(ledgerSheet, "A", lastCol, 14); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(ledgerSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}
