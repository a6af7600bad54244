// Package export turns stored invoices into shareable documents.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/andy/billbook/internal/domain"
)

var ErrCompanyProfileMissing = errors.New("company information not found")

// Renderer writes one invoice as a document. It receives fully derived
// values and must not recompute them.
type Renderer interface {
	Render(w io.Writer, inv *domain.Invoice, profile *domain.CompanyProfile) error
}

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{37, 99, 235}
	colorText    = rgb{31, 41, 55}
	colorMuted   = rgb{107, 114, 128}
	colorZebra   = rgb{243, 244, 246}
	colorRule    = rgb{209, 213, 219}

	statusColors = map[domain.Status]rgb{
		domain.StatusPaid:    {16, 185, 129},
		domain.StatusPartial: {245, 158, 11},
		domain.StatusPending: {107, 114, 128},
		domain.StatusOverdue: {239, 68, 68},
	}
)

const (
	pageMargin   = 15.0
	contentWidth = 180.0 // A4 width minus both margins
	font         = "Helvetica"
)

// table column widths: #, item, qty, unit price, amount
var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 10, "C"},
	{"Item", 80, "L"},
	{"Qty", 20, "R"},
	{"Unit Price", 35, "R"},
	{"Amount", 35, "R"},
}

// PDFRenderer lays out an A4 invoice with gofpdf core fonts
type PDFRenderer struct {
	Currency string
	now      func() time.Time
}

func NewPDFRenderer(currency string) *PDFRenderer {
	return &PDFRenderer{Currency: currency, now: time.Now}
}

func (r *PDFRenderer) money(d decimal.Decimal) string {
	return domain.FormatMoney(r.Currency, d)
}

func (r *PDFRenderer) Render(w io.Writer, inv *domain.Invoice, profile *domain.CompanyProfile) error {
	if profile.IsEmpty() {
		return ErrCompanyProfileMissing
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetCreator("billbook", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := r.now().Format("January 2, 2006")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		setText(pdf, colorMuted)
		pdf.SetFont(font, "I", 9)
		pdf.CellFormat(0, 5, tr("Thank you for your business!"), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, tr("Generated on "+generated), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	r.header(pdf, tr, inv, profile)
	r.billTo(pdf, tr, inv)
	r.itemsTable(pdf, tr, inv)
	r.totals(pdf, tr, inv)
	r.notes(pdf, tr, inv)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) header(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice, profile *domain.CompanyProfile) {
	top := pdf.GetY()

	// company block, left
	setText(pdf, colorPrimary)
	pdf.SetFont(font, "B", 20)
	pdf.CellFormat(110, 9, tr(fit(pdf, profile.Name, 110)), "", 1, "L", false, 0, "")
	setText(pdf, colorMuted)
	pdf.SetFont(font, "", 10)
	for _, line := range []string{profile.Address, profile.Phone, profile.Email} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.CellFormat(110, 5, tr(fit(pdf, line, 110)), "", 1, "L", false, 0, "")
	}
	leftBottom := pdf.GetY()

	// invoice block, right
	pdf.SetXY(pageMargin+110, top)
	setText(pdf, colorText)
	pdf.SetFont(font, "B", 22)
	pdf.CellFormat(70, 9, "INVOICE", "", 2, "R", false, 0, "")
	pdf.SetFont(font, "", 10)
	meta := []string{"No. " + inv.InvoiceNumber, "Date: " + inv.Date}
	if inv.DueDate != "" {
		meta = append(meta, "Due: "+inv.DueDate)
	}
	for _, line := range meta {
		pdf.CellFormat(70, 5, tr(line), "", 2, "R", false, 0, "")
	}

	c, ok := statusColors[inv.Status]
	if !ok {
		c = colorMuted
	}
	pdf.SetFont(font, "B", 9)
	label := strings.ToUpper(string(inv.Status))
	badge := pdf.GetStringWidth(label) + 6
	pdf.SetX(pageMargin + contentWidth - badge)
	pdf.SetFillColor(c.r, c.g, c.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(badge, 6, label, "", 2, "C", true, 0, "")

	pdf.SetY(max(leftBottom, pdf.GetY()) + 4)
	rule(pdf)
}

func (r *PDFRenderer) billTo(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	pdf.Ln(4)
	setText(pdf, colorMuted)
	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(0, 5, "BILL TO", "", 1, "L", false, 0, "")

	setText(pdf, colorText)
	pdf.SetFont(font, "B", 12)
	pdf.CellFormat(0, 6, tr(inv.ClientName), "", 1, "L", false, 0, "")

	pdf.SetFont(font, "", 10)
	if inv.ClientContact != "" {
		pdf.CellFormat(0, 5, tr(inv.ClientContact), "", 1, "L", false, 0, "")
	}
	if inv.ClientAddress != "" {
		pdf.MultiCell(100, 5, tr(inv.ClientAddress), "", "L", false)
	}
	if inv.VehicleNo != "" {
		pdf.CellFormat(0, 5, tr("Vehicle No: "+inv.VehicleNo), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (r *PDFRenderer) itemsTable(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	pdf.SetFont(font, "B", 10)
	pdf.SetFillColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, col.title, "", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(font, "", 10)
	setText(pdf, colorText)
	pdf.SetFillColor(colorZebra.r, colorZebra.g, colorZebra.b)
	for i, item := range inv.Items {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			fit(pdf, item.Name, columns[1].width-2),
			fmt.Sprintf("%d", item.Quantity),
			r.money(item.UnitPrice),
			r.money(item.LineTotal()),
		}
		zebra := i%2 == 1
		for j, col := range columns {
			pdf.CellFormat(col.width, 7, tr(cells[j]), "", 0, col.align, zebra, 0, "")
		}
		pdf.Ln(-1)
	}
	rule(pdf)
	pdf.Ln(3)
}

func (r *PDFRenderer) totals(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	const labelX = pageMargin + 100
	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetX(labelX)
		pdf.SetFont(font, style, 10)
		pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(value), "", 1, "R", false, 0, "")
	}

	setText(pdf, colorText)
	row("Subtotal", r.money(inv.Subtotal), false)
	row(fmt.Sprintf("Tax (%s%%)", inv.TaxRate.String()), r.money(inv.TaxAmount), false)

	pdf.SetFont(font, "B", 12)
	pdf.SetX(labelX)
	pdf.SetFillColor(colorZebra.r, colorZebra.g, colorZebra.b)
	pdf.CellFormat(45, 8, "Total", "", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, tr(r.money(inv.Total)), "", 1, "R", true, 0, "")

	row("Paid", r.money(inv.PaidAmount), false)
	pending := inv.Pending()
	if pending.IsPositive() {
		c := statusColors[domain.StatusOverdue]
		pdf.SetTextColor(c.r, c.g, c.b)
	}
	row("Pending", r.money(pending), true)
	setText(pdf, colorText)
	pdf.Ln(6)
}

func (r *PDFRenderer) notes(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	if strings.TrimSpace(inv.Notes) == "" {
		return
	}
	setText(pdf, colorMuted)
	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(0, 5, "NOTES", "", 1, "L", false, 0, "")
	setText(pdf, colorText)
	pdf.SetFont(font, "", 10)
	pdf.MultiCell(contentWidth, 5, tr(inv.Notes), "", "L", false)
}

func setText(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func rule(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(colorRule.r, colorRule.g, colorRule.b)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
}

// fit shortens s with an ellipsis until it fits in width at the current font
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
