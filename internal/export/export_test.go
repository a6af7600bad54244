package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/repository"
	"github.com/andy/billbook/internal/storage"
)

func sampleInvoice(id string) *domain.Invoice {
	inv := domain.NewInvoice(id, "INV-17/3", "Acme & Sons", time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC))
	inv.DueDate = "2026-03-01"
	inv.ClientContact = "+1 555 0100"
	inv.ClientAddress = "12 Long Street\nSpringfield"
	inv.Notes = "Payable by bank transfer."
	inv.Items = []domain.InvoiceItem{
		{ID: "1", Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("5")},
		{ID: "2", Name: "Bolt with an extremely long description that will not fit in the item column of the table", Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
	}
	inv.TaxRate = decimal.NewFromInt(10)
	inv.PaidAmount = decimal.NewFromInt(5)
	inv.Recalculate()
	return inv
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "invoice_INV_17_3_Acme___Sons.pdf", FileName(sampleInvoice("a")))

	inv := domain.NewInvoice("b", "INV-1", "Zoë", time.Now())
	assert.Equal(t, "invoice_INV_1_Zo_.pdf", FileName(inv))
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer("$")
	r.now = func() time.Time { return time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	err := r.Render(&buf, sampleInvoice("a"), &domain.CompanyProfile{
		Name:    "Billbook Supplies",
		Phone:   "555-0199",
		Email:   "billing@example.com",
		Address: "1 Main Road",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_RequiresProfile(t *testing.T) {
	var buf bytes.Buffer

	err := NewPDFRenderer("$").Render(&buf, sampleInvoice("a"), nil)
	require.ErrorIs(t, err, ErrCompanyProfileMissing)

	err = NewPDFRenderer("$").Render(&buf, sampleInvoice("a"), &domain.CompanyProfile{})
	require.ErrorIs(t, err, ErrCompanyProfileMissing)
	assert.Zero(t, buf.Len())
}

func newTestExporter(t *testing.T) (*Exporter, *repository.InvoiceRepo, *repository.CompanyRepo, string) {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := zaptest.NewLogger(t)
	invoices := repository.NewInvoiceRepo(store, logger)
	company := repository.NewCompanyRepo(store, logger)
	dir := filepath.Join(t.TempDir(), "out")

	return NewExporter(invoices, company, NewPDFRenderer("$"), dir, "$", logger), invoices, company, dir
}

func TestExporter_ExportPDF(t *testing.T) {
	ctx := context.Background()
	exporter, invoices, company, dir := newTestExporter(t)

	require.NoError(t, invoices.Create(ctx, sampleInvoice("a")))

	_, err := exporter.ExportPDF(ctx, "a")
	require.ErrorIs(t, err, ErrCompanyProfileMissing)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "nothing written without a profile")

	require.NoError(t, company.Save(ctx, &domain.CompanyProfile{Name: "Billbook Supplies"}))

	path, err := exporter.ExportPDF(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice_INV_17_3_Acme___Sons.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExporter_ExportPDFUnknownInvoice(t *testing.T) {
	exporter, _, _, _ := newTestExporter(t)

	_, err := exporter.ExportPDF(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrInvoiceNotFound)
}

func TestExporter_ExportLedger(t *testing.T) {
	ctx := context.Background()
	exporter, invoices, _, dir := newTestExporter(t)

	first := sampleInvoice("a")
	second := sampleInvoice("b")
	second.InvoiceNumber = "INV-2"
	second.ClientName = "Globex"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, invoices.Create(ctx, first))
	require.NoError(t, invoices.Create(ctx, second))

	path, err := exporter.ExportLedger(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4, "header, two invoices, totals")

	assert.Equal(t, "Invoice #", rows[0][0])
	assert.Equal(t, "INV-2", rows[1][0], "newest first")
	assert.Equal(t, "Globex", rows[1][3])
	assert.Equal(t, "partial", rows[1][13])
	assert.Equal(t, "Total", rows[3][0])

	total, err := f.GetCellValue(ledgerSheet, "K4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "33", total)
}
