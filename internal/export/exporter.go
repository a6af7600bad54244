package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/repository"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName returns invoice_<number>_<client>.pdf with every character other
// than ASCII letters and digits replaced by an underscore
func FileName(inv *domain.Invoice) string {
	return fmt.Sprintf("invoice_%s_%s.pdf",
		unsafeFileChars.ReplaceAllString(inv.InvoiceNumber, "_"),
		unsafeFileChars.ReplaceAllString(inv.ClientName, "_"),
	)
}

// Exporter writes invoice documents into the configured output directory
type Exporter struct {
	invoices  repository.InvoiceRepository
	company   repository.CompanyRepository
	renderer  Renderer
	outputDir string
	currency  string
	logger    *zap.Logger
}

func NewExporter(
	invoices repository.InvoiceRepository,
	company repository.CompanyRepository,
	renderer Renderer,
	outputDir, currency string,
	logger *zap.Logger,
) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		invoices:  invoices,
		company:   company,
		renderer:  renderer,
		outputDir: outputDir,
		currency:  currency,
		logger:    logger,
	}
}

// ExportPDF renders the invoice with the stored company profile and returns
// the path of the written file. Nothing is written without a profile.
func (e *Exporter) ExportPDF(ctx context.Context, id string) (string, error) {
	inv, err := e.invoices.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	profile, err := e.company.Get(ctx)
	if err != nil {
		return "", err
	}
	if profile.IsEmpty() {
		return "", ErrCompanyProfileMissing
	}

	var buf bytes.Buffer
	if err := e.renderer.Render(&buf, inv, profile); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(e.outputDir, FileName(inv))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	e.logger.Info("invoice exported",
		zap.String("invoice_id", inv.ID),
		zap.String("path", path),
		zap.Int("bytes", buf.Len()),
	)
	return path, nil
}

// ExportLedger writes every invoice to a spreadsheet. An empty path means
// ledger_<date>.xlsx in the output directory.
func (e *Exporter) ExportLedger(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = filepath.Join(e.outputDir, fmt.Sprintf("ledger_%s.xlsx", time.Now().Format("2006-01-02")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	invoices := e.invoices.List(ctx)
	if err := WriteLedger(path, invoices, e.currency); err != nil {
		return "", err
	}

	e.logger.Info("ledger exported", zap.String("path", path), zap.Int("invoices", len(invoices)))
	return path, nil
}
