package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/config"
	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/export"
	"github.com/andy/billbook/internal/service"
	"github.com/andy/billbook/internal/storage"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Store.Backend = config.BackendMemory
	cfg.Invoice.OutputDir = t.TempDir()

	return app.NewWithStore(cfg, storage.NewMemoryStore(), zaptest.NewLogger(t))
}

// resetFlags puts every flag back to its default. Cobra keeps flag values
// between Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, a *app.App, stdin string, args ...string) (string, error) {
	t.Helper()

	SetApp(a)
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := Execute()
	return out.String(), err
}

func onlyInvoice(t *testing.T, a *app.App) *domain.Invoice {
	t.Helper()
	list := a.InvoiceService.ListInvoices(context.Background(), service.ListFilter{})
	require.Len(t, list, 1)
	return list[0]
}

func createAcme(t *testing.T, a *app.App) *domain.Invoice {
	t.Helper()
	out, err := run(t, a, "", "invoices", "create",
		"--number", "INV-1",
		"--client", "Acme",
		"--item", "Widget:2:5",
		"--item", "Bolt:1:5",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Invoice created: INV-1")
	assert.Contains(t, out, "$16.50")
	return onlyInvoice(t, a)
}

func TestInvoicesCreateListShow(t *testing.T) {
	a := newTestApp(t)
	inv := createAcme(t, a)

	assert.Equal(t, "Acme", inv.ClientName)
	assert.Len(t, inv.Items, 2)
	assert.Equal(t, domain.StatusPending, inv.Status)

	out, err := run(t, a, "", "invoices", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "INV-1")
	assert.Contains(t, out, "Total: 1 invoice(s)")

	out, err = run(t, a, "", "invoices", "list", "--status", "paid")
	require.NoError(t, err)
	assert.Contains(t, out, "No invoices match your search")

	out, err = run(t, a, "", "invoices", "list", "--search", "acm")
	require.NoError(t, err)
	assert.Contains(t, out, "INV-1")

	_, err = run(t, a, "", "invoices", "list", "--status", "bogus")
	assert.Error(t, err)

	out, err = run(t, a, "", "invoices", "show", inv.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "Tax (10%):")
	assert.Contains(t, out, "$1.50")
}

func TestInvoicesCreate_Validation(t *testing.T) {
	a := newTestApp(t)

	_, err := run(t, a, "", "invoices", "create", "--item", "Widget:1:5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please enter client name")

	_, err = run(t, a, "", "invoices", "create", "--client", "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please add at least one item")

	_, err = run(t, a, "", "invoices", "create", "--client", "Acme", "--item", "no-colons")
	require.Error(t, err)

	assert.Empty(t, a.InvoiceService.ListInvoices(context.Background(), service.ListFilter{}))
}

func TestInvoicesPay(t *testing.T) {
	a := newTestApp(t)
	inv := createAcme(t, a)

	out, err := run(t, a, "", "invoices", "pay", inv.ID, "10")
	require.NoError(t, err)
	assert.Contains(t, out, "pending $6.50 (partial)")

	_, err = run(t, a, "", "invoices", "pay", inv.ID, "ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please enter a valid amount")
	assert.Equal(t, domain.StatusPartial, onlyInvoice(t, a).Status)

	_, err = run(t, a, "", "invoices", "pay", "missing", "10")
	assert.Error(t, err)
}

func TestInvoicesUpdate(t *testing.T) {
	a := newTestApp(t)
	inv := createAcme(t, a)

	out, err := run(t, a, "", "invoices", "update", inv.ID,
		"--client", "Globex",
		"--item", "Gear:3:10",
		"--tax", "0",
		"--paid", "30",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Invoice INV-1 updated")

	got := onlyInvoice(t, a)
	assert.Equal(t, "Globex", got.ClientName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "30.00", got.Total.StringFixed(2))
	assert.Equal(t, domain.StatusPaid, got.Status)
	assert.NotEmpty(t, got.Items[0].ID)

	_, err = run(t, a, "", "invoices", "update", inv.ID, "--client", " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please enter client name")
}

func TestInvoicesDelete(t *testing.T) {
	a := newTestApp(t)
	inv := createAcme(t, a)

	out, err := run(t, a, "n\n", "invoices", "delete", inv.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	onlyInvoice(t, a)

	out, err = run(t, a, "y\n", "invoices", "delete", inv.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Invoice INV-1 deleted")
	assert.Empty(t, a.InvoiceService.ListInvoices(context.Background(), service.ListFilter{}))

	_, err = run(t, a, "", "invoices", "delete", inv.ID, "--yes")
	assert.Error(t, err)
}

func TestCompanyAndExport(t *testing.T) {
	a := newTestApp(t)
	inv := createAcme(t, a)

	_, err := run(t, a, "", "invoices", "export", inv.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrCompanyProfileMissing)

	out, err := run(t, a, "", "company", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No company details set")

	_, err = run(t, a, "", "company", "set", "--name", "Tools Inc", "--phone", "555-0100")
	require.NoError(t, err)
	_, err = run(t, a, "", "company", "set", "--email", "billing@tools.test")
	require.NoError(t, err)

	out, err = run(t, a, "", "company", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Tools Inc")
	assert.Contains(t, out, "555-0100")
	assert.Contains(t, out, "billing@tools.test")

	out, err = run(t, a, "", "invoices", "export", inv.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ PDF written to")

	path := filepath.Join(a.Config.Invoice.OutputDir, "invoice_INV_1_Acme.pdf")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = run(t, a, "", "company", "clear", "--yes")
	require.NoError(t, err)
	profile, err := a.CompanyRepo.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestInvoicesLedgerAndSummary(t *testing.T) {
	a := newTestApp(t)
	inv := createAcme(t, a)
	_, err := run(t, a, "", "invoices", "pay", inv.ID, "6.50")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "book.xlsx")
	out, err := run(t, a, "", "invoices", "ledger", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	out, err = run(t, a, "", "invoices", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoices:    1")
	assert.Contains(t, out, "Billed:      $16.50")
	assert.Contains(t, out, "Collected:   $6.50")
	assert.Contains(t, out, "Outstanding: $10.00")
}

func TestResetAndClear(t *testing.T) {
	a := newTestApp(t)
	createAcme(t, a)
	_, err := run(t, a, "", "company", "set", "--name", "Tools Inc")
	require.NoError(t, err)

	out, err := run(t, a, "", "invoices", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	onlyInvoice(t, a)

	out, err = run(t, a, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All data has been deleted.")

	assert.Empty(t, a.InvoiceService.ListInvoices(context.Background(), service.ListFilter{}))
	profile, err := a.CompanyRepo.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestConfigShowAndSave(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	a := newTestApp(t)

	out, err := run(t, a, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "backend: memory")
	assert.Contains(t, out, "number_prefix: INV")

	out, err = run(t, a, "", "config", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Config written to")

	loaded, err := config.Load(config.DefaultConfigPath())
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, loaded.Store.Backend)
	assert.Equal(t, a.Config.Invoice.OutputDir, loaded.Invoice.OutputDir)
}

func TestParseItemFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    service.ItemInput
		wantErr bool
	}{
		{raw: "Widget:2:5", want: service.ItemInput{Name: "Widget", Quantity: "2", UnitPrice: "5"}},
		{raw: "Cable 3:1 ratio:4:2.50", want: service.ItemInput{Name: "Cable 3:1 ratio", Quantity: "4", UnitPrice: "2.50"}},
		{raw: "::", want: service.ItemInput{}},
		{raw: "Widget:2", wantErr: true},
		{raw: "Widget", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseItemFlag(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Acme Co...", truncate("Acme Corporation", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
