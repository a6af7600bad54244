package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/storage"
)

// brokenStore fails every operation with err
type brokenStore struct {
	err error
}

func (s *brokenStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, s.err }
func (s *brokenStore) Set(ctx context.Context, key string, value []byte) error { return s.err }
func (s *brokenStore) Remove(ctx context.Context, key string) error { return s.err }

func newInvoice(id, client string, createdAt time.Time) *domain.Invoice {
	inv := domain.NewInvoice(id, "INV-"+id, client, createdAt)
	inv.Items = []domain.InvoiceItem{
		{ID: id + "-1", Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("5")},
		{ID: id + "-2", Name: "Bolt", Quantity: 1, UnitPrice: decimal.RequireFromString("5")},
	}
	inv.TaxRate = decimal.RequireFromString("10")
	inv.Recalculate()
	return inv
}

func asJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestInvoiceRepo_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	inv := newInvoice("a", "Acme", time.Now().UTC())
	inv.Notes = "net 30"
	inv.VehicleNo = "KA-01"
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, asJSON(t, inv), asJSON(t, got))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("16.5")))
}

func TestInvoiceRepo_GetByIDMissing(t *testing.T) {
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	_, err := repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestInvoiceRepo_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newInvoice("t2", "B", base.Add(2*time.Hour))))
	require.NoError(t, repo.Create(ctx, newInvoice("t1", "A", base.Add(1*time.Hour))))
	require.NoError(t, repo.Create(ctx, newInvoice("t3", "C", base.Add(3*time.Hour))))

	list := repo.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestInvoiceRepo_ListEmpty(t *testing.T) {
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	list := repo.List(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestInvoiceRepo_CorruptDocumentReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, InvoicesKey, []byte("{not json")))

	repo := NewInvoiceRepo(store, zaptest.NewLogger(t))
	assert.Empty(t, repo.List(ctx))

	_, err := repo.GetByID(ctx, "a")
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestInvoiceRepo_ReadFailureReadsEmpty(t *testing.T) {
	repo := NewInvoiceRepo(&brokenStore{err: errors.New("disk gone")}, zaptest.NewLogger(t))
	assert.Empty(t, repo.List(context.Background()))
}

func TestInvoiceRepo_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	inv := newInvoice("a", "Acme", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, inv))

	inv.ApplyPayment(decimal.RequireFromString("5"))
	ok, err := repo.Update(ctx, inv)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, got.Status)
	assert.Equal(t, "11.50", got.Pending().StringFixed(2))
}

func TestInvoiceRepo_UpdateMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	existing := newInvoice("a", "Acme", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, existing))
	before := asJSON(t, repo.List(ctx))

	ok, err := repo.Update(ctx, newInvoice("ghost", "Nobody", time.Now().UTC()))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.JSONEq(t, before, asJSON(t, repo.List(ctx)))
}

func TestInvoiceRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	require.NoError(t, repo.Create(ctx, newInvoice("a", "Acme", time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, newInvoice("b", "Globex", time.Now().UTC())))

	ok, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	list := repo.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestInvoiceRepo_ClearTwice(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	require.NoError(t, repo.Create(ctx, newInvoice("a", "Acme", time.Now().UTC())))

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))
	assert.Empty(t, repo.List(ctx))
}

func TestInvoiceRepo_WriteFailures(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("quota exceeded")

	repo := NewInvoiceRepo(&brokenStore{err: cause}, zaptest.NewLogger(t))

	err := repo.Create(ctx, newInvoice("a", "Acme", time.Now().UTC()))
	require.ErrorIs(t, err, ErrSaveFailed)
	require.ErrorIs(t, err, cause)

	err = repo.Clear(ctx)
	require.ErrorIs(t, err, ErrClearFailed)
}

func TestInvoiceRepo_UpdateAndDeleteWriteFailures(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	seed := NewInvoiceRepo(mem, zaptest.NewLogger(t))
	require.NoError(t, seed.Create(ctx, newInvoice("a", "Acme", time.Now().UTC())))

	data, err := mem.Get(ctx, InvoicesKey)
	require.NoError(t, err)

	store := &readOnlyStore{data: data, err: errors.New("read only")}
	repo := NewInvoiceRepo(store, zaptest.NewLogger(t))

	inv, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)

	_, err = repo.Update(ctx, inv)
	require.ErrorIs(t, err, ErrUpdateFailed)

	_, err = repo.Delete(ctx, "a")
	require.ErrorIs(t, err, ErrDeleteFailed)
}

// readOnlyStore serves one invoices document and refuses writes
type readOnlyStore struct {
	data []byte
	err  error
}

func (s *readOnlyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key != InvoicesKey {
		return nil, storage.ErrNotFound
	}
	return s.data, nil
}
func (s *readOnlyStore) Set(ctx context.Context, key string, value []byte) error { return s.err }
func (s *readOnlyStore) Remove(ctx context.Context, key string) error            { return s.err }

func TestInvoiceRepo_WidgetBoltScenario(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(storage.NewMemoryStore(), zaptest.NewLogger(t))

	inv := newInvoice("a", "Acme", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, inv))

	tests := []struct {
		paid    string
		status  domain.Status
		pending string
	}{
		{"16.50", domain.StatusPaid, "0.00"},
		{"5", domain.StatusPartial, "11.50"},
		{"0", domain.StatusPending, "16.50"},
	}

	for _, tt := range tests {
		got, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)

		got.ApplyPayment(decimal.RequireFromString(tt.paid))
		ok, err := repo.Update(ctx, got)
		require.NoError(t, err)
		require.True(t, ok)

		stored, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, tt.status, stored.Status, "paid %s", tt.paid)
		assert.Equal(t, tt.pending, stored.Pending().StringFixed(2), "paid %s", tt.paid)
		assert.Equal(t, "15.00", stored.Subtotal.StringFixed(2))
		assert.Equal(t, "1.50", stored.TaxAmount.StringFixed(2))
		assert.Equal(t, "16.50", stored.Total.StringFixed(2))
	}
}
