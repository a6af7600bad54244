package repository

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/storage"
)

// InvoiceRepo is a storage.Store implementation of InvoiceRepository
type InvoiceRepo struct {
	store  storage.Store
	logger *zap.Logger
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(store storage.Store, logger *zap.Logger) *InvoiceRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceRepo{store: store, logger: logger}
}

func (r *InvoiceRepo) load(ctx context.Context) []*domain.Invoice {
	var stored []*domain.Invoice
	if !readDocument(ctx, r.store, r.logger, InvoicesKey, &stored) {
		return []*domain.Invoice{}
	}

	invoices := make([]*domain.Invoice, 0, len(stored))
	for _, inv := range stored {
		if inv != nil {
			invoices = append(invoices, inv)
		}
	}
	return invoices
}

func (r *InvoiceRepo) save(ctx context.Context, invoices []*domain.Invoice) error {
	return writeDocument(ctx, r.store, InvoicesKey, invoices)
}

// Create appends the invoice to the stored collection
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	invoices := append(r.load(ctx), invoice.Clone())

	if err := r.save(ctx, invoices); err != nil {
		r.logger.Error("create invoice", zap.String("invoice_id", invoice.ID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	r.logger.Debug("invoice created", zap.String("invoice_id", invoice.ID))
	return nil
}

// List returns every invoice, newest first
func (r *InvoiceRepo) List(ctx context.Context) []*domain.Invoice {
	invoices := r.load(ctx)
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	for _, inv := range r.load(ctx) {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, ErrInvoiceNotFound
}

func (r *InvoiceRepo) Update(ctx context.Context, invoice *domain.Invoice) (bool, error) {
	invoices := r.load(ctx)

	found := false
	for i, inv := range invoices {
		if inv.ID == invoice.ID {
			invoices[i] = invoice.Clone()
			found = true
			break
		}
	}
	if !found {
		r.logger.Debug("update of unknown invoice ignored", zap.String("invoice_id", invoice.ID))
		return false, nil
	}

	if err := r.save(ctx, invoices); err != nil {
		r.logger.Error("update invoice", zap.String("invoice_id", invoice.ID), zap.Error(err))
		return false, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	r.logger.Debug("invoice updated", zap.String("invoice_id", invoice.ID))
	return true, nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) (bool, error) {
	invoices := r.load(ctx)

	kept := make([]*domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	if len(kept) == len(invoices) {
		return false, nil
	}

	if err := r.save(ctx, kept); err != nil {
		r.logger.Error("delete invoice", zap.String("invoice_id", id), zap.Error(err))
		return false, fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	r.logger.Debug("invoice deleted", zap.String("invoice_id", id))
	return true, nil
}

// Clear removes the whole collection. Clearing an empty store succeeds.
func (r *InvoiceRepo) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, InvoicesKey); err != nil {
		r.logger.Error("clear invoices", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}

	r.logger.Info("invoices cleared")
	return nil
}
