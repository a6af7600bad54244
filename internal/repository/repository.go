package repository

import (
	"context"
	"errors"

	"github.com/andy/billbook/internal/domain"
)

// Storage keys. Each holds one JSON document.
const (
	InvoicesKey    = "invoices"
	CompanyInfoKey = "company_info"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")

	ErrSaveFailed   = errors.New("failed to save invoice")
	ErrUpdateFailed = errors.New("failed to update invoice")
	ErrDeleteFailed = errors.New("failed to delete invoice")
	ErrClearFailed  = errors.New("failed to clear invoices")

	ErrProfileSaveFailed  = errors.New("failed to save company info")
	ErrProfileClearFailed = errors.New("failed to clear company info")
)

// InvoiceRepository persists the whole invoice collection under one key.
// Every write is read-modify-write of that collection; last write wins.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	// List never fails; an unreadable collection is logged and reads as empty
	List(ctx context.Context) []*domain.Invoice
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	// Update replaces the record with the same ID. Returns false if there is none.
	Update(ctx context.Context, invoice *domain.Invoice) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// CompanyRepository manages the company profile (singleton)
type CompanyRepository interface {
	Get(ctx context.Context) (*domain.CompanyProfile, error) // Returns nil if never saved
	Save(ctx context.Context, profile *domain.CompanyProfile) error
	Delete(ctx context.Context) error
}
