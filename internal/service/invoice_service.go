package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/repository"
)

// ItemInput is one line item as typed by the user
type ItemInput struct {
	Name      string
	Quantity  string
	UnitPrice string
}

// CreateInvoiceInput carries raw form values. Numeric fields are sanitized by
// the domain; blank TaxRate means the configured default.
type CreateInvoiceInput struct {
	InvoiceNumber string
	ClientName    string `validate:"required"`
	ClientContact string
	ClientAddress string
	Date          string
	DueDate       string
	Items         []ItemInput `validate:"min=1"`
	TaxRate       string
	PaidAmount    string
	Notes         string
	VehicleNo     string
}

// ListFilter narrows ListInvoices. Zero value lists everything.
type ListFilter struct {
	Query  string
	Status *domain.Status
}

// PaymentPreview is what an invoice would look like with a new paid amount
type PaymentPreview struct {
	Paid    decimal.Decimal
	Pending decimal.Decimal
	Status  domain.Status
}

// Defaults holds the configured values applied to new invoices
type Defaults struct {
	NumberPrefix string
	TaxRate      decimal.Decimal
}

// InvoiceService routes every invoice change through the domain model
type InvoiceService interface {
	// Create builds, derives and persists a new invoice
	Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error)

	// PreviewInvoice derives an unsaved invoice from form input, applying
	// the same defaults as Create. Nothing is validated or persisted.
	PreviewInvoice(in CreateInvoiceInput) *domain.Invoice

	// NextInvoiceNumber returns the number used when none is given
	NextInvoiceNumber() string

	// GetInvoice retrieves an invoice by ID
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)

	// ListInvoices lists invoices newest first, optionally filtered
	ListInvoices(ctx context.Context, filter ListFilter) []*domain.Invoice

	// PreviewPayment computes pending and status for a typed paid amount
	PreviewPayment(invoice *domain.Invoice, paidText string) (*PaymentPreview, error)

	// EditPayment replaces the paid amount and re-derives status
	EditPayment(ctx context.Context, id string, paidText string) (*domain.Invoice, error)

	// UpdateInvoice re-derives and stores a fully edited invoice
	UpdateInvoice(ctx context.Context, invoice *domain.Invoice) (bool, error)

	DeleteInvoice(ctx context.Context, id string) (bool, error)

	// ClearAll removes every invoice
	ClearAll(ctx context.Context) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	defaults    Defaults
	validate    *validator.Validate
	logger      *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	defaults Defaults,
	logger *zap.Logger,
) InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		defaults:    defaults,
		validate:    validator.New(),
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *invoiceService) NextInvoiceNumber() string {
	millis := s.now().UnixMilli()
	if s.defaults.NumberPrefix == "" {
		return fmt.Sprintf("%d", millis)
	}
	return fmt.Sprintf("%s-%d", s.defaults.NumberPrefix, millis)
}

// build turns raw input into a derived invoice. Create and PreviewInvoice
// both go through here so a preview always matches what gets stored.
func (s *invoiceService) build(in CreateInvoiceInput) *domain.Invoice {
	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		number = s.NextInvoiceNumber()
	}

	inv := domain.NewInvoice(s.newID(), number, in.ClientName, s.now())
	if date := strings.TrimSpace(in.Date); date != "" {
		inv.Date = date
	}
	inv.ClientContact = strings.TrimSpace(in.ClientContact)
	inv.ClientAddress = strings.TrimSpace(in.ClientAddress)
	inv.DueDate = strings.TrimSpace(in.DueDate)
	inv.Notes = strings.TrimSpace(in.Notes)
	inv.VehicleNo = strings.TrimSpace(in.VehicleNo)

	for _, item := range in.Items {
		inv.Items = append(inv.Items, domain.InvoiceItem{
			ID:        s.newID(),
			Name:      strings.TrimSpace(item.Name),
			Quantity:  domain.ParseQuantity(item.Quantity),
			UnitPrice: domain.ParseAmount(item.UnitPrice),
		})
	}

	inv.TaxRate = s.defaults.TaxRate
	if strings.TrimSpace(in.TaxRate) != "" {
		inv.TaxRate = domain.ParseAmount(in.TaxRate)
	}
	inv.PaidAmount = domain.ParseAmount(in.PaidAmount)

	inv.Recalculate()
	return inv
}

func (s *invoiceService) PreviewInvoice(in CreateInvoiceInput) *domain.Invoice {
	return s.build(in)
}

func (s *invoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	if err := s.validate.Struct(&in); err != nil {
		return nil, fromValidator(err)
	}

	inv := s.build(in)
	if err := inv.Validate(); err != nil {
		return nil, fromDomain(err)
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", inv.ID),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.Total.StringFixed(2)),
	)
	return inv, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter ListFilter) []*domain.Invoice {
	all := s.invoiceRepo.List(ctx)

	out := make([]*domain.Invoice, 0, len(all))
	for _, inv := range all {
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		if !inv.Matches(filter.Query) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func (s *invoiceService) PreviewPayment(invoice *domain.Invoice, paidText string) (*PaymentPreview, error) {
	paid, err := domain.ParseAmountStrict(paidText)
	if err != nil {
		return nil, newValidationError("PaidAmount", err)
	}

	return &PaymentPreview{
		Paid:    paid,
		Pending: domain.ComputePending(invoice.Total, paid),
		Status:  domain.DeriveStatus(invoice.Total, paid),
	}, nil
}

func (s *invoiceService) EditPayment(ctx context.Context, id string, paidText string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	preview, err := s.PreviewPayment(inv, paidText)
	if err != nil {
		return nil, err
	}

	inv.ApplyPayment(preview.Paid)

	ok, err := s.invoiceRepo.Update(ctx, inv)
	if err != nil {
		return nil, err
	}
	if !ok {
		// deleted between read and write
		return nil, repository.ErrInvoiceNotFound
	}

	s.logger.Info("payment updated",
		zap.String("invoice_id", inv.ID),
		zap.String("paid", inv.PaidAmount.StringFixed(2)),
		zap.String("status", string(inv.Status)),
	)
	return inv, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, invoice *domain.Invoice) (bool, error) {
	invoice.ClientName = strings.TrimSpace(invoice.ClientName)
	invoice.Recalculate()
	if err := invoice.Validate(); err != nil {
		return false, fromDomain(err)
	}

	ok, err := s.invoiceRepo.Update(ctx, invoice)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("invoice updated", zap.String("invoice_id", invoice.ID))
	}
	return ok, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) (bool, error) {
	ok, err := s.invoiceRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("invoice deleted", zap.String("invoice_id", id))
	}
	return ok, nil
}

func (s *invoiceService) ClearAll(ctx context.Context) error {
	if err := s.invoiceRepo.Clear(ctx); err != nil {
		return err
	}
	s.logger.Warn("all invoices cleared")
	return nil
}
