package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stored amounts are plain JSON numbers so other readers of the invoices
// document can use them without parsing strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the format of Invoice.Date and Invoice.DueDate
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusPending, StatusPartial, StatusPaid, StatusOverdue}

var (
	ErrClientNameRequired = errors.New("please enter client name")
	ErrNoItems            = errors.New("please add at least one item")
)

// Valid returns true if s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// ParseStatus converts user input into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

type InvoiceItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineTotal is quantity × unit price. It is never stored.
func (it InvoiceItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(it.Quantity)).Mul(it.UnitPrice)
}

// IsBlank reports whether the item has no usable name
func (it InvoiceItem) IsBlank() bool {
	return strings.TrimSpace(it.Name) == ""
}

type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientName    string          `json:"clientName"`
	ClientContact string          `json:"clientContact,omitempty"`
	ClientAddress string          `json:"clientAddress,omitempty"`
	Date          string          `json:"date"`
	DueDate       string          `json:"dueDate,omitempty"`
	Items         []InvoiceItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Status        Status          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	VehicleNo     string          `json:"vehicleNo,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewInvoice creates an invoice with an identity and creation time. Callers
// fill in the remaining fields and call Recalculate before persisting.
func NewInvoice(id, invoiceNumber, clientName string, createdAt time.Time) *Invoice {
	return &Invoice{
		ID:            id,
		InvoiceNumber: strings.TrimSpace(invoiceNumber),
		ClientName:    strings.TrimSpace(clientName),
		Date:          createdAt.Format(DateLayout),
		Items:         make([]InvoiceItem, 0),
		Status:        StatusPending,
		CreatedAt:     createdAt,
	}
}

// Recalculate drops blank items and refreshes every derived field
func (i *Invoice) Recalculate() {
	i.Items = FilterItems(i.Items)
	i.Subtotal = ComputeSubtotal(i.Items)
	i.TaxAmount = ComputeTax(i.Subtotal, i.TaxRate)
	i.Total = ComputeTotal(i.Subtotal, i.TaxAmount)
	i.Status = DeriveStatus(i.Total, i.PaidAmount)
}

// ApplyPayment replaces the paid amount and re-derives status
func (i *Invoice) ApplyPayment(paid decimal.Decimal) {
	i.PaidAmount = paid
	i.Recalculate()
}

func (i *Invoice) Pending() decimal.Decimal {
	return ComputePending(i.Total, i.PaidAmount)
}

// IsPastDue is a display hint only; it never changes Status.
func (i *Invoice) IsPastDue(now time.Time) bool {
	if i.Status == StatusPaid || strings.TrimSpace(i.DueDate) == "" {
		return false
	}
	due, err := time.ParseInLocation(DateLayout, strings.TrimSpace(i.DueDate), now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// Matches reports whether query is a case-insensitive substring of the
// client name or the invoice number. An empty query matches everything.
func (i *Invoice) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.ClientName), q) ||
		strings.Contains(strings.ToLower(i.InvoiceNumber), q)
}

// Clone returns a deep copy
func (i *Invoice) Clone() *Invoice {
	c := *i
	c.Items = make([]InvoiceItem, len(i.Items))
	copy(c.Items, i.Items)
	return &c
}

// Validate returns an error if the invoice may not be created
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.ClientName) == "" {
		return ErrClientNameRequired
	}
	if len(FilterItems(i.Items)) == 0 {
		return ErrNoItems
	}
	return nil
}
