package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/repository"
)

// Summary provides totals across all stored invoices
type Summary struct {
	Count       int
	ByStatus    map[domain.Status]int
	Billed      decimal.Decimal // Sum of totals
	Collected   decimal.Decimal // Sum of paid amounts
	Outstanding decimal.Decimal // Sum of pending amounts
	PastDue     int             // Unpaid invoices whose due date has passed
}

// SummaryService provides aggregations for the dashboard and CLI
type SummaryService interface {
	GetSummary(ctx context.Context, asOf time.Time) *Summary
	GetOutstandingTotal(ctx context.Context) decimal.Decimal
}

type summaryService struct {
	invoiceRepo repository.InvoiceRepository
}

// NewSummaryService creates a new summary service
func NewSummaryService(invoiceRepo repository.InvoiceRepository) SummaryService {
	return &summaryService{invoiceRepo: invoiceRepo}
}

func (s *summaryService) GetSummary(ctx context.Context, asOf time.Time) *Summary {
	summary := &Summary{
		ByStatus:    make(map[domain.Status]int),
		Billed:      decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
	}

	for _, inv := range s.invoiceRepo.List(ctx) {
		summary.Count++
		summary.ByStatus[inv.Status]++
		summary.Billed = summary.Billed.Add(inv.Total)
		summary.Collected = summary.Collected.Add(inv.PaidAmount)
		summary.Outstanding = summary.Outstanding.Add(inv.Pending())
		if inv.IsPastDue(asOf) {
			summary.PastDue++
		}
	}

	return summary
}

func (s *summaryService) GetOutstandingTotal(ctx context.Context) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range s.invoiceRepo.List(ctx) {
		total = total.Add(inv.Pending())
	}
	return total
}
