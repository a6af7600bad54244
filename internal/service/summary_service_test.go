package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/billbook/internal/domain"
)

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	repo := newMockInvoiceRepo()
	svc := newTestService(t, repo)

	paid := widgetBoltInput()
	paid.PaidAmount = "16.5"
	_, err := svc.Create(ctx, paid)
	require.NoError(t, err)

	partial := widgetBoltInput()
	partial.PaidAmount = "5"
	partial.DueDate = "2026-03-01"
	_, err = svc.Create(ctx, partial)
	require.NoError(t, err)

	_, err = svc.Create(ctx, widgetBoltInput())
	require.NoError(t, err)

	summary := NewSummaryService(repo).GetSummary(ctx, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 1, summary.ByStatus[domain.StatusPaid])
	assert.Equal(t, 1, summary.ByStatus[domain.StatusPartial])
	assert.Equal(t, 1, summary.ByStatus[domain.StatusPending])
	assert.Equal(t, "49.50", summary.Billed.StringFixed(2))
	assert.Equal(t, "21.50", summary.Collected.StringFixed(2))
	assert.Equal(t, "28.00", summary.Outstanding.StringFixed(2))
	assert.Equal(t, 1, summary.PastDue)
}

func TestGetOutstandingTotal_Empty(t *testing.T) {
	total := NewSummaryService(newMockInvoiceRepo()).GetOutstandingTotal(context.Background())
	assert.True(t, total.IsZero())
}
