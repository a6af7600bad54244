package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/domain"
)

// formatMoney formats an amount with the configured currency symbol
func formatMoney(a *app.App, amount decimal.Decimal) string {
	return domain.FormatMoney(a.Config.Invoice.Currency, amount)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// statusBadge renders an invoice status with color
func statusBadge(status domain.Status) string {
	switch status {
	case domain.StatusPaid:
		return lipgloss.NewStyle().Foreground(successColor).Render("PAID")
	case domain.StatusPartial:
		return lipgloss.NewStyle().Foreground(primaryColor).Render("PARTIAL")
	case domain.StatusPending:
		return lipgloss.NewStyle().Foreground(warningColor).Render("PENDING")
	case domain.StatusOverdue:
		return lipgloss.NewStyle().Foreground(errorColor).Render("OVERDUE")
	default:
		return string(status)
	}
}
