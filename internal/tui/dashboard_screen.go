package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/service"
)

// DashboardModel shows totals across the book and the most recent invoices
type DashboardModel struct {
	app *app.App

	summary *service.Summary
	recent  []*domain.Invoice
	now     time.Time

	loading bool
}

type dashboardDataMsg struct {
	summary *service.Summary
	recent  []*domain.Invoice
	now     time.Time
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now()

		recent := m.app.InvoiceService.ListInvoices(ctx, service.ListFilter{})
		if len(recent) > 8 {
			recent = recent[:8]
		}

		return dashboardDataMsg{
			summary: m.app.SummaryService.GetSummary(ctx, now),
			recent:  recent,
			now:     now,
		}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.summary = msg.summary
		m.recent = msg.recent
		m.now = msg.now
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading || m.summary == nil {
		return "Loading summary..."
	}

	s := m.summary
	var b strings.Builder

	totals := fmt.Sprintf(
		"Billed:       %s\nCollected:    %s\nOutstanding:  %s",
		amountStyle.Render(formatMoney(m.app, s.Billed)),
		amountStyle.Render(formatMoney(m.app, s.Collected)),
		pendingStyle.Render(formatMoney(m.app, s.Outstanding)),
	)

	var counts []string
	counts = append(counts, fmt.Sprintf("Invoices:  %d", s.Count))
	for _, status := range domain.Statuses {
		counts = append(counts, fmt.Sprintf("  %-8s %s", string(status)+":", fmt.Sprint(s.ByStatus[status])))
	}
	if s.PastDue > 0 {
		counts = append(counts, warnStyle.Render(fmt.Sprintf("  %d past due", s.PastDue)))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(totals),
		"  ",
		boxStyle.Render(strings.Join(counts, "\n")),
	))
	b.WriteString("\n\n")

	b.WriteString("  Recent Invoices\n")
	if len(m.recent) == 0 {
		b.WriteString(subtitleStyle.Render("  No invoices yet. Press 'n' to create one.") + "\n")
		return b.String()
	}

	for _, inv := range m.recent {
		line := fmt.Sprintf("  %-10s  %-18s  %-20s  %12s  %s",
			inv.Date,
			truncateStr(inv.InvoiceNumber, 18),
			truncateStr(inv.ClientName, 20),
			formatMoney(m.app, inv.Total),
			statusBadge(inv.Status),
		)
		if inv.IsPastDue(m.now) {
			line += warnStyle.Render("  past due")
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}
