package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/export"
	"github.com/andy/billbook/internal/service"
)

type invoiceViewMode int

const (
	invoiceViewList    invoiceViewMode = iota
	invoiceViewSearch                  // Typing a search query
	invoiceViewDetail                  // Viewing a single invoice
	invoiceViewPayment                 // Editing the paid amount
	invoiceViewConfirmDelete
)

// InvoicesModel displays invoices in list and detail views
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []*domain.Invoice
	cursor    int
	selected  *domain.Invoice
	loading   bool
	err       error
	statusMsg string
	now       time.Time

	// Filters
	searchInput  textinput.Model
	statusFilter *domain.Status

	// Payment editing
	paymentInput textinput.Model
	preview      *service.PaymentPreview
	previewErr   error
	returnMode   invoiceViewMode // where payment/delete go back to
}

// IsCapturingInput returns true while a text input or confirmation is active
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.mode == invoiceViewSearch ||
		m.mode == invoiceViewPayment ||
		m.mode == invoiceViewConfirmDelete
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
}

type invoiceDetailMsg struct {
	invoice *domain.Invoice
	err     error
}

type paymentSavedMsg struct {
	invoice *domain.Invoice
	err     error
}

type invoiceDeletedMsg struct {
	number string
	err    error
}

type invoiceExportedMsg struct {
	path string
	err  error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "Search by client name or invoice number"
	search.CharLimit = 100
	search.Width = 50
	search.Prompt = "/ "

	return &InvoicesModel{
		app:         a,
		mode:        invoiceViewList,
		loading:     true,
		searchInput: search,
		now:         time.Now(),
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) filter() service.ListFilter {
	return service.ListFilter{
		Query:  m.searchInput.Value(),
		Status: m.statusFilter,
	}
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	filter := m.filter()
	return func() tea.Msg {
		return invoicesDataMsg{
			invoices: m.app.InvoiceService.ListInvoices(context.Background(), filter),
		}
	}
}

func (m *InvoicesModel) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		invoice, err := m.app.InvoiceService.GetInvoice(context.Background(), id)
		return invoiceDetailMsg{invoice: invoice, err: err}
	}
}

func (m *InvoicesModel) savePayment() tea.Cmd {
	id := m.selected.ID
	paid := m.paymentInput.Value()
	return func() tea.Msg {
		invoice, err := m.app.InvoiceService.EditPayment(context.Background(), id, paid)
		return paymentSavedMsg{invoice: invoice, err: err}
	}
}

func (m *InvoicesModel) deleteInvoice() tea.Cmd {
	inv := m.selected
	return func() tea.Msg {
		ok, err := m.app.InvoiceService.DeleteInvoice(context.Background(), inv.ID)
		if err == nil && !ok {
			err = fmt.Errorf("invoice %s no longer exists", inv.InvoiceNumber)
		}
		return invoiceDeletedMsg{number: inv.InvoiceNumber, err: err}
	}
}

func (m *InvoicesModel) exportInvoice(id string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.app.Exporter.ExportPDF(context.Background(), id)
		return invoiceExportedMsg{path: path, err: err}
	}
}

// current returns the invoice an action applies to
func (m *InvoicesModel) current() *domain.Invoice {
	if m.mode == invoiceViewDetail && m.selected != nil {
		return m.selected
	}
	if len(m.invoices) == 0 {
		return nil
	}
	return m.invoices[m.cursor]
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.now = time.Now()
		m.invoices = msg.invoices
		if m.cursor >= len(m.invoices) {
			m.cursor = max(len(m.invoices)-1, 0)
		}
		return m, nil

	case invoiceDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.invoice
		m.mode = invoiceViewDetail
		return m, nil

	case paymentSavedMsg:
		if msg.err != nil {
			m.previewErr = msg.err
			return m, nil
		}
		m.selected = msg.invoice
		m.mode = m.returnMode
		m.statusMsg = fmt.Sprintf("Payment updated for %s: %s", msg.invoice.InvoiceNumber, msg.invoice.Status)
		return m, m.loadInvoices()

	case invoiceDeletedMsg:
		m.mode = invoiceViewList
		m.selected = nil
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.statusMsg = fmt.Sprintf("Invoice %s deleted", msg.number)
		}
		return m, m.loadInvoices()

	case invoiceExportedMsg:
		switch {
		case errors.Is(msg.err, export.ErrCompanyProfileMissing):
			m.err = errors.New("company information not found, add it under settings (,) first")
		case msg.err != nil:
			m.err = msg.err
		default:
			m.statusMsg = "PDF written to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch m.mode {
		case invoiceViewList:
			return m.updateList(msg)
		case invoiceViewSearch:
			return m.updateSearch(msg)
		case invoiceViewDetail:
			return m.updateDetail(msg)
		case invoiceViewPayment:
			return m.updatePayment(msg)
		case invoiceViewConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
	}

	// Forward non-key messages to the active input (cursor blink)
	var cmd tea.Cmd
	switch m.mode {
	case invoiceViewSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case invoiceViewPayment:
		m.paymentInput, cmd = m.paymentInput.Update(msg)
	}
	return m, cmd
}

// updateActions handles the keys shared by the list and detail views
func (m *InvoicesModel) updateActions(msg tea.KeyMsg) (tea.Cmd, bool) {
	inv := m.current()
	if inv == nil {
		return nil, false
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Pay):
		m.selected = inv
		m.returnMode = m.mode
		m.paymentInput = textinput.New()
		m.paymentInput.Placeholder = "0.00"
		m.paymentInput.CharLimit = 20
		m.paymentInput.Width = 20
		m.paymentInput.SetValue(inv.PaidAmount.StringFixed(2))
		m.refreshPreview()
		m.mode = invoiceViewPayment
		return m.paymentInput.Focus(), true

	case key.Matches(msg, DefaultKeyMap.Delete):
		m.selected = inv
		m.returnMode = m.mode
		m.mode = invoiceViewConfirmDelete
		return nil, true

	case key.Matches(msg, DefaultKeyMap.Export):
		m.statusMsg = ""
		m.err = nil
		return m.exportInvoice(inv.ID), true
	}
	return nil, false
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	if cmd, handled := m.updateActions(msg); handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.invoices)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(m.invoices) > 0 {
			m.loading = true
			return m, m.loadDetail(m.invoices[m.cursor].ID)
		}
	case key.Matches(msg, DefaultKeyMap.Search):
		m.statusMsg = ""
		m.mode = invoiceViewSearch
		return m, m.searchInput.Focus()
	case key.Matches(msg, DefaultKeyMap.Filter):
		m.statusFilter = nextStatusFilter(m.statusFilter)
		m.cursor = 0
		return m, m.loadInvoices()
	case key.Matches(msg, DefaultKeyMap.Back):
		if m.searchInput.Value() != "" || m.statusFilter != nil {
			m.searchInput.SetValue("")
			m.statusFilter = nil
			m.cursor = 0
			return m, m.loadInvoices()
		}
	}

	return m, nil
}

// nextStatusFilter cycles all -> pending -> partial -> paid -> overdue -> all
func nextStatusFilter(current *domain.Status) *domain.Status {
	if current == nil {
		s := domain.Statuses[0]
		return &s
	}
	for i, s := range domain.Statuses {
		if s == *current && i+1 < len(domain.Statuses) {
			next := domain.Statuses[i+1]
			return &next
		}
	}
	return nil
}

func (m *InvoicesModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.mode = invoiceViewList
		m.cursor = 0
		return m, m.loadInvoices()
	case "enter":
		m.searchInput.Blur()
		m.mode = invoiceViewList
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cursor = 0
	return m, tea.Batch(cmd, m.loadInvoices())
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	if cmd, handled := m.updateActions(msg); handled {
		return m, cmd
	}

	if key.Matches(msg, DefaultKeyMap.Back) {
		m.mode = invoiceViewList
		m.selected = nil
	}
	return m, nil
}

func (m *InvoicesModel) refreshPreview() {
	m.preview, m.previewErr = m.app.InvoiceService.PreviewPayment(m.selected, m.paymentInput.Value())
}

func (m *InvoicesModel) updatePayment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = m.returnMode
		m.preview = nil
		m.previewErr = nil
		return m, nil
	case "enter":
		if m.previewErr != nil {
			return m, nil
		}
		return m, m.savePayment()
	}

	var cmd tea.Cmd
	m.paymentInput, cmd = m.paymentInput.Update(msg)
	m.refreshPreview()
	return m, cmd
}

func (m *InvoicesModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, DefaultKeyMap.Confirm) {
		return m, m.deleteInvoice()
	}
	// anything else cancels
	m.mode = m.returnMode
	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading..."
	}

	switch m.mode {
	case invoiceViewDetail:
		return m.viewDetail()
	case invoiceViewPayment:
		return m.viewPayment()
	case invoiceViewConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewList()
	}
}

func (m *InvoicesModel) viewMessages() string {
	var s string
	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}
	return s
}

func (m *InvoicesModel) viewList() string {
	var s string
	s += titleStyle.Render("Invoices")
	if m.statusFilter != nil {
		s += subtitleStyle.Render("  status: " + string(*m.statusFilter))
	}
	s += "\n\n"

	if m.mode == invoiceViewSearch || m.searchInput.Value() != "" {
		s += "  " + m.searchInput.View() + "\n\n"
	}

	s += m.viewMessages()

	if len(m.invoices) == 0 {
		if m.searchInput.Value() != "" || m.statusFilter != nil {
			s += subtitleStyle.Render("  No invoices match. esc: clear filters")
		} else {
			s += subtitleStyle.Render("  No invoices yet. Press 'n' to create one.")
		}
		return s
	}

	s += subtitleStyle.Render(fmt.Sprintf(
		"  %-16s  %-20s  %-10s  %12s  %12s  %s",
		"Number", "Client", "Date", "Total", "Pending", "Status",
	)) + "\n"

	for i, inv := range m.invoices {
		line := fmt.Sprintf("  %-16s  %-20s  %-10s  %12s  %12s  %s",
			truncateStr(inv.InvoiceNumber, 16),
			truncateStr(inv.ClientName, 20),
			inv.Date,
			formatMoney(m.app, inv.Total),
			formatMoney(m.app, inv.Pending()),
			statusBadge(inv.Status),
		)
		if inv.IsPastDue(m.now) {
			line += warnStyle.Render(" !")
		}

		if i == m.cursor {
			s += selectedStyle.Render(line) + "\n"
		} else {
			s += line + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: detail  /: search  f: status filter  p: payment  d: delete  x: export pdf")

	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	if inv == nil {
		return "No invoice selected"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Invoice %s", inv.InvoiceNumber)) + "  " + statusBadge(inv.Status) + "\n\n")
	b.WriteString(m.viewMessages())

	fmt.Fprintf(&b, "  Client:   %s\n", inv.ClientName)
	if inv.ClientContact != "" {
		fmt.Fprintf(&b, "  Contact:  %s\n", inv.ClientContact)
	}
	if inv.ClientAddress != "" {
		fmt.Fprintf(&b, "  Address:  %s\n", inv.ClientAddress)
	}
	if inv.VehicleNo != "" {
		fmt.Fprintf(&b, "  Vehicle:  %s\n", inv.VehicleNo)
	}
	fmt.Fprintf(&b, "  Date:     %s\n", inv.Date)
	if inv.DueDate != "" {
		due := inv.DueDate
		if inv.IsPastDue(m.now) {
			due += warnStyle.Render("  (past due)")
		}
		fmt.Fprintf(&b, "  Due:      %s\n", due)
	}
	b.WriteString("\n")

	if len(inv.Items) == 0 {
		b.WriteString(subtitleStyle.Render("  No items") + "\n")
	} else {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(
			"  %-30s  %6s  %12s  %12s", "Item", "Qty", "Price", "Amount",
		)) + "\n")
		for _, item := range inv.Items {
			fmt.Fprintf(&b, "  %-30s  %6d  %12s  %12s\n",
				truncateStr(item.Name, 30),
				item.Quantity,
				formatMoney(m.app, item.UnitPrice),
				formatMoney(m.app, item.LineTotal()),
			)
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  %-16s %12s\n", "Subtotal:", formatMoney(m.app, inv.Subtotal))
	fmt.Fprintf(&b, "  %-16s %12s\n", fmt.Sprintf("Tax (%s%%):", inv.TaxRate.String()), formatMoney(m.app, inv.TaxAmount))
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("  %-16s %12s", "Total:", formatMoney(m.app, inv.Total)),
	) + "\n")
	fmt.Fprintf(&b, "  %-16s %12s\n", "Paid:", formatMoney(m.app, inv.PaidAmount))
	pending := fmt.Sprintf("  %-16s %12s", "Pending:", formatMoney(m.app, inv.Pending()))
	if inv.Pending().IsPositive() {
		pending = pendingStyle.Render(pending)
	}
	b.WriteString(pending + "\n")

	if inv.Notes != "" {
		fmt.Fprintf(&b, "\n  Notes: %s\n", inv.Notes)
	}

	b.WriteString("\n" + helpStyle.Render("  p: payment  d: delete  x: export pdf  esc: back to list"))

	return b.String()
}

func (m *InvoicesModel) viewPayment() string {
	inv := m.selected
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Payment - %s", inv.InvoiceNumber)) + "\n\n")
	fmt.Fprintf(&b, "  Client:  %s\n", inv.ClientName)
	fmt.Fprintf(&b, "  Total:   %s\n\n", formatMoney(m.app, inv.Total))

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render("  Amount paid:") + "\n")
	b.WriteString("  " + m.paymentInput.View() + "\n\n")

	switch {
	case m.previewErr != nil:
		b.WriteString(errorStyle.Render("  "+m.previewErr.Error()) + "\n")
	case m.preview != nil:
		fmt.Fprintf(&b, "  Pending: %s\n", pendingStyle.Render(formatMoney(m.app, m.preview.Pending)))
		fmt.Fprintf(&b, "  Status:  %s\n", statusBadge(m.preview.Status))
	}

	b.WriteString("\n" + helpStyle.Render("  enter: save  esc: cancel"))
	return b.String()
}

func (m *InvoicesModel) viewConfirmDelete() string {
	inv := m.selected
	return titleStyle.Render("Delete Invoice") + "\n\n" +
		warnStyle.Render(fmt.Sprintf("  Delete invoice %s for %s (%s)?",
			inv.InvoiceNumber, inv.ClientName, formatMoney(m.app, inv.Total))) + "\n\n" +
		helpStyle.Render("  y: delete  any other key: cancel")
}
