package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/service"
)

// header field indices
const (
	formNumber = iota
	formClient
	formContact
	formAddress
	formVehicle
	formDate
	formDue
	formTax
	formPaid
	formNotes
	formHeaderCount
)

// item columns
const (
	itemName = iota
	itemQty
	itemPrice
	itemColumns
)

var formLabels = [formHeaderCount]string{
	"Invoice Number:", "Client Name:", "Client Contact:", "Client Address:", "Vehicle No:",
	"Date (YYYY-MM-DD):", "Due Date (YYYY-MM-DD):", "Tax Rate (%):", "Paid Amount:", "Notes:",
}

// InvoiceFormModel is the new-invoice form with a live totals panel
type InvoiceFormModel struct {
	app        *app.App
	fields     []textinput.Model
	items      [][itemColumns]textinput.Model
	fieldFocus int // index over header fields, then item cells row by row
	err        error
	saving     bool
}

type invoiceSavedMsg struct {
	invoice *domain.Invoice
	err     error
}

// formTotals is what the invoice would come to with the current input
type formTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Pending  decimal.Decimal
	Status   domain.Status
}

// NewInvoiceFormModel creates a blank invoice form with one item row
func NewInvoiceFormModel(a *app.App) tea.Model {
	m := &InvoiceFormModel{app: a}
	m.initForm()
	return m
}

// IsCapturingInput is always true; esc leaves the form
func (m *InvoiceFormModel) IsCapturingInput() bool {
	return true
}

func (m *InvoiceFormModel) Init() tea.Cmd {
	return m.focused().Focus()
}

func newInput(placeholder string, limit, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = width
	return in
}

func (m *InvoiceFormModel) initForm() {
	m.fields = make([]textinput.Model, formHeaderCount)

	m.fields[formNumber] = newInput(m.app.InvoiceService.NextInvoiceNumber(), 40, 30)
	m.fields[formClient] = newInput("Client name", 100, 40)
	m.fields[formContact] = newInput("Phone or email", 100, 40)
	m.fields[formAddress] = newInput("Street, city", 200, 50)
	m.fields[formVehicle] = newInput("Optional", 20, 20)
	m.fields[formDate] = newInput("Today", 10, 12)
	m.fields[formDue] = newInput("Optional", 10, 12)
	// blank tax means the configured default, shown as the placeholder
	defaultTax := strconv.FormatFloat(m.app.Config.Invoice.DefaultTaxRate, 'f', -1, 64)
	m.fields[formTax] = newInput(defaultTax, 6, 8)
	m.fields[formTax].SetValue(defaultTax)
	m.fields[formPaid] = newInput("0.00", 20, 12)
	m.fields[formNotes] = newInput("Optional notes", 200, 50)

	m.items = nil
	m.addItem()
	m.fieldFocus = formNumber
}

func (m *InvoiceFormModel) addItem() {
	qty := newInput("1", 6, 6)
	qty.SetValue("1")
	m.items = append(m.items, [itemColumns]textinput.Model{
		newInput("Item name", 100, 28),
		qty,
		newInput("0.00", 12, 10),
	})
}

func (m *InvoiceFormModel) fieldCount() int {
	return formHeaderCount + len(m.items)*itemColumns
}

// focused returns the input that currently has focus
func (m *InvoiceFormModel) focused() *textinput.Model {
	if m.fieldFocus < formHeaderCount {
		return &m.fields[m.fieldFocus]
	}
	cell := m.fieldFocus - formHeaderCount
	return &m.items[cell/itemColumns][cell%itemColumns]
}

func (m *InvoiceFormModel) moveFocus(delta int) tea.Cmd {
	m.focused().Blur()
	n := m.fieldCount()
	m.fieldFocus = (m.fieldFocus + delta + n) % n
	return m.focused().Focus()
}

// focusedRow returns the item row with focus, or -1 on a header field
func (m *InvoiceFormModel) focusedRow() int {
	if m.fieldFocus < formHeaderCount {
		return -1
	}
	return (m.fieldFocus - formHeaderCount) / itemColumns
}

func (m *InvoiceFormModel) itemInputs() []service.ItemInput {
	items := make([]service.ItemInput, 0, len(m.items))
	for _, row := range m.items {
		items = append(items, service.ItemInput{
			Name:      row[itemName].Value(),
			Quantity:  row[itemQty].Value(),
			UnitPrice: row[itemPrice].Value(),
		})
	}
	return items
}

func (m *InvoiceFormModel) input() service.CreateInvoiceInput {
	return service.CreateInvoiceInput{
		InvoiceNumber: m.fields[formNumber].Value(),
		ClientName:    m.fields[formClient].Value(),
		ClientContact: m.fields[formContact].Value(),
		ClientAddress: m.fields[formAddress].Value(),
		VehicleNo:     m.fields[formVehicle].Value(),
		Date:          m.fields[formDate].Value(),
		DueDate:       m.fields[formDue].Value(),
		TaxRate:       m.fields[formTax].Value(),
		PaidAmount:    m.fields[formPaid].Value(),
		Notes:         m.fields[formNotes].Value(),
		Items:         m.itemInputs(),
	}
}

// totals is the invoice the service would store for the current input
func (m *InvoiceFormModel) totals() formTotals {
	inv := m.app.InvoiceService.PreviewInvoice(m.input())
	return formTotals{
		Subtotal: inv.Subtotal,
		Tax:      inv.TaxAmount,
		Total:    inv.Total,
		Pending:  inv.Pending(),
		Status:   inv.Status,
	}
}

func (m *InvoiceFormModel) save() tea.Cmd {
	in := m.input()
	return func() tea.Msg {
		inv, err := m.app.InvoiceService.Create(context.Background(), in)
		return invoiceSavedMsg{invoice: inv, err: err}
	}
}

func (m *InvoiceFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoiceSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		inv := msg.invoice
		return m, func() tea.Msg { return InvoiceCreatedMsg{Invoice: inv} }

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoices} }

		case key.Matches(msg, DefaultKeyMap.Save):
			m.err = nil
			m.saving = true
			return m, m.save()

		case key.Matches(msg, DefaultKeyMap.AddItem):
			m.addItem()
			m.focused().Blur()
			m.fieldFocus = m.fieldCount() - itemColumns
			return m, m.focused().Focus()

		case key.Matches(msg, DefaultKeyMap.RemoveItem):
			row := m.focusedRow()
			if row < 0 || len(m.items) == 1 {
				return m, nil
			}
			m.focused().Blur()
			m.items = append(m.items[:row], m.items[row+1:]...)
			m.fieldFocus = formHeaderCount + min(row, len(m.items)-1)*itemColumns
			return m, m.focused().Focus()

		case key.Matches(msg, DefaultKeyMap.NextField), msg.String() == "enter":
			return m, m.moveFocus(1)

		case key.Matches(msg, DefaultKeyMap.PrevField):
			return m, m.moveFocus(-1)
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	*m.focused(), cmd = m.focused().Update(msg)
	return m, cmd
}

func (m *InvoiceFormModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New Invoice") + "\n\n")

	focusLabel := lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	for i, label := range formLabels {
		indicator := "  "
		style := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			style = focusLabel
		}
		fmt.Fprintf(&b, "%s%-24s %s\n", indicator, style.Render(label), m.fields[i].View())
	}

	b.WriteString("\n" + subtitleStyle.Render(fmt.Sprintf("  %-30s %-8s %-12s %12s", "Item", "Qty", "Price", "Amount")) + "\n")
	for r, row := range m.items {
		indicator := "  "
		if m.focusedRow() == r {
			indicator = "> "
		}
		line := domain.InvoiceItem{
			Quantity:  domain.ParseQuantity(row[itemQty].Value()),
			UnitPrice: domain.ParseAmount(row[itemPrice].Value()),
		}.LineTotal()
		fmt.Fprintf(&b, "%s%s %s %s %12s\n", indicator,
			row[itemName].View(), row[itemQty].View(), row[itemPrice].View(),
			formatMoney(m.app, line))
	}

	t := m.totals()
	summary := fmt.Sprintf(
		"Subtotal: %s\nTax:      %s\nTotal:    %s\nPending:  %s\nStatus:   %s",
		formatMoney(m.app, t.Subtotal),
		formatMoney(m.app, t.Tax),
		amountStyle.Render(formatMoney(m.app, t.Total)),
		pendingStyle.Render(formatMoney(m.app, t.Pending)),
		statusBadge(t.Status),
	)
	b.WriteString("\n" + boxStyle.Render(summary) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n")
	}
	if m.saving {
		b.WriteString(subtitleStyle.Render("  Saving...") + "\n\n")
	}

	b.WriteString(helpStyle.Render("  tab/shift+tab: navigate  ctrl+a: add item  ctrl+d: remove item  ctrl+s: save  esc: cancel"))

	return b.String()
}
