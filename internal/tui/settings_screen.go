package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billbook/internal/app"
	"github.com/andy/billbook/internal/config"
	"github.com/andy/billbook/internal/domain"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
	settingsModeConfirmClear
)

// company form field indices
const (
	companyFieldName = iota
	companyFieldPhone
	companyFieldEmail
	companyFieldAddress
	companyFieldCount
)

type companyLoadedMsg struct {
	profile *domain.CompanyProfile
	err     error
}

type companySavedMsg struct {
	profile *domain.CompanyProfile
	err     error
}

type dataClearedMsg struct {
	err error
}

// SettingsModel shows company details and invoice settings
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	profile    *domain.CompanyProfile
	fields     []textinput.Model
	fieldFocus int
	loading    bool
	openForm   bool // open the company form once loading finishes
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:     a,
		mode:    settingsModeView,
		loading: true,
	}
}

// IsCapturingInput returns true when the edit form or a confirmation is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode != settingsModeView
}

func (m *SettingsModel) Init() tea.Cmd {
	return m.loadProfile()
}

func (m *SettingsModel) loadProfile() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.app.CompanyRepo.Get(context.Background())
		return companyLoadedMsg{profile: profile, err: err}
	}
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, companyFieldCount)
	m.fields[companyFieldName] = newInput("Company name", 100, 40)
	m.fields[companyFieldPhone] = newInput("+1 555 0100", 30, 20)
	m.fields[companyFieldEmail] = newInput("billing@example.com", 100, 40)
	m.fields[companyFieldAddress] = newInput("Street, city", 200, 50)

	if p := m.profile; p != nil {
		m.fields[companyFieldName].SetValue(p.Name)
		m.fields[companyFieldPhone].SetValue(p.Phone)
		m.fields[companyFieldEmail].SetValue(p.Email)
		m.fields[companyFieldAddress].SetValue(p.Address)
	}

	m.fieldFocus = companyFieldName
}

func (m *SettingsModel) openCompanyForm() tea.Cmd {
	m.mode = settingsModeEdit
	m.statusMsg = ""
	m.err = nil
	m.initForm()
	return m.fields[m.fieldFocus].Focus()
}

func (m *SettingsModel) saveCompany() tea.Cmd {
	profile := &domain.CompanyProfile{
		Name:    m.fields[companyFieldName].Value(),
		Phone:   m.fields[companyFieldPhone].Value(),
		Email:   m.fields[companyFieldEmail].Value(),
		Address: m.fields[companyFieldAddress].Value(),
	}
	return func() tea.Msg {
		if profile.Name == "" {
			return companySavedMsg{err: fmt.Errorf("company name is required")}
		}
		if err := m.app.CompanyRepo.Save(context.Background(), profile); err != nil {
			return companySavedMsg{err: err}
		}
		return companySavedMsg{profile: profile}
	}
}

func (m *SettingsModel) clearAll() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.app.InvoiceService.ClearAll(ctx); err != nil {
			return dataClearedMsg{err: err}
		}
		return dataClearedMsg{err: m.app.CompanyRepo.Delete(ctx)}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenCompanyFormMsg:
		if m.loading {
			m.openForm = true
			return m, nil
		}
		return m, m.openCompanyForm()

	case RefreshDataMsg:
		if m.mode == settingsModeView {
			m.loading = true
			return m, m.loadProfile()
		}
		return m, nil

	case companyLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.profile = msg.profile
		if m.openForm {
			m.openForm = false
			return m, m.openCompanyForm()
		}
		return m, nil

	case dataClearedMsg:
		m.mode = settingsModeView
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.profile = nil
		m.statusMsg = "All data has been deleted"
		return m, nil
	}

	switch m.mode {
	case settingsModeEdit:
		return m.updateForm(msg)
	case settingsModeConfirmClear:
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, DefaultKeyMap.Confirm) {
				return m, m.clearAll()
			}
			m.mode = settingsModeView
		}
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.loading {
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Select), key.Matches(msg, DefaultKeyMap.Edit):
			return m, m.openCompanyForm()
		case msg.String() == "X":
			m.statusMsg = ""
			m.mode = settingsModeConfirmClear
			return m, nil
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case companySavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.profile = msg.profile
		m.mode = settingsModeView
		m.statusMsg = "Company details saved"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % companyFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + companyFieldCount) % companyFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == companyFieldCount-1 {
				return m, m.saveCompany()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveCompany()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	switch m.mode {
	case settingsModeEdit:
		return m.viewForm()
	case settingsModeConfirmClear:
		return titleStyle.Render("Clear All Data") + "\n\n" +
			warnStyle.Render("  This deletes every invoice and your company details.") + "\n\n" +
			helpStyle.Render("  y: delete everything  any other key: cancel")
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	if m.loading {
		return "Loading settings..."
	}

	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)
	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}

	s += subtitleStyle.Render("  Company (printed on every invoice)") + "\n\n"
	if m.profile.IsEmpty() {
		s += warnStyle.Render("  Not set. PDF export needs a company name.") + "\n"
	} else {
		s += row("Name:", m.profile.Name)
		s += row("Phone:", m.profile.Phone)
		s += row("Email:", m.profile.Email)
		s += row("Address:", m.profile.Address)
	}

	cfg := m.app.Config
	s += "\n" + subtitleStyle.Render("  Invoice Settings ("+config.DefaultConfigPath()+")") + "\n\n"
	s += row("Number Prefix:", cfg.Invoice.NumberPrefix)
	s += row("Default Tax Rate:", strconv.FormatFloat(cfg.Invoice.DefaultTaxRate, 'f', -1, 64)+"%")
	s += row("Currency:", cfg.Invoice.Currency)
	s += row("Output Directory:", cfg.Invoice.OutputDir)
	s += row("Storage:", cfg.Store.Backend)

	s += "\n" + helpStyle.Render("  enter/e: edit company  X: clear all data")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	if m.profile.IsEmpty() {
		s += titleStyle.Render("Welcome to billbook!") + "\n"
		s += subtitleStyle.Render("  Enter your company details. They appear on every invoice you export.") + "\n\n"
	} else {
		s += titleStyle.Render("Edit Company") + "\n\n"
	}

	labels := []string{"Company Name:", "Phone:", "Email:", "Address:"}
	for i, label := range labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}
