package tui

import "github.com/andy/billbook/internal/domain"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenCompanyFormMsg tells the settings screen to open the company form
type OpenCompanyFormMsg struct{}

// InvoiceCreatedMsg is sent after the form saved a new invoice
type InvoiceCreatedMsg struct {
	Invoice *domain.Invoice
}

// firstRunCheckMsg reports whether company details have been entered
type firstRunCheckMsg struct {
	hasProfile bool
}
