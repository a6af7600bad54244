package domain

import "strings"

// CompanyProfile is the issuer shown on exported invoices. There is only one.
type CompanyProfile struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// IsEmpty returns true if no field carries text
func (p *CompanyProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	for _, v := range []string{p.Name, p.Phone, p.Email, p.Address} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
