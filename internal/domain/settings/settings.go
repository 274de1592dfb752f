package settings

import (
	"strings"

	"github.com/lalajet/backend/internal/domain/shared"
)

// SingletonKey is the fixed row identifier of the settings record. The
// profile is never deleted, only overwritten.
const SingletonKey = "global"

// Agent is a sales agent listed in the company directory.
type Agent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Profile is the company configuration singleton: branding, legal text
// and the directory of sales agents printed on quote documents.
type Profile struct {
	Name            string  `json:"name"`
	Logo            string  `json:"logo"`
	Address         string  `json:"address"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	Website         string  `json:"website"`
	LegalDisclaimer string  `json:"legalDisclaimer"`
	FooterInfo      string  `json:"footerInfo,omitempty"`
	PrimaryColor    string  `json:"primaryColor"`
	Agents          []Agent `json:"agents"`
}

// Default returns the built-in company profile used before any settings
// row exists remotely.
func Default() *Profile {
	return &Profile{
		Name:            "LalaJet",
		Address:         "Dubai Airport Freezone, Building 6EB, Office 250, Dubai, UAE",
		Phone:           "+971 4 123 4567",
		Email:           "booking@lalajet.com",
		Website:         "www.lalajet.com",
		LegalDisclaimer: "LalaJet is a flight broker. All flights are operated by certified air carriers.",
		FooterInfo:      "Offer valid for 48 hours. Subject to availability and traffic rights.",
		PrimaryColor:    "#d4af37",
		Agents:          []Agent{},
	}
}

// Validate checks the profile's invariants.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if p.PrimaryColor != "" && !strings.HasPrefix(p.PrimaryColor, "#") {
		return shared.NewDomainError("INVALID_COLOR", "Primary color must be a hex value")
	}
	return nil
}

// Clone returns a deep value copy of the profile.
func (p *Profile) Clone() *Profile {
	dup := *p
	dup.Agents = append([]Agent(nil), p.Agents...)
	return &dup
}
