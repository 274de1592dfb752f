package shared

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale identifies one of the quote document languages.
// The value set is closed: quotes and catalog entries carry text for
// exactly these locales.
type Locale string

const (
	LocaleFR Locale = "FR"
	LocaleEN Locale = "EN"
	LocaleDE Locale = "DE"
	LocaleIT Locale = "IT"
	LocaleES Locale = "ES"
	LocaleRU Locale = "RU"
	LocaleHU Locale = "HU"
	LocalePL Locale = "PL"
)

// AllLocales returns the supported locales in display order.
func AllLocales() []Locale {
	return []Locale{LocaleEN, LocaleFR, LocaleDE, LocaleIT, LocaleES, LocaleRU, LocaleHU, LocalePL}
}

// ParseLocale normalizes an arbitrary language tag ("fr", "fr-FR", "FR")
// to a supported Locale. Returns an error for tags outside the closed set.
func ParseLocale(s string) (Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", NewDomainError("INVALID_LOCALE", "Unrecognized language tag: "+s)
	}
	base, _ := tag.Base()
	candidate := Locale(strings.ToUpper(base.String()))
	for _, l := range AllLocales() {
		if l == candidate {
			return l, nil
		}
	}
	return "", NewDomainError("INVALID_LOCALE", "Unsupported language: "+s)
}

// Valid reports whether the locale belongs to the supported set.
func (l Locale) Valid() bool {
	for _, known := range AllLocales() {
		if l == known {
			return true
		}
	}
	return false
}
