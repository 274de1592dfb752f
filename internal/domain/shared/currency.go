package shared

// Currency is the quote pricing currency. The value set is closed.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyAED Currency = "AED"
)

// AllCurrencies returns the supported currencies.
func AllCurrencies() []Currency {
	return []Currency{CurrencyEUR, CurrencyUSD, CurrencyAED}
}

// Valid reports whether the currency belongs to the supported set.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyAED:
		return true
	default:
		return false
	}
}

// Symbol returns the display symbol used on quote documents.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyEUR:
		return "€"
	case CurrencyUSD:
		return "$"
	case CurrencyAED:
		return "AED"
	default:
		return string(c)
	}
}
