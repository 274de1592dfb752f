package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyValid(t *testing.T) {
	for _, c := range AllCurrencies() {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Currency("GBP").Valid())
	assert.False(t, Currency("").Valid())
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "€", CurrencyEUR.Symbol())
	assert.Equal(t, "$", CurrencyUSD.Symbol())
	assert.Equal(t, "AED", CurrencyAED.Symbol())
}
