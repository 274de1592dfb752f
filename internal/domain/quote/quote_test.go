package quote

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalajet/backend/internal/domain/catalog"
	"github.com/lalajet/backend/internal/domain/shared"
)

func TestNewKey(t *testing.T) {
	pattern := regexp.MustCompile(`^LJ-\d{4}-\d{4}$`)
	for i := 0; i < 100; i++ {
		key := NewKey()
		assert.Regexp(t, pattern, key)
	}
}

func TestNewEmpty(t *testing.T) {
	q := NewEmpty()
	assert.NotEmpty(t, q.Key)
	assert.Equal(t, shared.LocaleFR, q.Locale)
	assert.Equal(t, shared.CurrencyEUR, q.Currency)
	assert.Equal(t, StatusDraft, q.Status)
	assert.Equal(t, 1, q.Outbound.Pax)
	require.NotNil(t, q.Return)
	assert.False(t, q.RoundTrip)
	assert.Empty(t, q.LineItems)
	assert.NoError(t, q.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("bad locale", func(t *testing.T) {
		q := NewEmpty()
		q.Locale = "XX"
		assert.Error(t, q.Validate())
	})

	t.Run("bad currency", func(t *testing.T) {
		q := NewEmpty()
		q.Currency = "GBP"
		assert.Error(t, q.Validate())
	})

	t.Run("bad status", func(t *testing.T) {
		q := NewEmpty()
		q.Status = "PENDING"
		assert.Error(t, q.Validate())
	})

	t.Run("negative tax rate", func(t *testing.T) {
		q := NewEmpty()
		q.TaxRate = decimal.NewFromInt(-5)
		assert.Error(t, q.Validate())
	})

	t.Run("round trip without return leg", func(t *testing.T) {
		q := NewEmpty()
		q.RoundTrip = true
		q.Return = nil
		assert.Error(t, q.Validate())
	})
}

func lineItem(price int64, qty int) LineItem {
	return LineItem{Price: decimal.NewFromInt(price), Quantity: qty}
}

func TestTotals(t *testing.T) {
	t.Run("empty quote totals zero", func(t *testing.T) {
		q := NewEmpty()
		assert.True(t, q.Subtotal().IsZero())
		assert.True(t, q.Total().IsZero())
	})

	t.Run("subtotal multiplies by quantity", func(t *testing.T) {
		q := NewEmpty()
		q.LineItems = []LineItem{lineItem(100, 2), lineItem(50, 1)}
		assert.True(t, q.Subtotal().Equal(decimal.NewFromInt(250)))
	})

	t.Run("quantity below one counts as one", func(t *testing.T) {
		q := NewEmpty()
		q.LineItems = []LineItem{lineItem(100, 0)}
		assert.True(t, q.Subtotal().Equal(decimal.NewFromInt(100)))
	})

	t.Run("tax and total", func(t *testing.T) {
		q := NewEmpty()
		q.LineItems = []LineItem{lineItem(200, 1)}
		q.TaxRate = decimal.NewFromInt(20)
		assert.True(t, q.Tax().Equal(decimal.NewFromInt(40)))
		assert.True(t, q.Total().Equal(decimal.NewFromInt(240)))
	})
}

func TestImportItem(t *testing.T) {
	item, err := catalog.New(catalog.KindService)
	require.NoError(t, err)
	item.Key = "ci-1"
	item.Title[shared.LocaleEN] = "Catering"
	item.Price = decimal.NewFromInt(150)

	q := NewEmpty()
	q.ImportItem(item, true)

	require.Len(t, q.LineItems, 1)
	li := q.LineItems[0]
	assert.Equal(t, "ci-1", li.Key)
	assert.True(t, li.Optional)
	assert.True(t, li.Price.Equal(decimal.NewFromInt(150)))

	// Line items are value copies
	item.Title[shared.LocaleEN] = "Changed"
	assert.Equal(t, "Catering", li.Title[shared.LocaleEN])
}

func TestLifecycle(t *testing.T) {
	q := NewEmpty()
	q.Accept()
	assert.Equal(t, StatusAccepted, q.Status)
	q.Archive()
	assert.Equal(t, StatusArchived, q.Status)
}

func TestClone(t *testing.T) {
	q := NewEmpty()
	q.LineItems = []LineItem{{
		Key:   "ci-1",
		Title: catalog.LocalizedText{shared.LocaleEN: "Catering"},
	}}

	dup := q.Clone()
	dup.LineItems[0].Title[shared.LocaleEN] = "Changed"
	dup.Return.Pax = 9

	assert.Equal(t, "Catering", q.LineItems[0].Title[shared.LocaleEN])
	assert.Equal(t, 1, q.Return.Pax)
}
