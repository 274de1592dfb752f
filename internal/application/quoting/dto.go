package quoting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lalajet/backend/internal/domain/catalog"
	"github.com/lalajet/backend/internal/domain/client"
	"github.com/lalajet/backend/internal/domain/quote"
	"github.com/lalajet/backend/internal/domain/settings"
	"github.com/lalajet/backend/internal/domain/shared"
)

// ClientRequest carries client fields for create and update
type ClientRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address"`
	Country string `json:"country"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// ItemRequest carries catalog item fields for create and update
type ItemRequest struct {
	Kind        catalog.Kind          `json:"type" binding:"required"`
	Title       catalog.LocalizedText `json:"title"`
	Description catalog.LocalizedText `json:"description"`
	Images      []string              `json:"images"`
	Price       decimal.Decimal       `json:"price"`
	Quantity    int                   `json:"quantity"`
}

// ImportItemRequest marks an imported line item as optional
type ImportItemRequest struct {
	ItemKey  string `json:"itemId" binding:"required"`
	Optional bool   `json:"isOptional"`
}

// QuoteRequest is the full quote document as submitted by the editor.
// Language and currency are checked at binding time by the quote_locale
// and quote_currency validators, so an unsupported value is rejected
// before it reaches the domain.
type QuoteRequest struct {
	Key           string           `json:"id"`
	ClientName    string           `json:"clientName"`
	ClientEmail   string           `json:"clientEmail" binding:"omitempty,email"`
	ClientPhone   string           `json:"clientPhone"`
	ClientAddress string           `json:"clientAddress"`
	ClientCountry string           `json:"clientCountry"`
	Locale        shared.Locale    `json:"language" binding:"required,quote_locale"`
	Currency      shared.Currency  `json:"currency" binding:"required,quote_currency"`
	Outbound      quote.FlightLeg  `json:"flightDetails"`
	RoundTrip     bool             `json:"isRoundTrip"`
	Return        *quote.FlightLeg `json:"returnFlightDetails"`
	LineItems     []quote.LineItem `json:"cards"`
	TaxRate       decimal.Decimal  `json:"taxRate"`
	Status        quote.Status     `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	AgentName     string           `json:"agentName"`
	AgentTitle    string           `json:"agentTitle"`
	AgentEmail    string           `json:"agentEmail"`
	AgentPhone    string           `json:"agentPhone"`
}

// ToQuote maps the request onto a domain quote. A missing status means
// a draft; line items default to the empty list so the document never
// carries a null card array.
func (r *QuoteRequest) ToQuote() *quote.Quote {
	q := &quote.Quote{
		Key:           r.Key,
		ClientName:    r.ClientName,
		ClientEmail:   r.ClientEmail,
		ClientPhone:   r.ClientPhone,
		ClientAddress: r.ClientAddress,
		ClientCountry: r.ClientCountry,
		Locale:        r.Locale,
		Currency:      r.Currency,
		Outbound:      r.Outbound,
		RoundTrip:     r.RoundTrip,
		Return:        r.Return,
		LineItems:     r.LineItems,
		TaxRate:       r.TaxRate,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		AgentName:     r.AgentName,
		AgentTitle:    r.AgentTitle,
		AgentEmail:    r.AgentEmail,
		AgentPhone:    r.AgentPhone,
	}
	if q.Key == "" {
		q.Key = quote.NewKey()
	}
	if q.Status == "" {
		q.Status = quote.StatusDraft
	}
	if q.LineItems == nil {
		q.LineItems = []quote.LineItem{}
	}
	return q
}

// QuoteTotals carries the derived money amounts of a quote. Amounts are
// computed on every read and never stored.
type QuoteTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteResponse is a quote plus its derived totals
type QuoteResponse struct {
	*quote.Quote
	Totals QuoteTotals `json:"totals"`
}

// NewQuoteResponse builds a response with freshly derived totals
func NewQuoteResponse(q *quote.Quote) *QuoteResponse {
	return &QuoteResponse{
		Quote: q,
		Totals: QuoteTotals{
			Subtotal: q.Subtotal(),
			Tax:      q.Tax(),
			Total:    q.Total(),
		},
	}
}

// ClientResponse is the client as returned to the editor
type ClientResponse = client.Client

// ItemResponse is the catalog item as returned to the editor
type ItemResponse = catalog.Item

// SettingsResponse is the settings profile as returned to the editor
type SettingsResponse = settings.Profile
