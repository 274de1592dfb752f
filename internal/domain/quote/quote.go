package quote

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lalajet/backend/internal/domain/catalog"
	"github.com/lalajet/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// KeyPrefix is the prefix for generated quote keys.
const KeyPrefix = "LJ-"

// Status represents the lifecycle state of a quote.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusAccepted Status = "ACCEPTED"
	StatusArchived Status = "ARCHIVED"
)

// Valid reports whether the status belongs to the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusAccepted, StatusArchived:
		return true
	default:
		return false
	}
}

// FlightLeg describes one flight segment of the itinerary.
type FlightLeg struct {
	Date          string  `json:"date"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	DepartureTime string  `json:"departureTime"`
	ArrivalTime   string  `json:"arrivalTime"`
	Duration      string  `json:"duration"`
	Pax           int     `json:"pax"`
	OriginLat     float64 `json:"originLat"`
	OriginLng     float64 `json:"originLng"`
	DestLat       float64 `json:"destLat"`
	DestLng       float64 `json:"destLng"`
}

// LineItem is a value copy of a catalog item taken at import time. Later
// catalog edits must never retroactively alter a saved quote, so nothing
// here references the catalog by pointer.
type LineItem struct {
	Key         string                `json:"id"`
	Kind        catalog.Kind          `json:"type"`
	Title       catalog.LocalizedText `json:"title"`
	Description catalog.LocalizedText `json:"description"`
	Images      []string              `json:"images"`
	Price       decimal.Decimal       `json:"price"`
	Quantity    int                   `json:"quantity"`
	Optional    bool                  `json:"isOptional"`
}

// Quote is a priced charter proposal for a client. The "active" quote is
// the single working copy; saving it upserts the value into the archive
// collection under its key.
type Quote struct {
	Key           string          `json:"id"`
	ClientName    string          `json:"clientName"`
	ClientEmail   string          `json:"clientEmail"`
	ClientPhone   string          `json:"clientPhone"`
	ClientAddress string          `json:"clientAddress,omitempty"`
	ClientCountry string          `json:"clientCountry,omitempty"`
	Locale        shared.Locale   `json:"language"`
	Currency      shared.Currency `json:"currency"`
	Outbound      FlightLeg       `json:"flightDetails"`
	RoundTrip     bool            `json:"isRoundTrip"`
	Return        *FlightLeg      `json:"returnFlightDetails,omitempty"`
	LineItems     []LineItem      `json:"cards"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	AgentName     string          `json:"agentName,omitempty"`
	AgentTitle    string          `json:"agentTitle,omitempty"`
	AgentEmail    string          `json:"agentEmail,omitempty"`
	AgentPhone    string          `json:"agentPhone,omitempty"`
}

// NewEmpty creates a fresh draft with the editor's default itinerary:
// a Paris Le Bourget to Dubai outbound plus a mirrored optional return.
func NewEmpty() *Quote {
	now := time.Now()
	today := now.Format("2006-01-02")
	ret := FlightLeg{
		Date:          today,
		DepartureTime: "18:00",
		ArrivalTime:   "22:30",
		Duration:      "4h 30m",
		Pax:           1,
		OriginLat:     25.2532,
		OriginLng:     55.3657,
		DestLat:       48.9694,
		DestLng:       2.4414,
	}
	return &Quote{
		Key:      NewKey(),
		Locale:   shared.LocaleFR,
		Currency: shared.CurrencyEUR,
		Outbound: FlightLeg{
			Date:          today,
			DepartureTime: "10:00",
			ArrivalTime:   "14:30",
			Duration:      "4h 30m",
			Pax:           1,
			OriginLat:     48.9694,
			OriginLng:     2.4414,
			DestLat:       25.2532,
			DestLng:       55.3657,
		},
		Return:    &ret,
		LineItems: []LineItem{},
		TaxRate:   decimal.Zero,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewKey generates a quote reference of the form LJ-1234-5678: the last
// four digits of the wall clock plus a random tie-breaker.
func NewKey() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(millis) > 4 {
		millis = millis[len(millis)-4:]
	}
	return fmt.Sprintf("%s%s-%04d", KeyPrefix, millis, 1000+rand.Intn(9000))
}

// Validate checks the quote's invariants.
func (q *Quote) Validate() error {
	if !q.Locale.Valid() {
		return shared.NewDomainError("INVALID_LOCALE", "Unsupported quote language: "+string(q.Locale))
	}
	if !q.Currency.Valid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency: "+string(q.Currency))
	}
	if !q.Status.Valid() {
		return shared.NewDomainError("INVALID_STATUS", "Unsupported quote status: "+string(q.Status))
	}
	if q.TaxRate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if q.RoundTrip && q.Return == nil {
		return shared.NewDomainError("MISSING_RETURN_LEG", "Round trip quotes require a return leg")
	}
	return nil
}

// ImportItem appends a value copy of the catalog item as a line item.
func (q *Quote) ImportItem(item *catalog.Item, optional bool) {
	dup := item.Clone()
	q.LineItems = append(q.LineItems, LineItem{
		Key:         dup.Key,
		Kind:        dup.Kind,
		Title:       dup.Title,
		Description: dup.Description,
		Images:      dup.Images,
		Price:       dup.Price,
		Quantity:    dup.Quantity,
		Optional:    optional,
	})
	q.UpdatedAt = time.Now()
}

// Subtotal is the sum of price times quantity over all line items.
// Totals are never stored; they are recomputed on every read.
func (q *Quote) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range q.LineItems {
		qty := li.Quantity
		if qty < 1 {
			qty = 1
		}
		sum = sum.Add(li.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return sum
}

// Tax is the tax amount derived from the subtotal and the tax rate
// (expressed in percent).
func (q *Quote) Tax() decimal.Decimal {
	return q.Subtotal().Mul(q.TaxRate).Div(decimal.NewFromInt(100))
}

// Total is subtotal plus tax.
func (q *Quote) Total() decimal.Decimal {
	return q.Subtotal().Add(q.Tax())
}

// Archive marks the quote as archived.
func (q *Quote) Archive() {
	q.Status = StatusArchived
	q.UpdatedAt = time.Now()
}

// Accept marks the quote as accepted by the client.
func (q *Quote) Accept() {
	q.Status = StatusAccepted
	q.UpdatedAt = time.Now()
}

// Clone returns a deep value copy of the quote.
func (q *Quote) Clone() *Quote {
	dup := *q
	if q.Return != nil {
		ret := *q.Return
		dup.Return = &ret
	}
	dup.LineItems = make([]LineItem, len(q.LineItems))
	for i, li := range q.LineItems {
		item := li
		item.Title = make(catalog.LocalizedText, len(li.Title))
		for k, v := range li.Title {
			item.Title[k] = v
		}
		item.Description = make(catalog.LocalizedText, len(li.Description))
		for k, v := range li.Description {
			item.Description[k] = v
		}
		item.Images = append([]string(nil), li.Images...)
		dup.LineItems[i] = item
	}
	return &dup
}
