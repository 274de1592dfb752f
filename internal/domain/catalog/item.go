package catalog

import (
	"strings"

	"github.com/lalajet/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// KeyPrefix is the prefix for generated catalog item keys.
const KeyPrefix = "ci-"

// ImageSlots is the fixed number of image positions per item. Slots may be
// empty; the order is meaningful for document layout.
const ImageSlots = 3

// Kind distinguishes aircraft entries from ancillary services.
type Kind string

const (
	KindAircraft Kind = "AIRCRAFT"
	KindService  Kind = "SERVICE"
)

// LocalizedText holds one string per supported locale.
type LocalizedText map[shared.Locale]string

// Get returns the text for the locale, falling back to English.
func (t LocalizedText) Get(locale shared.Locale) string {
	if s, ok := t[locale]; ok && s != "" {
		return s
	}
	return t[shared.LocaleEN]
}

// Item is a reusable catalog entry (an aircraft or a service) that can be
// imported into quotes. Quote line items are value copies taken at import
// time; editing an item never alters quotes that already reference it.
type Item struct {
	Key         string          `json:"id"`
	Kind        Kind            `json:"type"`
	Title       LocalizedText   `json:"title"`
	Description LocalizedText   `json:"description"`
	Images      []string        `json:"images"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// New creates a catalog item of the given kind with empty localized text
// and image slots.
func New(kind Kind) (*Item, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	item := &Item{
		Kind:        kind,
		Title:       LocalizedText{},
		Description: LocalizedText{},
		Images:      make([]string, ImageSlots),
		Price:       decimal.Zero,
		Quantity:    1,
	}
	return item, nil
}

// Validate checks the item's invariants.
func (i *Item) Validate() error {
	if err := validateKind(i.Kind); err != nil {
		return err
	}
	if i.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if i.Quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for locale := range i.Title {
		if !locale.Valid() {
			return shared.NewDomainError("INVALID_LOCALE", "Unsupported title locale: "+string(locale))
		}
	}
	for locale := range i.Description {
		if !locale.Valid() {
			return shared.NewDomainError("INVALID_LOCALE", "Unsupported description locale: "+string(locale))
		}
	}
	return nil
}

// NormalizeImages pads or truncates the image list to exactly ImageSlots
// entries so slot positions stay stable across edits.
func (i *Item) NormalizeImages() {
	images := make([]string, ImageSlots)
	for idx := 0; idx < ImageSlots && idx < len(i.Images); idx++ {
		images[idx] = strings.TrimSpace(i.Images[idx])
	}
	i.Images = images
}

// SetImage places an image reference into the given slot.
func (i *Item) SetImage(slot int, ref string) error {
	if slot < 0 || slot >= ImageSlots {
		return shared.NewDomainError("INVALID_IMAGE_SLOT", "Image slot out of range")
	}
	i.NormalizeImages()
	i.Images[slot] = ref
	return nil
}

// Clone returns a deep value copy of the item.
func (i *Item) Clone() *Item {
	dup := *i
	dup.Title = make(LocalizedText, len(i.Title))
	for k, v := range i.Title {
		dup.Title[k] = v
	}
	dup.Description = make(LocalizedText, len(i.Description))
	for k, v := range i.Description {
		dup.Description[k] = v
	}
	dup.Images = append([]string(nil), i.Images...)
	return &dup
}

func validateKind(kind Kind) error {
	switch kind {
	case KindAircraft, KindService:
		return nil
	default:
		return shared.NewDomainError("INVALID_KIND", "Item kind must be AIRCRAFT or SERVICE")
	}
}
