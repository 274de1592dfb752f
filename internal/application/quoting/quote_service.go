package quoting

import (
	"context"

	"github.com/lalajet/backend/internal/domain/quote"
	"github.com/lalajet/backend/internal/store"
)

// QuoteService handles the active quote and the saved quote archive
type QuoteService struct {
	store *store.Store
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(st *store.Store) *QuoteService {
	return &QuoteService{store: st}
}

// List returns every saved quote with derived totals, newest first
func (s *QuoteService) List(ctx context.Context) []*QuoteResponse {
	quotes := s.store.Quotes()
	out := make([]*QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = NewQuoteResponse(q)
	}
	return out
}

// Get returns the saved quote with the key
func (s *QuoteService) Get(ctx context.Context, key string) (*QuoteResponse, error) {
	q, err := s.store.Quote(key)
	if err != nil {
		return nil, err
	}
	return NewQuoteResponse(q), nil
}

// Delete removes the saved quote with the key
func (s *QuoteService) Delete(ctx context.Context, key string) error {
	return s.store.DeleteQuote(key)
}

// Active returns the quote open in the editor
func (s *QuoteService) Active(ctx context.Context) *QuoteResponse {
	return NewQuoteResponse(s.store.ActiveQuote())
}

// ReplaceActive swaps the editor's working quote for the given one
// without saving it
func (s *QuoteService) ReplaceActive(ctx context.Context, q *quote.Quote) (*QuoteResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.store.SetActiveQuote(q)
	return NewQuoteResponse(q), nil
}

// NewActive opens a fresh draft in the editor
func (s *QuoteService) NewActive(ctx context.Context) *QuoteResponse {
	return NewQuoteResponse(s.store.NewActiveQuote())
}

// Open loads a saved quote into the editor
func (s *QuoteService) Open(ctx context.Context, key string) (*QuoteResponse, error) {
	q, err := s.store.Quote(key)
	if err != nil {
		return nil, err
	}
	s.store.SetActiveQuote(q)
	return NewQuoteResponse(q), nil
}

// SaveActive persists the editor's working quote into the archive,
// deriving a client record when the quote names an unknown contact
func (s *QuoteService) SaveActive(ctx context.Context) (*QuoteResponse, error) {
	q, err := s.store.SaveActiveQuote()
	if err != nil {
		return nil, err
	}
	return NewQuoteResponse(q), nil
}

// ImportItem appends a catalog item to the active quote as a line item
func (s *QuoteService) ImportItem(ctx context.Context, req ImportItemRequest) (*QuoteResponse, error) {
	it, err := s.store.Item(req.ItemKey)
	if err != nil {
		return nil, err
	}
	q := s.store.ActiveQuote()
	q.ImportItem(it, req.Optional)
	s.store.SetActiveQuote(q)
	return NewQuoteResponse(q), nil
}

// Accept marks the saved quote as accepted
func (s *QuoteService) Accept(ctx context.Context, key string) (*QuoteResponse, error) {
	q, err := s.store.Quote(key)
	if err != nil {
		return nil, err
	}
	q.Accept()
	q, err = s.store.PutQuote(q)
	if err != nil {
		return nil, err
	}
	return NewQuoteResponse(q), nil
}

// Archive marks the saved quote as archived
func (s *QuoteService) Archive(ctx context.Context, key string) (*QuoteResponse, error) {
	q, err := s.store.Quote(key)
	if err != nil {
		return nil, err
	}
	q.Archive()
	q, err = s.store.PutQuote(q)
	if err != nil {
		return nil, err
	}
	return NewQuoteResponse(q), nil
}
