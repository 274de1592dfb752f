// Package store holds the in-memory working set of the quoting desk:
// clients, catalog items, quotes, the settings profile and the quote
// currently open in the editor. Every mutation notifies the sync engine
// through the onChange hook; remote-sourced mutations arrive through the
// Source methods and never re-trigger the hook.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	gosync "sync"
	"time"

	"github.com/lalajet/backend/internal/domain/catalog"
	"github.com/lalajet/backend/internal/domain/client"
	"github.com/lalajet/backend/internal/domain/quote"
	"github.com/lalajet/backend/internal/domain/settings"
	"github.com/lalajet/backend/internal/domain/shared"
	"github.com/lalajet/backend/internal/sync"
)

// Store is the single in-memory source of truth for a running session.
type Store struct {
	mu       gosync.RWMutex
	clients  map[string]*client.Client
	items    map[string]*catalog.Item
	quotes   map[string]*quote.Quote
	profile  *settings.Profile
	active   *quote.Quote
	onChange func(sync.Collection)
}

// New creates an empty store with default settings and a fresh draft
// quote open in the editor.
func New() *Store {
	return &Store{
		clients: make(map[string]*client.Client),
		items:   make(map[string]*catalog.Item),
		quotes:  make(map[string]*quote.Quote),
		profile: settings.Default(),
		active:  quote.NewEmpty(),
	}
}

// SetOnChange installs the local-change hook. The hook is invoked after
// the store's lock is released, once per mutated collection.
func (s *Store) SetOnChange(fn func(sync.Collection)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify(cols ...sync.Collection) {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn == nil {
		return
	}
	for _, col := range cols {
		fn(col)
	}
}

// Clients returns a deep copy of every client, sorted by key.
func (s *Store) Clients() []*client.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*client.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Client returns a deep copy of the client with the key.
func (s *Store) Client(key string) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c.Clone(), nil
}

// PutClient validates and stores the client, assigning a key when
// missing, and returns the stored copy.
func (s *Store) PutClient(c *client.Client) (*client.Client, error) {
	c = c.Clone()
	c.Key = sync.EnsureKey(c.Key, client.KeyPrefix)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.clients[c.Key] = c
	s.mu.Unlock()
	s.notify(sync.CollectionClients)
	return c.Clone(), nil
}

// DeleteClient removes the client with the key.
func (s *Store) DeleteClient(key string) error {
	s.mu.Lock()
	if _, ok := s.clients[key]; !ok {
		s.mu.Unlock()
		return shared.ErrNotFound
	}
	delete(s.clients, key)
	s.mu.Unlock()
	s.notify(sync.CollectionClients)
	return nil
}

// FindClientByContact returns the first client whose name or email
// matches, case-insensitively.
func (s *Store) FindClientByContact(name, email string) (*client.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.MatchesContact(name, email) {
			return c.Clone(), true
		}
	}
	return nil, false
}

// Items returns a deep copy of every catalog item, sorted by key.
func (s *Store) Items() []*catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*catalog.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Item returns a deep copy of the catalog item with the key.
func (s *Store) Item(key string) (*catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return it.Clone(), nil
}

// PutItem validates and stores the catalog item, assigning a key when
// missing, and returns the stored copy.
func (s *Store) PutItem(it *catalog.Item) (*catalog.Item, error) {
	it = it.Clone()
	it.Key = sync.EnsureKey(it.Key, catalog.KeyPrefix)
	it.NormalizeImages()
	if err := it.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items[it.Key] = it
	s.mu.Unlock()
	s.notify(sync.CollectionCatalog)
	return it.Clone(), nil
}

// DeleteItem removes the catalog item with the key. Quotes that already
// imported the item keep their line-item copies untouched.
func (s *Store) DeleteItem(key string) error {
	s.mu.Lock()
	if _, ok := s.items[key]; !ok {
		s.mu.Unlock()
		return shared.ErrNotFound
	}
	delete(s.items, key)
	s.mu.Unlock()
	s.notify(sync.CollectionCatalog)
	return nil
}

// Quotes returns a deep copy of every saved quote, newest first.
func (s *Store) Quotes() []*quote.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*quote.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Quote returns a deep copy of the saved quote with the key.
func (s *Store) Quote(key string) (*quote.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return q.Clone(), nil
}

// PutQuote validates and stores the quote, assigning a key when missing,
// and returns the stored copy.
func (s *Store) PutQuote(q *quote.Quote) (*quote.Quote, error) {
	q = q.Clone()
	q.Key = sync.EnsureKey(q.Key, quote.KeyPrefix)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.UpdatedAt = time.Now()
	s.mu.Lock()
	s.quotes[q.Key] = q
	s.mu.Unlock()
	s.notify(sync.CollectionQuotes)
	return q.Clone(), nil
}

// DeleteQuote removes the saved quote with the key.
func (s *Store) DeleteQuote(key string) error {
	s.mu.Lock()
	if _, ok := s.quotes[key]; !ok {
		s.mu.Unlock()
		return shared.ErrNotFound
	}
	delete(s.quotes, key)
	s.mu.Unlock()
	s.notify(sync.CollectionQuotes)
	return nil
}

// Settings returns a deep copy of the settings profile.
func (s *Store) Settings() *settings.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Clone()
}

// PutSettings validates and replaces the settings profile.
func (s *Store) PutSettings(p *settings.Profile) (*settings.Profile, error) {
	p = p.Clone()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	s.notify(sync.CollectionSettings)
	return p.Clone(), nil
}

// ActiveQuote returns a deep copy of the quote open in the editor.
func (s *Store) ActiveQuote() *quote.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// SetActiveQuote replaces the editor's working quote without saving it.
func (s *Store) SetActiveQuote(q *quote.Quote) {
	s.mu.Lock()
	s.active = q.Clone()
	s.mu.Unlock()
}

// NewActiveQuote discards the editor's working quote and opens a fresh
// draft.
func (s *Store) NewActiveQuote() *quote.Quote {
	q := quote.NewEmpty()
	s.mu.Lock()
	s.active = q
	s.mu.Unlock()
	return q.Clone()
}

// SaveActiveQuote persists the editor's working quote into the saved
// set, assigning a key on first save. When the quote names a contact
// that no stored client matches, a client record is derived from the
// quote so the client book stays consistent with issued quotes.
func (s *Store) SaveActiveQuote() (*quote.Quote, error) {
	s.mu.Lock()
	q := s.active.Clone()
	s.mu.Unlock()

	if q.ClientName == "" {
		return nil, shared.NewDomainError("QUOTE_NO_CLIENT", "Quote has no client name")
	}

	var clientChanged bool
	if _, found := s.FindClientByContact(q.ClientName, q.ClientEmail); !found {
		if derived, err := client.New(q.ClientName, q.ClientEmail, q.ClientPhone); err == nil {
			derived.Key = sync.NewKey(client.KeyPrefix)
			derived.Address = q.ClientAddress
			derived.Country = q.ClientCountry
			s.mu.Lock()
			s.clients[derived.Key] = derived
			s.mu.Unlock()
			clientChanged = true
		}
	}

	q.Key = sync.EnsureKey(q.Key, quote.KeyPrefix)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.UpdatedAt = time.Now()

	s.mu.Lock()
	s.quotes[q.Key] = q.Clone()
	s.active = q.Clone()
	s.mu.Unlock()

	if clientChanged {
		s.notify(sync.CollectionQuotes, sync.CollectionClients)
	} else {
		s.notify(sync.CollectionQuotes)
	}
	return q.Clone(), nil
}

// Snapshot marshals the collection into sync records, sorted by key.
func (s *Store) Snapshot(col sync.Collection) ([]sync.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch col {
	case sync.CollectionClients:
		return marshalMap(s.clients, func(c *client.Client) string { return c.Key })
	case sync.CollectionCatalog:
		return marshalMap(s.items, func(it *catalog.Item) string { return it.Key })
	case sync.CollectionQuotes:
		return marshalMap(s.quotes, func(q *quote.Quote) string { return q.Key })
	case sync.CollectionSettings:
		payload, err := json.Marshal(s.profile)
		if err != nil {
			return nil, err
		}
		return []sync.Record{{Key: settings.SingletonKey, Payload: payload}}, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", col)
	}
}

func marshalMap[T any](m map[string]*T, key func(*T) string) ([]sync.Record, error) {
	records := make([]sync.Record, 0, len(m))
	for _, v := range m {
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		records = append(records, sync.Record{Key: key(v), Payload: payload})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
	return records, nil
}

// ReplaceAll swaps the collection's contents for the given records. Used
// by the bootstrap loader; the onChange hook is not invoked.
func (s *Store) ReplaceAll(col sync.Collection, records []sync.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch col {
	case sync.CollectionClients:
		next := make(map[string]*client.Client, len(records))
		for _, rec := range records {
			var c client.Client
			if err := json.Unmarshal(rec.Payload, &c); err != nil {
				return fmt.Errorf("decode client %s: %w", rec.Key, err)
			}
			c.Key = rec.Key
			next[rec.Key] = &c
		}
		s.clients = next
	case sync.CollectionCatalog:
		next := make(map[string]*catalog.Item, len(records))
		for _, rec := range records {
			var it catalog.Item
			if err := json.Unmarshal(rec.Payload, &it); err != nil {
				return fmt.Errorf("decode catalog item %s: %w", rec.Key, err)
			}
			it.Key = rec.Key
			it.NormalizeImages()
			next[rec.Key] = &it
		}
		s.items = next
	case sync.CollectionQuotes:
		next := make(map[string]*quote.Quote, len(records))
		for _, rec := range records {
			var q quote.Quote
			if err := json.Unmarshal(rec.Payload, &q); err != nil {
				return fmt.Errorf("decode quote %s: %w", rec.Key, err)
			}
			q.Key = rec.Key
			next[rec.Key] = &q
		}
		s.quotes = next
	case sync.CollectionSettings:
		if len(records) == 0 {
			s.profile = settings.Default()
			return nil
		}
		var p settings.Profile
		if err := json.Unmarshal(records[0].Payload, &p); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		s.profile = &p
	default:
		return fmt.Errorf("unknown collection %q", col)
	}
	return nil
}

// ApplyRemote folds one remote change into the collection. The onChange
// hook is not invoked; remote changes must not echo back out.
func (s *Store) ApplyRemote(col sync.Collection, kind sync.EventKind, key string, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == sync.EventDelete {
		switch col {
		case sync.CollectionClients:
			delete(s.clients, key)
		case sync.CollectionCatalog:
			delete(s.items, key)
		case sync.CollectionQuotes:
			delete(s.quotes, key)
		case sync.CollectionSettings:
			s.profile = settings.Default()
		default:
			return fmt.Errorf("unknown collection %q", col)
		}
		return nil
	}

	switch col {
	case sync.CollectionClients:
		var c client.Client
		if err := json.Unmarshal(payload, &c); err != nil {
			return fmt.Errorf("decode client %s: %w", key, err)
		}
		c.Key = key
		s.clients[key] = &c
	case sync.CollectionCatalog:
		var it catalog.Item
		if err := json.Unmarshal(payload, &it); err != nil {
			return fmt.Errorf("decode catalog item %s: %w", key, err)
		}
		it.Key = key
		it.NormalizeImages()
		s.items[key] = &it
	case sync.CollectionQuotes:
		var q quote.Quote
		if err := json.Unmarshal(payload, &q); err != nil {
			return fmt.Errorf("decode quote %s: %w", key, err)
		}
		q.Key = key
		s.quotes[key] = &q
	case sync.CollectionSettings:
		var p settings.Profile
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		s.profile = &p
	default:
		return fmt.Errorf("unknown collection %q", col)
	}
	return nil
}
