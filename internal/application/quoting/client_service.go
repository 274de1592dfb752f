// Package quoting contains the application services behind the quote
// editor: clients, catalog, quotes, settings and the sync surface.
package quoting

import (
	"context"

	"github.com/lalajet/backend/internal/domain/client"
	"github.com/lalajet/backend/internal/store"
)

// ClientService handles client book operations
type ClientService struct {
	store *store.Store
}

// NewClientService creates a new ClientService
func NewClientService(st *store.Store) *ClientService {
	return &ClientService{store: st}
}

// List returns every client
func (s *ClientService) List(ctx context.Context) []*client.Client {
	return s.store.Clients()
}

// Get returns the client with the key
func (s *ClientService) Get(ctx context.Context, key string) (*client.Client, error) {
	return s.store.Client(key)
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, req ClientRequest) (*client.Client, error) {
	c, err := client.New(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	c.Address = req.Address
	c.Country = req.Country
	c.Company = req.Company
	c.Notes = req.Notes
	return s.store.PutClient(c)
}

// Update replaces the client's fields, keeping its key
func (s *ClientService) Update(ctx context.Context, key string, req ClientRequest) (*client.Client, error) {
	c, err := s.store.Client(key)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Email = req.Email
	c.Phone = req.Phone
	c.Address = req.Address
	c.Country = req.Country
	c.Company = req.Company
	c.Notes = req.Notes
	return s.store.PutClient(c)
}

// Delete removes the client with the key
func (s *ClientService) Delete(ctx context.Context, key string) error {
	return s.store.DeleteClient(key)
}
