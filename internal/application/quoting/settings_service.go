package quoting

import (
	"context"

	"github.com/lalajet/backend/internal/domain/settings"
	"github.com/lalajet/backend/internal/store"
)

// SettingsService handles the settings singleton
type SettingsService struct {
	store *store.Store
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{store: st}
}

// Get returns the settings profile
func (s *SettingsService) Get(ctx context.Context) *settings.Profile {
	return s.store.Settings()
}

// Update replaces the settings profile
func (s *SettingsService) Update(ctx context.Context, p *settings.Profile) (*settings.Profile, error) {
	return s.store.PutSettings(p)
}
