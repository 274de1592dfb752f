package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/lalajet/backend/internal/application/quoting"
)

// StubObjectStorage keeps objects in memory. Use this for development
// and tests until a real storage backend is configured.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated object URLs
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubObjectStorage implements ObjectStorage
var _ quoting.ObjectStorage = (*StubObjectStorage)(nil)

// Put stores the object in memory
func (s *StubObjectStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes the object from memory
func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// URL returns the stub URL of the object with the key
func (s *StubObjectStorage) URL(key string) string {
	return s.BaseURL + "/" + key
}

// Get returns the stored object bytes, for tests
func (s *StubObjectStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
