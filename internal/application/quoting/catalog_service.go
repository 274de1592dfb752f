package quoting

import (
	"context"
	"fmt"
	"time"

	"github.com/lalajet/backend/internal/domain/catalog"
	"github.com/lalajet/backend/internal/domain/shared"
	"github.com/lalajet/backend/internal/store"
)

// ObjectStorage is the port to the image object store.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// CatalogService handles catalog item operations, image uploads
// included.
type CatalogService struct {
	store   *store.Store
	objects ObjectStorage
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(st *store.Store, objects ObjectStorage) *CatalogService {
	return &CatalogService{store: st, objects: objects}
}

// List returns every catalog item
func (s *CatalogService) List(ctx context.Context) []*catalog.Item {
	return s.store.Items()
}

// Get returns the catalog item with the key
func (s *CatalogService) Get(ctx context.Context, key string) (*catalog.Item, error) {
	return s.store.Item(key)
}

// Create creates a new catalog item
func (s *CatalogService) Create(ctx context.Context, req ItemRequest) (*catalog.Item, error) {
	it, err := catalog.New(req.Kind)
	if err != nil {
		return nil, err
	}
	it.Title = req.Title
	it.Description = req.Description
	it.Images = req.Images
	it.Price = req.Price
	it.Quantity = req.Quantity
	return s.store.PutItem(it)
}

// Update replaces the catalog item's fields, keeping its key
func (s *CatalogService) Update(ctx context.Context, key string, req ItemRequest) (*catalog.Item, error) {
	it, err := s.store.Item(key)
	if err != nil {
		return nil, err
	}
	it.Kind = req.Kind
	it.Title = req.Title
	it.Description = req.Description
	it.Images = req.Images
	it.Price = req.Price
	it.Quantity = req.Quantity
	return s.store.PutItem(it)
}

// Delete removes the catalog item with the key
func (s *CatalogService) Delete(ctx context.Context, key string) error {
	return s.store.DeleteItem(key)
}

// UploadImage normalizes an uploaded image, stores it and attaches its
// URL to the item's image slot. The slot index must be within the
// item's fixed image slots.
func (s *CatalogService) UploadImage(ctx context.Context, key string, slot int, data []byte) (*catalog.Item, error) {
	if s.objects == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}
	it, err := s.store.Item(key)
	if err != nil {
		return nil, err
	}
	if slot < 0 || slot >= catalog.ImageSlots {
		return nil, shared.NewDomainError("INVALID_SLOT", fmt.Sprintf("Image slot must be between 0 and %d", catalog.ImageSlots-1))
	}

	normalized, err := normalizeImage(data)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("catalog/%s/%d-%d.jpg", it.Key, slot, time.Now().UnixMilli())
	if err := s.objects.Put(ctx, objectKey, normalized, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	if err := it.SetImage(slot, s.objects.URL(objectKey)); err != nil {
		return nil, err
	}
	return s.store.PutItem(it)
}

// ClearImage detaches the image in the slot. The stored object is kept;
// other sessions may still reference it through merged quotes.
func (s *CatalogService) ClearImage(ctx context.Context, key string, slot int) (*catalog.Item, error) {
	it, err := s.store.Item(key)
	if err != nil {
		return nil, err
	}
	if err := it.SetImage(slot, ""); err != nil {
		return nil, err
	}
	return s.store.PutItem(it)
}
