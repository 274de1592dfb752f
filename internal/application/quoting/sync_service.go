package quoting

import (
	"context"

	"github.com/lalajet/backend/internal/sync"
)

// SyncStatus is the engine state as surfaced to the editor
type SyncStatus struct {
	Status    sync.Status `json:"status"`
	SessionID string      `json:"sessionId"`
	LastError string      `json:"lastError,omitempty"`
}

// SyncService exposes the convergence engine to the API surface
type SyncService struct {
	engine *sync.Engine
}

// NewSyncService creates a new SyncService
func NewSyncService(engine *sync.Engine) *SyncService {
	return &SyncService{engine: engine}
}

// Status returns the engine's current health
func (s *SyncService) Status(ctx context.Context) SyncStatus {
	st := SyncStatus{
		Status:    s.engine.Status(),
		SessionID: s.engine.SessionID(),
	}
	if err := s.engine.LastError(); err != nil {
		st.LastError = err.Error()
	}
	return st
}

// Retry repeats the remote bootstrap after a degraded start
func (s *SyncService) Retry(ctx context.Context) error {
	return s.engine.Retry(ctx)
}

// Flush runs the write pass for every collection without waiting out
// the debounce
func (s *SyncService) Flush(ctx context.Context) error {
	for _, col := range sync.AllCollections() {
		if err := s.engine.SaveNow(ctx, col); err != nil {
			return err
		}
	}
	return nil
}
