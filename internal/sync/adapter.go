package sync

import (
	"context"
	"encoding/json"
	"errors"
)

// EventKind classifies a change notification.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Event is one row mutation delivered by the change-notification feed.
// Origin carries the session ID of the writer so a session can recognize
// its own echoes.
type Event struct {
	Collection Collection      `json:"collection"`
	Kind       EventKind       `json:"kind"`
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Origin     string          `json:"origin,omitempty"`
}

// ErrFeedUnavailable is returned by Subscribe when the backend offers no
// change-notification feed; callers fall back to periodic polling.
var ErrFeedUnavailable = errors.New("change notification feed unavailable")

// Adapter is the port to the persistence backend. It is the only code
// that talks to the remote store. Batch operations report per-key
// success: the engine advances its baseline only for keys that were
// actually written, so a partial failure is retried on the next pass.
type Adapter interface {
	// ReadAll returns every record of the collection, ordered by the
	// remote write timestamp as a tie-break hint.
	ReadAll(ctx context.Context, col Collection) ([]Record, error)

	// ReadOne returns the record for the key, or nil when absent.
	ReadOne(ctx context.Context, col Collection, key string) (*Record, error)

	// Upsert writes the records and returns the keys that succeeded.
	// A non-nil error accompanies any partial failure.
	Upsert(ctx context.Context, col Collection, records []Record) ([]string, error)

	// Delete removes the keys and returns the keys that succeeded.
	Delete(ctx context.Context, col Collection, keys []string) ([]string, error)

	// Subscribe starts delivering change notifications for the
	// collection to fn, in delivery order, until the returned stop
	// function is called. Returns ErrFeedUnavailable when the backend
	// has no feed.
	Subscribe(ctx context.Context, col Collection, fn func(Event)) (func(), error)
}
