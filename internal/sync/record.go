// Package sync implements the convergence engine that keeps the in-memory
// entity store mirrored in the shared remote store. It owns the reconciler
// baseline, the debounced write scheduler, the realtime merge path and the
// bootstrap loader; all remote I/O goes through the Adapter port.
package sync

import (
	"encoding/json"
	"time"
)

// Collection identifies one of the four synchronized collections. The
// names double as remote table names and notification channel suffixes.
type Collection string

const (
	CollectionClients  Collection = "clients"
	CollectionCatalog  Collection = "catalog_items"
	CollectionQuotes   Collection = "quotes"
	CollectionSettings Collection = "settings"
)

// AllCollections returns the synchronized collections in bootstrap order.
func AllCollections() []Collection {
	return []Collection{CollectionSettings, CollectionClients, CollectionCatalog, CollectionQuotes}
}

// Valid reports whether the collection is one of the synchronized sets.
func (c Collection) Valid() bool {
	switch c {
	case CollectionClients, CollectionCatalog, CollectionQuotes, CollectionSettings:
		return true
	default:
		return false
	}
}

// Record is the sync envelope shared by all collections: a stable unique
// key, an opaque JSON payload and the remote write timestamp. UpdatedAt
// is a tie-break hint within ReadAll results only; it never arbitrates
// conflicts.
type Record struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Source is the entity store as seen by the engine: snapshots feed the
// reconciler, ReplaceAll seeds bootstrap state and ApplyRemote folds in
// change notifications without re-triggering an outbound write.
type Source interface {
	Snapshot(col Collection) ([]Record, error)
	ReplaceAll(col Collection, records []Record) error
	ApplyRemote(col Collection, kind EventKind, key string, payload json.RawMessage) error
}
