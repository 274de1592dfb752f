package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewKey generates a collection key from the wall clock plus a random
// tie-breaker. The combination is distinguishing enough to avoid
// collisions within a single process, which is all identity assignment
// needs: keys become globally unique the moment they reach the remote
// store's primary key column.
func NewKey(prefix string) string {
	return fmt.Sprintf("%s%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// EnsureKey returns the key unchanged when it is already non-empty, or a
// freshly generated one otherwise. Callers must write the normalized key
// back into the entity store before any fingerprint is computed or any
// write is issued; normalizing after the write would desynchronize the
// store from what was persisted.
func EnsureKey(key, prefix string) string {
	if trimmed := strings.TrimSpace(key); trimmed != "" {
		return trimmed
	}
	return NewKey(prefix)
}

// KeyPrefixFor returns the key prefix used for generated keys of the
// collection. Quote references use the editor's LJ- scheme; the settings
// singleton never needs a generated key.
func KeyPrefixFor(col Collection) string {
	switch col {
	case CollectionClients:
		return "cl-"
	case CollectionCatalog:
		return "ci-"
	case CollectionQuotes:
		return "LJ-"
	default:
		return ""
	}
}
