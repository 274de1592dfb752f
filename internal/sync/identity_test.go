package sync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	t.Run("carries the prefix", func(t *testing.T) {
		key := NewKey("cl-")
		assert.True(t, strings.HasPrefix(key, "cl-"))
	})

	t.Run("keys are unique within a burst", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			key := NewKey("ci-")
			assert.False(t, seen[key], "duplicate key %s", key)
			seen[key] = true
		}
	})
}

func TestEnsureKey(t *testing.T) {
	t.Run("keeps an existing key", func(t *testing.T) {
		assert.Equal(t, "cl-123", EnsureKey("cl-123", "cl-"))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "cl-123", EnsureKey("  cl-123 ", "cl-"))
	})

	t.Run("generates for empty", func(t *testing.T) {
		key := EnsureKey("", "LJ-")
		assert.True(t, strings.HasPrefix(key, "LJ-"))
	})

	t.Run("generates for blank", func(t *testing.T) {
		key := EnsureKey("   ", "LJ-")
		assert.True(t, strings.HasPrefix(key, "LJ-"))
	})
}

func TestKeyPrefixFor(t *testing.T) {
	assert.Equal(t, "cl-", KeyPrefixFor(CollectionClients))
	assert.Equal(t, "ci-", KeyPrefixFor(CollectionCatalog))
	assert.Equal(t, "LJ-", KeyPrefixFor(CollectionQuotes))
	assert.Equal(t, "", KeyPrefixFor(CollectionSettings))
}
