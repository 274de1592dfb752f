package sync

import "sync"

// Baseline is the reconciler's private record of what the remote store
// last confirmed, one fingerprint per key. It is never persisted or
// shared between sessions: it is rebuilt at bootstrap and advanced
// incrementally after every successful write pass and every realtime
// merge.
type Baseline struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewBaseline creates an empty baseline.
func NewBaseline() *Baseline {
	return &Baseline{entries: make(map[string]string)}
}

// Get returns the fingerprint recorded for the key.
func (b *Baseline) Get(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fp, ok := b.entries[key]
	return fp, ok
}

// Put records the fingerprint for the key.
func (b *Baseline) Put(key, fingerprint string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = fingerprint
}

// Remove forgets the key.
func (b *Baseline) Remove(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
}

// Keys returns the known keys in unspecified order.
func (b *Baseline) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of known keys.
func (b *Baseline) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// ReplaceAll discards the baseline and installs the given entries.
// Used by the bootstrap loader to seed the baseline with the
// fingerprints of exactly what was loaded.
func (b *Baseline) ReplaceAll(entries map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[string]string, len(entries))
	for k, v := range entries {
		b.entries[k] = v
	}
}
