package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint computes a deterministic digest of a record payload.
// The payload is decoded and re-encoded before hashing so that JSON
// object key order cannot influence the result: two payloads that are
// semantically identical for sync purposes always produce equal
// fingerprints. Invalid JSON is hashed as-is so the function stays total.
func Fingerprint(payload []byte) string {
	canonical := payload
	var v any
	if err := json.Unmarshal(payload, &v); err == nil {
		if enc, err := json.Marshal(v); err == nil {
			canonical = enc
		}
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// RecordFingerprint digests a record's payload. The key and the remote
// timestamp are excluded: identity is not change, and the timestamp is
// owned by the backend.
func RecordFingerprint(r Record) string {
	return Fingerprint(r.Payload)
}
