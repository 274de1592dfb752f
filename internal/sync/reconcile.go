package sync

// Delta is the minimal set of remote writes that makes the remote store
// match the local snapshot.
type Delta struct {
	Upserts []Record
	Deletes []string
}

// Empty reports whether the delta carries no work.
func (d Delta) Empty() bool {
	return len(d.Upserts) == 0 && len(d.Deletes) == 0
}

// Reconcile diffs the local snapshot against the baseline. A record is
// upserted when its fingerprint is new or differs from the baseline's; a
// key is deleted when the baseline knows it but the snapshot no longer
// contains it. Deletes are derived purely from this set difference, so no
// tombstones are ever stored.
func Reconcile(snapshot []Record, baseline *Baseline) Delta {
	var delta Delta
	seen := make(map[string]struct{}, len(snapshot))
	for _, rec := range snapshot {
		seen[rec.Key] = struct{}{}
		fp := RecordFingerprint(rec)
		if prev, ok := baseline.Get(rec.Key); !ok || prev != fp {
			delta.Upserts = append(delta.Upserts, rec)
		}
	}
	for _, key := range baseline.Keys() {
		if _, ok := seen[key]; !ok {
			delta.Deletes = append(delta.Deletes, key)
		}
	}
	return delta
}
