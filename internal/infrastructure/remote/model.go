package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lalajet/backend/internal/sync"
)

// rowModel is the storage shape shared by the four collection tables:
// one row per record, keyed by the record key, payload stored as jsonb.
// The updated_at column is maintained by the writer.
type rowModel struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   []byte    `gorm:"column:payload;type:jsonb"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// tableFor maps a collection to its table name. Collection names double
// as table names; the mapping exists to reject unknown collections
// before any SQL is built.
func tableFor(col sync.Collection) (string, error) {
	if !col.Valid() {
		return "", fmt.Errorf("unknown collection %q", col)
	}
	return string(col), nil
}

func (m rowModel) toRecord() sync.Record {
	return sync.Record{
		Key:       m.Key,
		Payload:   json.RawMessage(m.Payload),
		UpdatedAt: m.UpdatedAt,
	}
}

func toModel(rec sync.Record, now time.Time) rowModel {
	return rowModel{
		Key:       rec.Key,
		Payload:   []byte(rec.Payload),
		UpdatedAt: now,
	}
}
