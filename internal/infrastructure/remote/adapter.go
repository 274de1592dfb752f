package remote

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lalajet/backend/internal/sync"
)

// Adapter implements sync.Adapter over the Postgres store and the Redis
// feed. Outgoing events are stamped with the session ID so the writing
// session can recognize its own echoes. The feed is optional; without it
// writes still land and subscribers fall back to polling.
type Adapter struct {
	db      *gorm.DB
	feed    *Feed
	session string
	logger  *zap.Logger
}

// AdapterOption is a functional option for configuring the adapter
type AdapterOption func(*Adapter)

// WithAdapterLogger sets the logger for the adapter
func WithAdapterLogger(logger *zap.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

// WithAdapterFeed attaches the change-notification feed
func WithAdapterFeed(feed *Feed) AdapterOption {
	return func(a *Adapter) { a.feed = feed }
}

// NewAdapter creates an adapter over the given database. The session ID
// must match the one given to the engine.
func NewAdapter(db *Database, session string, opts ...AdapterOption) *Adapter {
	a := &Adapter{db: db.DB, session: session, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ReadAll returns every record of the collection ordered by write time.
func (a *Adapter) ReadAll(ctx context.Context, col sync.Collection) ([]sync.Record, error) {
	table, err := tableFor(col)
	if err != nil {
		return nil, err
	}
	var models []rowModel
	if err := a.db.WithContext(ctx).Table(table).Order("updated_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]sync.Record, len(models))
	for i, m := range models {
		records[i] = m.toRecord()
	}
	return records, nil
}

// ReadOne returns the record for the key, or nil when absent.
func (a *Adapter) ReadOne(ctx context.Context, col sync.Collection, key string) (*sync.Record, error) {
	table, err := tableFor(col)
	if err != nil {
		return nil, err
	}
	var model rowModel
	if err := a.db.WithContext(ctx).Table(table).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	rec := model.toRecord()
	return &rec, nil
}

// Upsert writes the records one by one and returns the keys that
// succeeded. Per-row writes keep a single bad row from failing the whole
// batch; the caller retries the rest on its next pass. Each landed row
// is announced on the feed.
func (a *Adapter) Upsert(ctx context.Context, col sync.Collection, records []sync.Record) ([]string, error) {
	table, err := tableFor(col)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var succeeded []string
	var firstErr error
	for _, rec := range records {
		model := toModel(rec, now)
		err := a.db.WithContext(ctx).Table(table).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&model).Error
		if err != nil {
			a.logger.Warn("Upsert failed",
				zap.String("collection", string(col)),
				zap.String("key", rec.Key),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		succeeded = append(succeeded, rec.Key)
		a.announce(ctx, sync.Event{
			Collection: col,
			Kind:       sync.EventUpdate,
			Key:        rec.Key,
			Payload:    rec.Payload,
			Origin:     a.session,
		})
	}
	return succeeded, firstErr
}

// Delete removes the keys one by one and returns the keys that
// succeeded. Deleting an absent key counts as success; the row being
// gone is the goal.
func (a *Adapter) Delete(ctx context.Context, col sync.Collection, keys []string) ([]string, error) {
	table, err := tableFor(col)
	if err != nil {
		return nil, err
	}
	var succeeded []string
	var firstErr error
	for _, key := range keys {
		err := a.db.WithContext(ctx).Table(table).Where("key = ?", key).Delete(&rowModel{}).Error
		if err != nil {
			a.logger.Warn("Delete failed",
				zap.String("collection", string(col)),
				zap.String("key", key),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		succeeded = append(succeeded, key)
		a.announce(ctx, sync.Event{
			Collection: col,
			Kind:       sync.EventDelete,
			Key:        key,
			Origin:     a.session,
		})
	}
	return succeeded, firstErr
}

// Subscribe attaches to the collection's feed channel. Without a feed
// the engine falls back to polling.
func (a *Adapter) Subscribe(ctx context.Context, col sync.Collection, fn func(sync.Event)) (func(), error) {
	if a.feed == nil {
		return nil, sync.ErrFeedUnavailable
	}
	return a.feed.Subscribe(ctx, col, fn)
}

// announce publishes an event when a feed is attached. Publish failures
// are logged, not returned; the write already landed and pollers will
// still converge.
func (a *Adapter) announce(ctx context.Context, ev sync.Event) {
	if a.feed == nil {
		return
	}
	if err := a.feed.Publish(ctx, ev); err != nil {
		a.logger.Warn("Event publish failed",
			zap.String("collection", string(ev.Collection)),
			zap.String("key", ev.Key),
			zap.Error(err))
	}
}
