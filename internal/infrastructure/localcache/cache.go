// Package localcache persists per-collection snapshots to a local
// SQLite file so a session can come up read-only when the remote store
// is unreachable.
package localcache

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lalajet/backend/internal/sync"
)

type snapshotModel struct {
	Collection string    `gorm:"column:collection;primaryKey"`
	Key        string    `gorm:"column:key;primaryKey"`
	Payload    []byte    `gorm:"column:payload"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (snapshotModel) TableName() string { return "snapshots" }

// Cache implements sync.SnapshotCache over a SQLite file.
type Cache struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open opens or creates the cache file and migrates its schema.
func Open(path string, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	if err := db.AutoMigrate(&snapshotModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}
	return &Cache{db: db, logger: logger}, nil
}

// Load returns the cached snapshot of the collection.
func (c *Cache) Load(col sync.Collection) ([]sync.Record, error) {
	var models []snapshotModel
	if err := c.db.Where("collection = ?", string(col)).Order("key ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]sync.Record, len(models))
	for i, m := range models {
		records[i] = sync.Record{
			Key:       m.Key,
			Payload:   json.RawMessage(m.Payload),
			UpdatedAt: m.UpdatedAt,
		}
	}
	return records, nil
}

// Store replaces the cached snapshot of the collection. The swap runs
// in one transaction so a crash never leaves a half-written snapshot.
func (c *Cache) Store(col sync.Collection, records []sync.Record) error {
	now := time.Now()
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", string(col)).Delete(&snapshotModel{}).Error; err != nil {
			return err
		}
		for _, rec := range records {
			model := snapshotModel{
				Collection: string(col),
				Key:        rec.Key,
				Payload:    []byte(rec.Payload),
				UpdatedAt:  now,
			}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
