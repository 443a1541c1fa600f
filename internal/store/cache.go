package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/netfabric/capacity-planner/internal/analysis"
	"github.com/netfabric/capacity-planner/internal/store/model"
)

// CacheStore persists one cache record per fabric. It is the store-backed
// implementation of analysis.Store.
type CacheStore struct {
	db *gorm.DB
}

var _ analysis.Store = (*CacheStore)(nil)

func NewCacheStore(db *gorm.DB) *CacheStore {
	return &CacheStore{db: db}
}

func (c *CacheStore) Load(ctx context.Context, fabricID uuid.UUID) (*analysis.CacheRecord, error) {
	var row model.CacheRecord
	result := c.getDB(ctx).First(&row, "fabric_id = ?", fabricID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, analysis.ErrCacheMiss
		}
		return nil, result.Error
	}
	if row.Payload == nil {
		return nil, analysis.ErrCacheMiss
	}
	record := row.Payload.Data
	return &record, nil
}

func (c *CacheStore) Save(ctx context.Context, fabricID uuid.UUID, record *analysis.CacheRecord) error {
	row := model.CacheRecord{
		FabricID:           fabricID,
		DatasetFingerprint: fmt.Sprintf("%016x", record.DatasetFingerprint),
		Payload:            model.MakeJSONField(*record),
		LastMergedAt:       record.LastMergedAt,
	}
	return c.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fabric_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (c *CacheStore) Delete(ctx context.Context, fabricID uuid.UUID) error {
	result := c.getDB(ctx).Unscoped().Delete(&model.CacheRecord{}, "fabric_id = ?", fabricID)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (c *CacheStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return c.db
}
