package store

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/netfabric/capacity-planner/internal/store/model"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Fabric() Fabric
	Cache() *CacheStore
	Statistics(ctx context.Context) (model.FabricStats, error)
	InitialMigration() error
	Close() error
}

type DataStore struct {
	fabric Fabric
	cache  *CacheStore
	db     *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		fabric: NewFabricStore(db),
		cache:  NewCacheStore(db),
		db:     db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Fabric() Fabric {
	return s.fabric
}

func (s *DataStore) Cache() *CacheStore {
	return s.cache
}

// Statistics feeds the prometheus fabric collector. Failures degrade to
// empty stats so a scrape never takes the service down.
func (s *DataStore) Statistics(ctx context.Context) (model.FabricStats, error) {
	fabrics, err := s.fabric.List(ctx, nil)
	if err != nil {
		return model.FabricStats{}, err
	}
	return model.NewFabricStats(fabrics), nil
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Fabric{}, &model.CacheRecord{})
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		zap.S().Named("store").Errorf("failed to close database: %v", err)
		return err
	}
	return sqlDB.Close()
}
