package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/netfabric/capacity-planner/internal/store/model"
)

type Fabric interface {
	List(ctx context.Context, filter *FabricQueryFilter) (model.FabricList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Fabric, error)
	Create(ctx context.Context, fabric model.Fabric) (*model.Fabric, error)
	Update(ctx context.Context, fabric model.Fabric) (*model.Fabric, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FabricStore struct {
	db *gorm.DB
}

// Make sure we conform to Fabric interface
var _ Fabric = (*FabricStore)(nil)

func NewFabricStore(db *gorm.DB) Fabric {
	return &FabricStore{db: db}
}

func (f *FabricStore) List(ctx context.Context, filter *FabricQueryFilter) (model.FabricList, error) {
	var fabrics model.FabricList
	tx := f.getDB(ctx).Model(&fabrics).Order("created_at DESC").Preload("CacheRecord")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&fabrics); result.Error != nil {
		return nil, result.Error
	}
	return fabrics, nil
}

func (f *FabricStore) Get(ctx context.Context, id uuid.UUID) (*model.Fabric, error) {
	var fabric model.Fabric
	result := f.getDB(ctx).Preload("CacheRecord").First(&fabric, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &fabric, nil
}

func (f *FabricStore) Create(ctx context.Context, fabric model.Fabric) (*model.Fabric, error) {
	result := f.getDB(ctx).Clauses(clause.Returning{}).Create(&fabric)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &fabric, nil
}

func (f *FabricStore) Update(ctx context.Context, fabric model.Fabric) (*model.Fabric, error) {
	var existing model.Fabric
	if err := f.getDB(ctx).First(&existing, "id = ?", fabric.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	// Select forces zero values through; a struct update would silently
	// skip a cleared description or a nulled uplink override.
	err := f.getDB(ctx).Model(&existing).
		Select("Name", "Description", "UplinksPerLeaf", "UplinkSpeed", "PlatformRelease", "ClusterSize").
		Updates(&fabric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return f.Get(ctx, fabric.ID)
}

func (f *FabricStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := f.getDB(ctx).Unscoped().Delete(&model.Fabric{}, "id = ?", id.String())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (f *FabricStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return f.db
}
