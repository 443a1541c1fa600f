package store

import "gorm.io/gorm"

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type FabricQueryFilter BaseQuerier

func NewFabricQueryFilter() *FabricQueryFilter {
	return &FabricQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *FabricQueryFilter) ByName(name string) *FabricQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("name = ?", name)
	})
	return qf
}

func (qf *FabricQueryFilter) ByNameLike(pattern string) *FabricQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("name LIKE ?", "%"+pattern+"%")
	})
	return qf
}

func (qf *FabricQueryFilter) WithLimit(limit int) *FabricQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return qf
}

func (qf *FabricQueryFilter) WithOffset(offset int) *FabricQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return qf
}
