package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/internal/service/mappers"
	"github.com/netfabric/capacity-planner/internal/store"
	"github.com/netfabric/capacity-planner/internal/store/model"
	"github.com/netfabric/capacity-planner/pkg/log"
)

// FabricService owns the fabric registry. Dataset ingestion and analysis
// live in AnalysisService; deleting a fabric drops its cache record too.
type FabricService struct {
	store              store.Store
	analysis           *AnalysisService
	defaultUplinkSpeed string
	logger             *log.StructuredLogger
}

func NewFabricService(store store.Store, analysis *AnalysisService, defaultUplinkSpeed string) *FabricService {
	return &FabricService{
		store:              store,
		analysis:           analysis,
		defaultUplinkSpeed: defaultUplinkSpeed,
		logger:             log.NewDebugLogger("fabric_service"),
	}
}

// FabricFilter narrows fabric listings.
type FabricFilter struct {
	NameLike string
	Limit    int
	Offset   int
}

func (fs *FabricService) ListFabrics(ctx context.Context, filter FabricFilter) (model.FabricList, error) {
	tracer := fs.logger.WithContext(ctx).Operation("list_fabrics").
		WithString("name_like", filter.NameLike).
		WithInt("limit", filter.Limit).
		WithInt("offset", filter.Offset).
		Build()

	storeFilter := store.NewFabricQueryFilter()
	if filter.NameLike != "" {
		storeFilter = storeFilter.ByNameLike(filter.NameLike)
	}
	if filter.Limit > 0 {
		storeFilter = storeFilter.WithLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		storeFilter = storeFilter.WithOffset(filter.Offset)
	}

	fabrics, err := fs.store.Fabric().List(ctx, storeFilter)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}

	tracer.Success().WithInt("count", len(fabrics)).Log()
	return fabrics, nil
}

func (fs *FabricService) GetFabric(ctx context.Context, id uuid.UUID) (*model.Fabric, error) {
	tracer := fs.logger.WithContext(ctx).Operation("get_fabric").
		WithUUID("fabric_id", id).
		Build()

	fabric, err := fs.store.Fabric().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrFabricNotFound(id)
		}
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to get fabric: %w", err)
	}

	tracer.Success().WithString("fabric_name", fabric.Name).Log()
	return fabric, nil
}

func (fs *FabricService) CreateFabric(ctx context.Context, form mappers.FabricCreateForm) (*model.Fabric, error) {
	tracer := fs.logger.WithContext(ctx).Operation("create_fabric").
		WithString("name", form.Name).
		Build()

	fabric := form.ToModel(fs.defaultUplinkSpeed)
	tracer.Step("convert_form_to_model").WithUUID("fabric_id", fabric.ID).Log()

	ctx, err := fs.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	created, err := fs.store.Fabric().Create(ctx, fabric)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrFabricDuplicateName(fabric.Name)
		}
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to create fabric: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithUUID("fabric_id", created.ID).WithString("fabric_name", created.Name).Log()
	return created, nil
}

func (fs *FabricService) UpdateFabric(ctx context.Context, id uuid.UUID, form mappers.FabricUpdateForm) (*model.Fabric, error) {
	tracer := fs.logger.WithContext(ctx).Operation("update_fabric").
		WithUUID("fabric_id", id).
		WithStringPtr("new_name", form.Name).
		Build()

	ctx, err := fs.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	fabric, err := fs.store.Fabric().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrFabricNotFound(id)
		}
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to get fabric: %w", err)
	}
	tracer.Step("fabric_exists").WithString("current_name", fabric.Name).Log()

	form.Apply(fabric)

	updated, err := fs.store.Fabric().Update(ctx, *fabric)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrFabricDuplicateName(fabric.Name)
		}
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to update fabric: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithString("fabric_name", updated.Name).Log()
	return updated, nil
}

// DeleteFabric removes the fabric row and its cache state. The cascade
// drops the persisted record; the manager drop clears the in-memory copy.
func (fs *FabricService) DeleteFabric(ctx context.Context, id uuid.UUID) error {
	tracer := fs.logger.WithContext(ctx).Operation("delete_fabric").
		WithUUID("fabric_id", id).
		Build()

	fabric, err := fs.store.Fabric().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrFabricNotFound(id)
		}
		tracer.Error(err).Log()
		return fmt.Errorf("failed to get fabric: %w", err)
	}
	tracer.Step("fabric_exists_for_delete").WithString("fabric_name", fabric.Name).Log()

	if err := fs.store.Fabric().Delete(ctx, id); err != nil {
		tracer.Error(err).Log()
		return fmt.Errorf("failed to delete fabric: %w", err)
	}

	if err := fs.analysis.DropCache(ctx, id); err != nil {
		tracer.Step("drop_cache_failed").WithString("error", err.Error()).Log()
	}

	tracer.Success().WithString("deleted_fabric_name", fabric.Name).Log()
	return nil
}
