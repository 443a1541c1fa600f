package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/internal/analysis"
	"github.com/netfabric/capacity-planner/internal/store"
	"github.com/netfabric/capacity-planner/internal/store/model"
	"github.com/netfabric/capacity-planner/pkg/log"
	"github.com/netfabric/capacity-planner/pkg/metrics"
)

// AnalysisService ties dataset ingestion to the differential cache and the
// capacity engine. The store is only consulted for fabric configuration;
// cache persistence goes through the Manager.
type AnalysisService struct {
	store   store.Store
	manager *analysis.Manager
	engine  *analysis.Engine
	logger  *log.StructuredLogger
}

func NewAnalysisService(store store.Store, manager *analysis.Manager, engine *analysis.Engine) *AnalysisService {
	return &AnalysisService{
		store:   store,
		manager: manager,
		engine:  engine,
		logger:  log.NewDebugLogger("analysis_service"),
	}
}

// getFabric maps a missing row to the typed not-found error; any other
// store failure stays a plain error so it surfaces as a server fault.
func (as *AnalysisService) getFabric(ctx context.Context, fabricID uuid.UUID) (*model.Fabric, error) {
	fabric, err := as.store.Fabric().Get(ctx, fabricID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrFabricNotFound(fabricID)
		}
		return nil, fmt.Errorf("failed to get fabric: %w", err)
	}
	return fabric, nil
}

// IngestOutcome is what one dataset upload produces: the merged cache
// record, the diff against the previous one and a fresh analysis.
type IngestOutcome struct {
	Record      *analysis.CacheRecord
	Diff        analysis.DiffResult
	Result      analysis.Result
	Diagnostics []analysis.Diagnostic
}

// Ingest parses and normalizes a raw dataset bundle, merges it into the
// fabric's cache and analyzes the merged index. Malformed records degrade to
// diagnostics; only an unparseable envelope or a cache failure is an error.
func (as *AnalysisService) Ingest(ctx context.Context, fabricID uuid.UUID, body []byte, fullRefresh bool) (*IngestOutcome, error) {
	tracer := as.logger.WithContext(ctx).Operation("ingest_dataset").
		WithUUID("fabric_id", fabricID).
		WithBool("full_refresh", fullRefresh).
		WithInt("body_bytes", len(body)).
		Build()

	fabric, err := as.getFabric(ctx, fabricID)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	records, err := analysis.ParseBundle(body)
	if err != nil {
		tracer.Error(err).Log()
		return nil, NewErrDatasetCorrupted(err.Error())
	}
	tracer.Step("parsed_bundle").WithInt("records", len(records)).Log()

	index, diags := analysis.Normalize(records)
	tracer.Step("normalized").
		WithInt("objects", index.Len()).
		WithInt("diagnostics", len(diags)).
		Log()

	record, diff, cacheDiags, err := as.manager.Ingest(ctx, fabricID, index, fullRefresh)
	if err != nil {
		metrics.IncreaseIngestsTotal("error", ingestModeLabel(fullRefresh))
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to merge dataset: %w", err)
	}
	diags = append(diags, cacheDiags...)
	metrics.IncreaseIngestsTotal("success", ingestModeLabel(fullRefresh))

	result := as.engine.Analyze(record.Objects, fabric.Config())
	result.Diagnostics = append(diags, result.Diagnostics...)

	added, changed, removed, unchanged := diff.Counts()
	tracer.Success().
		WithInt("added", added).
		WithInt("changed", changed).
		WithInt("removed", removed).
		WithInt("unchanged", unchanged).
		Log()

	return &IngestOutcome{
		Record:      record,
		Diff:        diff,
		Result:      result,
		Diagnostics: diags,
	}, nil
}

// GetAnalysis recomputes the report from the fabric's cached dataset.
func (as *AnalysisService) GetAnalysis(ctx context.Context, fabricID uuid.UUID) (*analysis.CacheRecord, *analysis.Result, error) {
	tracer := as.logger.WithContext(ctx).Operation("get_analysis").
		WithUUID("fabric_id", fabricID).
		Build()

	fabric, err := as.getFabric(ctx, fabricID)
	if err != nil {
		tracer.Error(err).Log()
		return nil, nil, err
	}

	record, diags, err := as.manager.Get(ctx, fabricID)
	if err != nil {
		tracer.Error(err).Log()
		return nil, nil, fmt.Errorf("failed to load cache record: %w", err)
	}
	if record == nil {
		return nil, nil, NewErrFabricHasNoDataset(fabricID)
	}

	result := as.engine.Analyze(record.Objects, fabric.Config())
	result.Diagnostics = append(diags, result.Diagnostics...)

	tracer.Success().WithInt("objects", record.Objects.Len()).Log()
	return record, &result, nil
}

// RebuildCache recomputes every fingerprint of the fabric's cached dataset
// from scratch, replacing the stored record. Used to recover from
// corruption without re-uploading the dataset.
func (as *AnalysisService) RebuildCache(ctx context.Context, fabricID uuid.UUID) (*analysis.CacheRecord, error) {
	tracer := as.logger.WithContext(ctx).Operation("rebuild_cache").
		WithUUID("fabric_id", fabricID).
		Build()

	if _, err := as.getFabric(ctx, fabricID); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	record, _, err := as.manager.Get(ctx, fabricID)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to load cache record: %w", err)
	}
	if record == nil {
		return nil, NewErrFabricHasNoDataset(fabricID)
	}

	rebuilt, diags, err := as.manager.Rebuild(ctx, fabricID, record.Objects)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to rebuild cache record: %w", err)
	}
	for _, d := range diags {
		tracer.Step("rebuild_diagnostic").WithString("detail", d.Detail).Log()
	}

	tracer.Success().WithInt("objects", rebuilt.Objects.Len()).Log()
	return rebuilt, nil
}

// DropCache discards the fabric's cache state, in memory and in the store.
func (as *AnalysisService) DropCache(ctx context.Context, fabricID uuid.UUID) error {
	return as.manager.Drop(ctx, fabricID)
}

func ingestModeLabel(fullRefresh bool) string {
	if fullRefresh {
		return "full"
	}
	return "incremental"
}
