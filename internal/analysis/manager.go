package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/netfabric/capacity-planner/pkg/log"
)

// ErrCacheMiss is returned by a Store when no record exists for a fabric.
var ErrCacheMiss = errors.New("cache record not found")

// Store persists cache records. The format is opaque to the engine as long
// as the round-trip is lossless.
type Store interface {
	Load(ctx context.Context, fabricID uuid.UUID) (*CacheRecord, error)
	Save(ctx context.Context, fabricID uuid.UUID, record *CacheRecord) error
	Delete(ctx context.Context, fabricID uuid.UUID) error
}

// Manager owns the differential cache. One record per fabric, no
// cross-fabric sharing: ingestions for the same fabric serialize around the
// merge, readers see the last fully merged record, and fabrics never
// contend with each other.
type Manager struct {
	store  Store
	logger *log.StructuredLogger

	mu      sync.Mutex
	fabrics map[uuid.UUID]*fabricCache
}

type fabricCache struct {
	mu     sync.RWMutex
	record *CacheRecord
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:   store,
		logger:  log.NewDebugLogger("analysis_cache"),
		fabrics: make(map[uuid.UUID]*fabricCache),
	}
}

func (m *Manager) fabric(id uuid.UUID) *fabricCache {
	m.mu.Lock()
	defer m.mu.Unlock()
	fc, ok := m.fabrics[id]
	if !ok {
		fc = &fabricCache{}
		m.fabrics[id] = fc
	}
	return fc
}

// load returns the in-memory record, falling back to the store. A loaded
// record failing validation is treated as cache-absent and reported as a
// corruption diagnostic.
func (m *Manager) load(ctx context.Context, id uuid.UUID, fc *fabricCache) (*CacheRecord, []Diagnostic, error) {
	if fc.record != nil {
		return fc.record, nil, nil
	}
	record, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cache record: %w", err)
	}
	if err := record.Validate(); err != nil {
		return nil, []Diagnostic{{
			Kind:   DiagCacheCorruption,
			Detail: fmt.Sprintf("cache record for fabric %s discarded: %v", id, err),
		}}, nil
	}
	return record, nil, nil
}

// Ingest merges a newly normalized index into the fabric's cache record and
// persists the result. A persistence failure is reported as a diagnostic;
// the merged in-memory record is still returned and the prior stored record
// remains valid.
func (m *Manager) Ingest(ctx context.Context, id uuid.UUID, newIndex NormalizedIndex, fullRefresh bool) (*CacheRecord, DiffResult, []Diagnostic, error) {
	fc := m.fabric(id)
	fc.mu.Lock()
	defer fc.mu.Unlock()

	tracer := m.logger.WithContext(ctx).Operation("ingest").
		WithString("fabric_id", id.String()).
		WithBool("full_refresh", fullRefresh).
		Build()

	record, diags, err := m.load(ctx, id, fc)
	if err != nil {
		tracer.Error(err).Log()
		return nil, DiffResult{}, diags, err
	}
	if record == nil {
		record = NewCacheRecord()
	}

	diff, err := Diff(newIndex, record, fullRefresh)
	if err != nil {
		tracer.Error(err).Log()
		return nil, DiffResult{}, diags, err
	}
	added, changed, removed, unchanged := diff.Counts()
	tracer.Step("diff").
		WithInt("added", added).
		WithInt("changed", changed).
		WithInt("removed", removed).
		WithInt("unchanged", unchanged).
		Log()

	merged, err := Merge(record, diff)
	if err != nil {
		tracer.Error(err).Log()
		return nil, DiffResult{}, diags, err
	}
	fc.record = merged

	if err := m.store.Save(ctx, id, merged); err != nil {
		diags = append(diags, Diagnostic{
			Kind:   DiagCachePersistenceFailure,
			Detail: fmt.Sprintf("failed to persist cache record for fabric %s: %v", id, err),
		})
		tracer.Step("persist_failed").WithString("error", err.Error()).Log()
	}

	tracer.Success().WithInt("objects", merged.Objects.Len()).Log()
	return merged, diff, diags, nil
}

// Get returns the last fully merged record for the fabric, or nil when the
// fabric has never been ingested.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*CacheRecord, []Diagnostic, error) {
	fc := m.fabric(id)
	fc.mu.RLock()
	if fc.record != nil {
		record := fc.record
		fc.mu.RUnlock()
		return record, nil, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()
	record, diags, err := m.load(ctx, id, fc)
	if err != nil || record == nil {
		return nil, diags, err
	}
	fc.record = record
	return record, diags, nil
}

// Rebuild discards the fabric's prior cache state and starts fresh from the
// given index.
func (m *Manager) Rebuild(ctx context.Context, id uuid.UUID, newIndex NormalizedIndex) (*CacheRecord, []Diagnostic, error) {
	fc := m.fabric(id)
	fc.mu.Lock()
	defer fc.mu.Unlock()

	record, err := Rebuild(newIndex)
	if err != nil {
		return nil, nil, err
	}
	fc.record = record

	var diags []Diagnostic
	if err := m.store.Save(ctx, id, record); err != nil {
		diags = append(diags, Diagnostic{
			Kind:   DiagCachePersistenceFailure,
			Detail: fmt.Sprintf("failed to persist rebuilt cache record for fabric %s: %v", id, err),
		})
	}
	return record, diags, nil
}

// Drop removes the fabric's cache state, in memory and in the store. Used
// when a fabric is deleted and by the consistency sweep on corrupt records.
func (m *Manager) Drop(ctx context.Context, id uuid.UUID) error {
	fc := m.fabric(id)
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.record = nil
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrCacheMiss) {
		return err
	}
	return nil
}

// CheckConsistency validates the stored record for a fabric. It returns
// false when the record exists but fails validation.
func (m *Manager) CheckConsistency(ctx context.Context, id uuid.UUID) (bool, error) {
	fc := m.fabric(id)
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	record, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrCacheMiss) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return record.Validate() == nil, nil
}
