package analysis

import (
	"fmt"
	"sort"
	"time"
)

// CacheRecord is the persisted per-fabric analysis state: the last fully
// merged index plus the fingerprint of every object in it. It is owned
// exclusively by the cache subsystem; other components only see it through
// the Manager.
type CacheRecord struct {
	DatasetFingerprint uint64                       `json:"dataset_fingerprint"`
	Objects            NormalizedIndex              `json:"objects"`
	Fingerprints       map[string]map[string]uint64 `json:"fingerprints"`
	LastMergedAt       time.Time                    `json:"last_merged_at"`
}

// NewCacheRecord returns an empty record, the state of a fabric before its
// first ingestion.
func NewCacheRecord() *CacheRecord {
	return &CacheRecord{
		Objects:      make(NormalizedIndex),
		Fingerprints: make(map[string]map[string]uint64),
	}
}

// Validate checks the record's internal consistency: every object must have
// a fingerprint entry and vice versa, and the stored dataset fingerprint
// must match the recomputed one. A record failing validation is treated as
// cache-absent by the Manager.
func (r *CacheRecord) Validate() error {
	if r.Objects == nil || r.Fingerprints == nil {
		return fmt.Errorf("cache record has nil index")
	}
	for class, bucket := range r.Objects {
		for dn := range bucket {
			if _, ok := r.Fingerprints[class][dn]; !ok {
				return fmt.Errorf("object %s/%s has no fingerprint", class, dn)
			}
		}
	}
	for class, bucket := range r.Fingerprints {
		for dn := range bucket {
			if _, ok := r.Objects[class][dn]; !ok {
				return fmt.Errorf("fingerprint %s/%s has no object", class, dn)
			}
		}
	}
	fp, err := datasetFingerprint(r.Fingerprints)
	if err != nil {
		return err
	}
	if fp != r.DatasetFingerprint {
		return fmt.Errorf("dataset fingerprint mismatch: stored %d, computed %d", r.DatasetFingerprint, fp)
	}
	return nil
}

// ObjectRef identifies one cached object.
type ObjectRef struct {
	Class string `json:"class"`
	DN    string `json:"dn"`
}

// DiffResult is the outcome of comparing a newly normalized index against a
// cache record. Slices are sorted by (class, DN) so diffing is
// deterministic.
type DiffResult struct {
	Added     []InventoryObject `json:"-"`
	Changed   []InventoryObject `json:"-"`
	Removed   []ObjectRef       `json:"-"`
	Unchanged int               `json:"-"`

	// fingerprints of all objects in the new index, computed during Diff
	// and reused by Merge.
	fingerprints map[string]map[string]uint64
}

// Counts reports the diff sizes, for logging and API responses.
func (d DiffResult) Counts() (added, changed, removed, unchanged int) {
	return len(d.Added), len(d.Changed), len(d.Removed), d.Unchanged
}

// Diff compares newIndex against the record's stored fingerprints. A key
// absent from newIndex is reported as removed only when fullRefresh is set:
// an incremental bundle must not silently delete state for classes it did
// not include.
func Diff(newIndex NormalizedIndex, record *CacheRecord, fullRefresh bool) (DiffResult, error) {
	result := DiffResult{fingerprints: make(map[string]map[string]uint64)}

	for class, bucket := range newIndex {
		for dn, obj := range bucket {
			fp, err := FingerprintObject(obj)
			if err != nil {
				return DiffResult{}, fmt.Errorf("failed to fingerprint %s/%s: %w", class, dn, err)
			}
			if result.fingerprints[class] == nil {
				result.fingerprints[class] = make(map[string]uint64)
			}
			result.fingerprints[class][dn] = fp

			stored, ok := record.Fingerprints[class][dn]
			switch {
			case !ok:
				result.Added = append(result.Added, obj)
			case stored != fp:
				result.Changed = append(result.Changed, obj)
			default:
				result.Unchanged++
			}
		}
	}

	if fullRefresh {
		for class, bucket := range record.Fingerprints {
			for dn := range bucket {
				if _, ok := newIndex[class][dn]; !ok {
					result.Removed = append(result.Removed, ObjectRef{Class: class, DN: dn})
				}
			}
		}
	}

	sortObjects(result.Added)
	sortObjects(result.Changed)
	sort.Slice(result.Removed, func(i, j int) bool {
		if result.Removed[i].Class != result.Removed[j].Class {
			return result.Removed[i].Class < result.Removed[j].Class
		}
		return result.Removed[i].DN < result.Removed[j].DN
	})
	return result, nil
}

func sortObjects(objs []InventoryObject) {
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].Class != objs[j].Class {
			return objs[i].Class < objs[j].Class
		}
		return objs[i].DN < objs[j].DN
	})
}

// Merge applies a diff to a record and returns the merged successor. The
// input record is not mutated: the caller persists the returned record
// whole, so a failed or interrupted persistence never pairs a stale dataset
// fingerprint with updated content.
func Merge(record *CacheRecord, diff DiffResult) (*CacheRecord, error) {
	merged := NewCacheRecord()
	for class, bucket := range record.Objects {
		for dn, obj := range bucket {
			merged.Insert(obj, record.Fingerprints[class][dn])
		}
	}

	for _, ref := range diff.Removed {
		delete(merged.Objects[ref.Class], ref.DN)
		delete(merged.Fingerprints[ref.Class], ref.DN)
		if len(merged.Objects[ref.Class]) == 0 {
			delete(merged.Objects, ref.Class)
			delete(merged.Fingerprints, ref.Class)
		}
	}
	for _, obj := range diff.Added {
		merged.Insert(obj, diff.fingerprints[obj.Class][obj.DN])
	}
	for _, obj := range diff.Changed {
		merged.Insert(obj, diff.fingerprints[obj.Class][obj.DN])
	}

	fp, err := datasetFingerprint(merged.Fingerprints)
	if err != nil {
		return nil, err
	}
	merged.DatasetFingerprint = fp
	merged.LastMergedAt = time.Now().UTC()
	return merged, nil
}

// Rebuild discards prior state entirely and builds a fresh record from the
// given index.
func Rebuild(index NormalizedIndex) (*CacheRecord, error) {
	record := NewCacheRecord()
	for class, bucket := range index {
		for dn, obj := range bucket {
			fp, err := FingerprintObject(obj)
			if err != nil {
				return nil, fmt.Errorf("failed to fingerprint %s/%s: %w", class, dn, err)
			}
			record.Insert(obj, fp)
		}
	}
	fp, err := datasetFingerprint(record.Fingerprints)
	if err != nil {
		return nil, err
	}
	record.DatasetFingerprint = fp
	record.LastMergedAt = time.Now().UTC()
	return record, nil
}

// Insert stores one object and its fingerprint under the (class, DN) key.
func (r *CacheRecord) Insert(obj InventoryObject, fp uint64) {
	r.Objects.Insert(obj)
	if r.Fingerprints[obj.Class] == nil {
		r.Fingerprints[obj.Class] = make(map[string]uint64)
	}
	r.Fingerprints[obj.Class][obj.DN] = fp
}
