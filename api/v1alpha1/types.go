package v1alpha1

import (
	"time"

	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/internal/analysis"
)

// Fabric is the API representation of a registered fabric.
type Fabric struct {
	Id              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	UplinksPerLeaf  *int         `json:"uplinksPerLeaf,omitempty"`
	UplinkSpeed     string       `json:"uplinkSpeed"`
	PlatformRelease string       `json:"platformRelease,omitempty"`
	ClusterSize     int          `json:"clusterSize"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty"`
	Cache           *CacheStatus `json:"cache,omitempty"`
}

// CacheStatus summarizes the fabric's persisted cache record, if any.
type CacheStatus struct {
	DatasetFingerprint string    `json:"datasetFingerprint"`
	Objects            int       `json:"objects"`
	LastMergedAt       time.Time `json:"lastMergedAt"`
}

type FabricList []Fabric

// FabricForm is the request body for creating a fabric.
type FabricForm struct {
	Name            string `json:"name" validate:"required,fabric_name"`
	Description     string `json:"description,omitempty"`
	UplinksPerLeaf  *int   `json:"uplinksPerLeaf,omitempty" validate:"omitempty,gte=1,lte=64"`
	UplinkSpeed     string `json:"uplinkSpeed,omitempty" validate:"omitempty,uplink_speed"`
	PlatformRelease string `json:"platformRelease,omitempty" validate:"omitempty,platform_release"`
	ClusterSize     *int   `json:"clusterSize,omitempty" validate:"omitempty,gte=1,lte=16"`
}

// FabricUpdate is the request body for updating a fabric. Nil fields are
// left unchanged.
type FabricUpdate struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,fabric_name"`
	Description     *string `json:"description,omitempty"`
	UplinksPerLeaf  *int    `json:"uplinksPerLeaf,omitempty" validate:"omitempty,gte=1,lte=64"`
	UplinkSpeed     *string `json:"uplinkSpeed,omitempty" validate:"omitempty,uplink_speed"`
	PlatformRelease *string `json:"platformRelease,omitempty" validate:"omitempty,platform_release"`
	ClusterSize     *int    `json:"clusterSize,omitempty" validate:"omitempty,gte=1,lte=16"`
}

// IngestMode selects the merge semantics of a dataset upload.
type IngestMode string

const (
	IngestModeFull        IngestMode = "full"
	IngestModeIncremental IngestMode = "incremental"
)

// DiffSummary reports what changed against the previous cache record.
type DiffSummary struct {
	Added     int `json:"added"`
	Changed   int `json:"changed"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// IngestResult is the response to a dataset upload: the diff against the
// cache plus the freshly computed analysis.
type IngestResult struct {
	FabricId           uuid.UUID       `json:"fabricId"`
	Mode               IngestMode      `json:"mode"`
	DatasetFingerprint string          `json:"datasetFingerprint"`
	Diff               DiffSummary     `json:"diff"`
	Analysis           analysis.Result `json:"analysis"`
}

// AnalysisReport wraps the engine's result for a fabric's cached dataset.
type AnalysisReport struct {
	FabricId           uuid.UUID       `json:"fabricId"`
	DatasetFingerprint string          `json:"datasetFingerprint"`
	LastMergedAt       time.Time       `json:"lastMergedAt"`
	Analysis           analysis.Result `json:"analysis"`
}

// Error is the common error response body.
type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}

func StringToIngestMode(s string) IngestMode {
	switch s {
	case string(IngestModeFull):
		return IngestModeFull
	case string(IngestModeIncremental):
		return IngestModeIncremental
	default:
		return IngestModeIncremental
	}
}
