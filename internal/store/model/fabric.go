package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/internal/analysis"
)

// Fabric is one managed network deployment, the unit of analysis. It
// carries the per-fabric configuration consumed by the engine.
type Fabric struct {
	ID              uuid.UUID `gorm:"primaryKey;"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       *time.Time
	Name            string `gorm:"uniqueIndex;not null;type:VARCHAR(64)"`
	Description     string
	UplinksPerLeaf  *int
	UplinkSpeed     string `gorm:"type:VARCHAR(10);default:100G"`
	PlatformRelease string `gorm:"type:VARCHAR(32)"`
	ClusterSize     int    `gorm:"default:3"`

	CacheRecord *CacheRecord `gorm:"foreignKey:FabricID;references:ID;constraint:OnDelete:CASCADE;"`
}

type FabricList []Fabric

func (f Fabric) String() string {
	val, _ := json.Marshal(f)
	return string(val)
}

// Config maps the fabric row to the engine's configuration input.
func (f Fabric) Config() analysis.FabricConfig {
	cfg := analysis.FabricConfig{
		UplinkSpeed:     f.UplinkSpeed,
		PlatformRelease: f.PlatformRelease,
		ClusterSize:     f.ClusterSize,
	}
	if f.UplinksPerLeaf != nil {
		cfg.UplinksPerLeaf = *f.UplinksPerLeaf
	}
	return cfg
}

// CacheRecord is the persisted form of a fabric's differential-cache state.
// The payload is opaque to the store; only the cache subsystem reads it.
type CacheRecord struct {
	FabricID           uuid.UUID `gorm:"primaryKey;"`
	DatasetFingerprint string    `gorm:"not null;type:VARCHAR(32)"`
	Payload            *JSONField[analysis.CacheRecord] `gorm:"type:jsonb;not null"`
	LastMergedAt       time.Time `gorm:"not null"`
}

// FabricStats feeds the prometheus fabric collector.
type FabricStats struct {
	TotalFabrics        int
	TotalCachedDatasets int
	ObjectsByFabric     map[string]int
}

// NewFabricStats aggregates registry rows into collector gauges.
func NewFabricStats(fabrics FabricList) FabricStats {
	stats := FabricStats{
		TotalFabrics:    len(fabrics),
		ObjectsByFabric: make(map[string]int),
	}
	for _, f := range fabrics {
		if f.CacheRecord == nil || f.CacheRecord.Payload == nil {
			continue
		}
		stats.TotalCachedDatasets++
		stats.ObjectsByFabric[f.Name] = f.CacheRecord.Payload.Data.Objects.Len()
	}
	return stats
}
