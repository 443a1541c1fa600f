package mappers

import (
	"fmt"

	"github.com/netfabric/capacity-planner/api/v1alpha1"
	"github.com/netfabric/capacity-planner/internal/analysis"
	"github.com/netfabric/capacity-planner/internal/store/model"
)

func FabricToApi(f model.Fabric) v1alpha1.Fabric {
	out := v1alpha1.Fabric{
		Id:              f.ID,
		Name:            f.Name,
		Description:     f.Description,
		UplinksPerLeaf:  f.UplinksPerLeaf,
		UplinkSpeed:     f.UplinkSpeed,
		PlatformRelease: f.PlatformRelease,
		ClusterSize:     f.ClusterSize,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
	if f.CacheRecord != nil && f.CacheRecord.Payload != nil {
		out.Cache = &v1alpha1.CacheStatus{
			DatasetFingerprint: f.CacheRecord.DatasetFingerprint,
			Objects:            f.CacheRecord.Payload.Data.Objects.Len(),
			LastMergedAt:       f.CacheRecord.LastMergedAt,
		}
	}
	return out
}

func FabricListToApi(fabrics model.FabricList) v1alpha1.FabricList {
	out := make(v1alpha1.FabricList, 0, len(fabrics))
	for _, f := range fabrics {
		out = append(out, FabricToApi(f))
	}
	return out
}

func DiffToApi(diff analysis.DiffResult) v1alpha1.DiffSummary {
	added, changed, removed, unchanged := diff.Counts()
	return v1alpha1.DiffSummary{
		Added:     added,
		Changed:   changed,
		Removed:   removed,
		Unchanged: unchanged,
	}
}

func FingerprintToApi(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}
