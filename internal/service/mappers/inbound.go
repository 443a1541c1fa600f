package mappers

import (
	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/internal/store/model"
)

// FabricCreateForm carries validated input for registering a fabric.
type FabricCreateForm struct {
	Name            string
	Description     string
	UplinksPerLeaf  *int
	UplinkSpeed     string
	PlatformRelease string
	ClusterSize     int
}

// ToModel builds the registry row, falling back to the process-wide
// default uplink speed when the form leaves it unset.
func (f FabricCreateForm) ToModel(defaultUplinkSpeed string) model.Fabric {
	fabric := model.Fabric{
		ID:              uuid.New(),
		Name:            f.Name,
		Description:     f.Description,
		UplinksPerLeaf:  f.UplinksPerLeaf,
		UplinkSpeed:     f.UplinkSpeed,
		PlatformRelease: f.PlatformRelease,
		ClusterSize:     f.ClusterSize,
	}
	if fabric.UplinkSpeed == "" {
		fabric.UplinkSpeed = defaultUplinkSpeed
	}
	if fabric.UplinkSpeed == "" {
		fabric.UplinkSpeed = "100G"
	}
	if fabric.ClusterSize == 0 {
		fabric.ClusterSize = 3
	}
	return fabric
}

// FabricUpdateForm carries partial updates; nil fields are untouched.
type FabricUpdateForm struct {
	Name            *string
	Description     *string
	UplinksPerLeaf  *int
	UplinkSpeed     *string
	PlatformRelease *string
	ClusterSize     *int
}

// Apply overlays the form onto an existing fabric row.
func (f FabricUpdateForm) Apply(fabric *model.Fabric) {
	if f.Name != nil {
		fabric.Name = *f.Name
	}
	if f.Description != nil {
		fabric.Description = *f.Description
	}
	if f.UplinksPerLeaf != nil {
		fabric.UplinksPerLeaf = f.UplinksPerLeaf
	}
	if f.UplinkSpeed != nil {
		fabric.UplinkSpeed = *f.UplinkSpeed
	}
	if f.PlatformRelease != nil {
		fabric.PlatformRelease = *f.PlatformRelease
	}
	if f.ClusterSize != nil {
		fabric.ClusterSize = *f.ClusterSize
	}
}
