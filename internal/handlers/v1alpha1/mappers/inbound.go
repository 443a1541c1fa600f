package mappers

import (
	"github.com/netfabric/capacity-planner/api/v1alpha1"
	srvMappers "github.com/netfabric/capacity-planner/internal/service/mappers"
)

func FabricFormToCreateForm(form v1alpha1.FabricForm) srvMappers.FabricCreateForm {
	createForm := srvMappers.FabricCreateForm{
		Name:            form.Name,
		Description:     form.Description,
		UplinksPerLeaf:  form.UplinksPerLeaf,
		UplinkSpeed:     form.UplinkSpeed,
		PlatformRelease: form.PlatformRelease,
	}
	if form.ClusterSize != nil {
		createForm.ClusterSize = *form.ClusterSize
	}
	return createForm
}

func FabricUpdateToUpdateForm(update v1alpha1.FabricUpdate) srvMappers.FabricUpdateForm {
	return srvMappers.FabricUpdateForm{
		Name:            update.Name,
		Description:     update.Description,
		UplinksPerLeaf:  update.UplinksPerLeaf,
		UplinkSpeed:     update.UplinkSpeed,
		PlatformRelease: update.PlatformRelease,
		ClusterSize:     update.ClusterSize,
	}
}
