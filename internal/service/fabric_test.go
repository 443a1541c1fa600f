package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/internal/analysis"
	"github.com/netfabric/capacity-planner/internal/config"
	"github.com/netfabric/capacity-planner/internal/service"
	"github.com/netfabric/capacity-planner/internal/service/mappers"
	"github.com/netfabric/capacity-planner/internal/store"
)

func newServices(s store.Store) (*service.FabricService, *service.AnalysisService) {
	return newServicesWithUplinkSpeed(s, "100G")
}

func newServicesWithUplinkSpeed(s store.Store, defaultUplinkSpeed string) (*service.FabricService, *service.AnalysisService) {
	engine, err := analysis.NewEngine(2)
	Expect(err).To(BeNil())
	manager := analysis.NewManager(s.Cache())
	analysisSrv := service.NewAnalysisService(s, manager, engine)
	return service.NewFabricService(s, analysisSrv, defaultUplinkSpeed), analysisSrv
}

var _ = Describe("fabric service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM cache_records;")
		gormdb.Exec("DELETE FROM fabrics;")
	})

	Context("create", func() {
		It("creates a fabric with defaults applied", func() {
			fabricSrv, _ := newServices(s)

			fabric, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east"})
			Expect(err).To(BeNil())
			Expect(fabric.UplinkSpeed).To(Equal("100G"))
			Expect(fabric.ClusterSize).To(Equal(3))
		})

		It("uses the configured default uplink speed", func() {
			fabricSrv, _ := newServicesWithUplinkSpeed(s, "40G")

			fabric, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east"})
			Expect(err).To(BeNil())
			Expect(fabric.UplinkSpeed).To(Equal("40G"))
		})

		It("keeps an explicit uplink speed over the default", func() {
			fabricSrv, _ := newServicesWithUplinkSpeed(s, "40G")

			fabric, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east", UplinkSpeed: "400G"})
			Expect(err).To(BeNil())
			Expect(fabric.UplinkSpeed).To(Equal("400G"))
		})

		It("rejects a duplicate name with a typed error", func() {
			fabricSrv, _ := newServices(s)

			_, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east"})
			Expect(err).To(BeNil())

			_, err = fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrFabricDuplicateName{}))
		})
	})

	Context("get", func() {
		It("returns a typed error for an unknown fabric", func() {
			fabricSrv, _ := newServices(s)

			_, err := fabricSrv.GetFabric(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("update", func() {
		It("applies partial updates", func() {
			fabricSrv, _ := newServices(s)

			fabric, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east"})
			Expect(err).To(BeNil())

			release := "6.0"
			clusterSize := 7
			updated, err := fabricSrv.UpdateFabric(context.TODO(), fabric.ID, mappers.FabricUpdateForm{
				PlatformRelease: &release,
				ClusterSize:     &clusterSize,
			})
			Expect(err).To(BeNil())
			Expect(updated.PlatformRelease).To(Equal("6.0"))
			Expect(updated.ClusterSize).To(Equal(7))
			Expect(updated.Name).To(Equal("dc-east"))
		})

		It("clears a description set to the empty string", func() {
			fabricSrv, _ := newServices(s)

			description := "east coast pod"
			fabric, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east", Description: description})
			Expect(err).To(BeNil())
			Expect(fabric.Description).To(Equal(description))

			empty := ""
			updated, err := fabricSrv.UpdateFabric(context.TODO(), fabric.ID, mappers.FabricUpdateForm{Description: &empty})
			Expect(err).To(BeNil())
			Expect(updated.Description).To(BeEmpty())
		})
	})

	Context("delete", func() {
		It("removes the fabric and its cache record", func() {
			fabricSrv, analysisSrv := newServices(s)

			fabric, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{Name: "dc-east"})
			Expect(err).To(BeNil())

			_, err = analysisSrv.Ingest(context.TODO(), fabric.ID, bundle(
				record("fvTenant", "uni/tn-a"),
			), false)
			Expect(err).To(BeNil())

			Expect(fabricSrv.DeleteFabric(context.TODO(), fabric.ID)).To(Succeed())

			_, err = fabricSrv.GetFabric(context.TODO(), fabric.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))

			_, err = s.Cache().Load(context.TODO(), fabric.ID)
			Expect(err).To(MatchError(analysis.ErrCacheMiss))
		})
	})
})
