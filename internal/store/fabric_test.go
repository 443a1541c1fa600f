package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/netfabric/capacity-planner/internal/config"
	"github.com/netfabric/capacity-planner/internal/store"
	"github.com/netfabric/capacity-planner/internal/store/model"
)

const (
	insertFabricStm = "INSERT INTO fabrics (id, name, uplink_speed, cluster_size, created_at) VALUES ('%s', '%s', '100G', 3, CURRENT_TIMESTAMP);"
)

var _ = Describe("fabric store", Ordered, func() {
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

	Context("list", func() {
		It("successfully lists all fabrics", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertFabricStm, uuid.NewString(), "dc-east"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertFabricStm, uuid.NewString(), "dc-west"))
			Expect(tx.Error).To(BeNil())

			fabrics, err := s.Fabric().List(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(fabrics).To(HaveLen(2))
		})

		It("filters by name pattern", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertFabricStm, uuid.NewString(), "dc-east"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertFabricStm, uuid.NewString(), "lab-1"))
			Expect(tx.Error).To(BeNil())

			fabrics, err := s.Fabric().List(context.TODO(), store.NewFabricQueryFilter().ByNameLike("dc"))
			Expect(err).To(BeNil())
			Expect(fabrics).To(HaveLen(1))
			Expect(fabrics[0].Name).To(Equal("dc-east"))
		})

		It("honors limit and offset", func() {
			for i := 0; i < 5; i++ {
				tx := gormdb.Exec(fmt.Sprintf(insertFabricStm, uuid.NewString(), fmt.Sprintf("fabric-%d", i)))
				Expect(tx.Error).To(BeNil())
			}

			fabrics, err := s.Fabric().List(context.TODO(), store.NewFabricQueryFilter().WithLimit(2))
			Expect(err).To(BeNil())
			Expect(fabrics).To(HaveLen(2))
		})
	})

	Context("create", func() {
		It("creates a fabric with configuration", func() {
			uplinks := 4
			fabric, err := s.Fabric().Create(context.TODO(), model.Fabric{
				ID:              uuid.New(),
				Name:            "dc-east",
				UplinksPerLeaf:  &uplinks,
				UplinkSpeed:     "400G",
				PlatformRelease: "6.0",
				ClusterSize:     7,
			})
			Expect(err).To(BeNil())
			Expect(fabric.Name).To(Equal("dc-east"))

			got, err := s.Fabric().Get(context.TODO(), fabric.ID)
			Expect(err).To(BeNil())
			Expect(got.UplinkSpeed).To(Equal("400G"))
			Expect(*got.UplinksPerLeaf).To(Equal(4))
			Expect(got.Config().ClusterSize).To(Equal(7))
		})

		It("rejects duplicate names", func() {
			_, err := s.Fabric().Create(context.TODO(), model.Fabric{ID: uuid.New(), Name: "dc-east", ClusterSize: 3})
			Expect(err).To(BeNil())

			_, err = s.Fabric().Create(context.TODO(), model.Fabric{ID: uuid.New(), Name: "dc-east", ClusterSize: 3})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("get", func() {
		It("returns not found for an unknown id", func() {
			_, err := s.Fabric().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("update", func() {
		It("updates fields", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertFabricStm, id.String(), "dc-east"))
			Expect(tx.Error).To(BeNil())

			updated, err := s.Fabric().Update(context.TODO(), model.Fabric{ID: id, Name: "dc-east", PlatformRelease: "5.2"})
			Expect(err).To(BeNil())
			Expect(updated.PlatformRelease).To(Equal("5.2"))
		})

		It("persists cleared fields", func() {
			created, err := s.Fabric().Create(context.TODO(), model.Fabric{
				ID:          uuid.New(),
				Name:        "dc-east",
				Description: "east coast pod",
				UplinkSpeed: "100G",
				ClusterSize: 3,
			})
			Expect(err).To(BeNil())

			updated, err := s.Fabric().Update(context.TODO(), model.Fabric{
				ID:          created.ID,
				Name:        "dc-east",
				Description: "",
				UplinkSpeed: "100G",
				ClusterSize: 3,
			})
			Expect(err).To(BeNil())
			Expect(updated.Description).To(BeEmpty())

			got, err := s.Fabric().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(got.Description).To(BeEmpty())
		})

		It("returns not found for an unknown id", func() {
			_, err := s.Fabric().Update(context.TODO(), model.Fabric{ID: uuid.New(), Name: "ghost"})
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("delete", func() {
		It("deletes a fabric", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertFabricStm, id.String(), "dc-east"))
			Expect(tx.Error).To(BeNil())

			Expect(s.Fabric().Delete(context.TODO(), id)).To(Succeed())
			_, err := s.Fabric().Get(context.TODO(), id)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("tolerates deleting an unknown id", func() {
			Expect(s.Fabric().Delete(context.TODO(), uuid.New())).To(Succeed())
		})
	})

	Context("statistics", func() {
		It("aggregates cached datasets", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertFabricStm, id.String(), "dc-east"))
			Expect(tx.Error).To(BeNil())

			stats, err := s.Statistics(context.TODO())
			Expect(err).To(BeNil())
			Expect(stats.TotalFabrics).To(Equal(1))
			Expect(stats.TotalCachedDatasets).To(Equal(0))
		})
	})
})
