package service_test

import (
	"context"
	"encoding/json"
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/internal/config"
	"github.com/netfabric/capacity-planner/internal/service"
	"github.com/netfabric/capacity-planner/internal/service/mappers"
	"github.com/netfabric/capacity-planner/internal/store"
)

// record builds one imdata entry for the given class and DN.
func record(class, dn string, kv ...string) map[string]any {
	attrs := map[string]string{"dn": dn}
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return map[string]any{class: map[string]any{"attributes": attrs}}
}

func bundle(entries ...map[string]any) []byte {
	raw, err := json.Marshal(map[string]any{"imdata": entries})
	Expect(err).To(BeNil())
	return raw
}

var _ = Describe("analysis service", Ordered, func() {
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

	createFabric := func(fabricSrv *service.FabricService) uuid.UUID {
		fabric, err := fabricSrv.CreateFabric(context.TODO(), mappers.FabricCreateForm{
			Name:            "dc-east",
			PlatformRelease: "5.2",
			ClusterSize:     3,
		})
		Expect(err).To(BeNil())
		return fabric.ID
	}

	Context("ingest", func() {
		It("merges a dataset and produces an analysis", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			outcome, err := analysisSrv.Ingest(context.TODO(), id, bundle(
				record("fabricNode", "topology/pod-1/node-101", "role", "leaf", "id", "101"),
				record("fabricNode", "topology/pod-1/node-201", "role", "spine", "id", "201"),
				record("fvTenant", "uni/tn-prod"),
			), false)
			Expect(err).To(BeNil())

			Expect(outcome.Record.Objects.Len()).To(Equal(3))
			Expect(outcome.Result.Summary.Leafs).To(Equal(1))
			Expect(outcome.Result.Summary.Spines).To(Equal(1))
			Expect(outcome.Result.Insights).ToNot(BeEmpty())
		})

		It("yields an identical result for a byte-identical re-ingest", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			payload := bundle(
				record("fabricNode", "topology/pod-1/node-101", "role", "leaf", "id", "101"),
				record("fvTenant", "uni/tn-prod"),
			)

			first, err := analysisSrv.Ingest(context.TODO(), id, payload, false)
			Expect(err).To(BeNil())

			second, err := analysisSrv.Ingest(context.TODO(), id, payload, false)
			Expect(err).To(BeNil())

			_, _, _, unchanged := second.Diff.Counts()
			Expect(unchanged).To(Equal(2))
			Expect(second.Record.DatasetFingerprint).To(Equal(first.Record.DatasetFingerprint))
			Expect(reflect.DeepEqual(first.Result, second.Result)).To(BeTrue())
		})

		It("keeps absent objects on incremental ingest and drops them on full refresh", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			_, err := analysisSrv.Ingest(context.TODO(), id, bundle(
				record("fvTenant", "uni/tn-prod"),
				record("fvBD", "uni/tn-prod/BD-web"),
			), false)
			Expect(err).To(BeNil())

			// incremental: the bridge domain survives
			outcome, err := analysisSrv.Ingest(context.TODO(), id, bundle(
				record("fvTenant", "uni/tn-prod"),
			), false)
			Expect(err).To(BeNil())
			Expect(outcome.Record.Objects.Len()).To(Equal(2))

			// full refresh: it is removed
			outcome, err = analysisSrv.Ingest(context.TODO(), id, bundle(
				record("fvTenant", "uni/tn-prod"),
			), true)
			Expect(err).To(BeNil())
			Expect(outcome.Record.Objects.Len()).To(Equal(1))
			_, _, removed, _ := outcome.Diff.Counts()
			Expect(removed).To(Equal(1))
		})

		It("reports malformed records as diagnostics without failing", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			outcome, err := analysisSrv.Ingest(context.TODO(), id, bundle(
				record("fvTenant", "uni/tn-prod"),
				map[string]any{"fvBD": map[string]any{"attributes": map[string]string{"name": "no-dn"}}},
			), false)
			Expect(err).To(BeNil())
			Expect(outcome.Record.Objects.Len()).To(Equal(1))
			Expect(outcome.Diagnostics).To(HaveLen(1))
		})

		It("rejects an unparseable payload", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			_, err := analysisSrv.Ingest(context.TODO(), id, []byte("not json"), false)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrDatasetCorrupted{}))
		})

		It("rejects an unknown fabric", func() {
			_, analysisSrv := newServices(s)

			_, err := analysisSrv.Ingest(context.TODO(), uuid.New(), bundle(record("fvTenant", "uni/tn-a")), false)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("does not report a store failure as not-found", func() {
			db, err := store.InitDB(config.NewDefault())
			Expect(err).To(BeNil())
			broken := store.NewStore(db)
			Expect(broken.Close()).To(Succeed())

			_, analysisSrv := newServices(broken)

			_, err = analysisSrv.Ingest(context.TODO(), uuid.New(), bundle(record("fvTenant", "uni/tn-a")), false)
			Expect(err).ToNot(BeNil())
			Expect(err).ToNot(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("get analysis", func() {
		It("recomputes the report from the cached dataset", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			ingested, err := analysisSrv.Ingest(context.TODO(), id, bundle(
				record("fabricNode", "topology/pod-1/node-101", "role", "leaf", "id", "101"),
				record("fvTenant", "uni/tn-prod"),
			), false)
			Expect(err).To(BeNil())

			cached, result, err := analysisSrv.GetAnalysis(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(cached.DatasetFingerprint).To(Equal(ingested.Record.DatasetFingerprint))
			Expect(result.Summary.Leafs).To(Equal(1))
		})

		It("returns a typed error before the first ingest", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			_, _, err := analysisSrv.GetAnalysis(context.TODO(), id)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrFabricHasNoDataset{}))
		})
	})

	Context("rebuild cache", func() {
		It("recomputes fingerprints without changing the dataset", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			ingested, err := analysisSrv.Ingest(context.TODO(), id, bundle(
				record("fvTenant", "uni/tn-prod"),
				record("fvBD", "uni/tn-prod/BD-web"),
			), false)
			Expect(err).To(BeNil())

			rebuilt, err := analysisSrv.RebuildCache(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(rebuilt.DatasetFingerprint).To(Equal(ingested.Record.DatasetFingerprint))
			Expect(rebuilt.Objects.Len()).To(Equal(2))
		})

		It("returns a typed error before the first ingest", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			_, err := analysisSrv.RebuildCache(context.TODO(), id)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrFabricHasNoDataset{}))
		})
	})

	Context("listing after ingest", func() {
		It("exposes cache status through the fabric store", func() {
			fabricSrv, analysisSrv := newServices(s)
			id := createFabric(fabricSrv)

			_, err := analysisSrv.Ingest(context.TODO(), id, bundle(record("fvTenant", "uni/tn-prod")), false)
			Expect(err).To(BeNil())

			fabric, err := fabricSrv.GetFabric(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(fabric.CacheRecord).ToNot(BeNil())
			Expect(fabric.CacheRecord.DatasetFingerprint).To(HaveLen(16))
		})
	})
})
