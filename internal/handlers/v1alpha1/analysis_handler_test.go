package v1alpha1_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/netfabric/capacity-planner/api/v1alpha1"
	"github.com/netfabric/capacity-planner/internal/config"
	"github.com/netfabric/capacity-planner/internal/store"
)

func ingestBody(entries ...map[string]any) []byte {
	raw, err := json.Marshal(map[string]any{"imdata": entries})
	Expect(err).To(BeNil())
	return raw
}

func aciRecord(class, dn string, kv ...string) map[string]any {
	attrs := map[string]string{"dn": dn}
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return map[string]any{class: map[string]any{"attributes": attrs}}
}

var _ = Describe("analysis handler", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		router chi.Router
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
		router = newRouter(s)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM cache_records;")
		gormdb.Exec("DELETE FROM fabrics;")
	})

	createFabric := func() uuid.UUID {
		release := "5.2"
		resp := doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "dc-east", PlatformRelease: release})
		Expect(resp.Code).To(Equal(http.StatusCreated))
		return decodeFabric(resp).Id
	}

	ingest := func(id uuid.UUID, mode string, payload []byte) *httptest.ResponseRecorder {
		target := fmt.Sprintf("/api/v1/fabrics/%s/ingest", id)
		if mode != "" {
			target += "?mode=" + mode
		}
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	Context("ingest", func() {
		It("merges a dataset and returns the analysis", func() {
			id := createFabric()

			resp := ingest(id, "", ingestBody(
				aciRecord("fabricNode", "topology/pod-1/node-101", "role", "leaf", "id", "101"),
				aciRecord("fvTenant", "uni/tn-prod"),
			))
			Expect(resp.Code).To(Equal(http.StatusOK))

			var result v1alpha1.IngestResult
			Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
			Expect(result.Mode).To(Equal(v1alpha1.IngestModeIncremental))
			Expect(result.DatasetFingerprint).To(HaveLen(16))
			Expect(result.Diff.Added).To(Equal(2))
			Expect(result.Analysis.Summary.Leafs).To(Equal(1))
			Expect(result.Analysis.Insights).ToNot(BeEmpty())
		})

		It("honors full refresh mode", func() {
			id := createFabric()

			Expect(ingest(id, "", ingestBody(
				aciRecord("fvTenant", "uni/tn-prod"),
				aciRecord("fvBD", "uni/tn-prod/BD-web"),
			)).Code).To(Equal(http.StatusOK))

			resp := ingest(id, "full", ingestBody(aciRecord("fvTenant", "uni/tn-prod")))
			Expect(resp.Code).To(Equal(http.StatusOK))

			var result v1alpha1.IngestResult
			Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
			Expect(result.Mode).To(Equal(v1alpha1.IngestModeFull))
			Expect(result.Diff.Removed).To(Equal(1))
		})

		It("rejects an empty body", func() {
			id := createFabric()
			Expect(ingest(id, "", nil).Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an unparseable body", func() {
			id := createFabric()
			Expect(ingest(id, "", []byte("not json")).Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for an unknown fabric", func() {
			resp := ingest(uuid.New(), "", ingestBody(aciRecord("fvTenant", "uni/tn-a")))
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("get analysis", func() {
		It("returns the report for a cached dataset", func() {
			id := createFabric()
			Expect(ingest(id, "", ingestBody(aciRecord("fvTenant", "uni/tn-prod"))).Code).To(Equal(http.StatusOK))

			resp := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/fabrics/%s/analysis", id), nil)
			Expect(resp.Code).To(Equal(http.StatusOK))

			var report v1alpha1.AnalysisReport
			Expect(json.NewDecoder(resp.Body).Decode(&report)).To(Succeed())
			Expect(report.FabricId).To(Equal(id))
			Expect(report.DatasetFingerprint).To(HaveLen(16))
			Expect(report.Analysis.Summary.Tenants).To(Equal(1))
		})

		It("returns 404 before the first ingest", func() {
			id := createFabric()
			resp := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/fabrics/%s/analysis", id), nil)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("rebuild cache", func() {
		It("recomputes fingerprints for the cached dataset", func() {
			id := createFabric()
			Expect(ingest(id, "", ingestBody(aciRecord("fvTenant", "uni/tn-prod"))).Code).To(Equal(http.StatusOK))

			resp := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/fabrics/%s/cache/rebuild", id), nil)
			Expect(resp.Code).To(Equal(http.StatusOK))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["datasetFingerprint"]).To(HaveLen(16))
		})

		It("returns 404 before the first ingest", func() {
			id := createFabric()
			resp := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/fabrics/%s/cache/rebuild", id), nil)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})
	})
})
