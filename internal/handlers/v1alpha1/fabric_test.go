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
	"github.com/netfabric/capacity-planner/internal/analysis"
	"github.com/netfabric/capacity-planner/internal/config"
	handlers "github.com/netfabric/capacity-planner/internal/handlers/v1alpha1"
	"github.com/netfabric/capacity-planner/internal/service"
	"github.com/netfabric/capacity-planner/internal/store"
)

func newRouter(s store.Store) chi.Router {
	engine, err := analysis.NewEngine(2)
	Expect(err).To(BeNil())

	analysisSrv := service.NewAnalysisService(s, analysis.NewManager(s.Cache()), engine)
	fabricSrv := service.NewFabricService(s, analysisSrv, "100G")

	router := chi.NewRouter()
	handlers.NewServiceHandler(fabricSrv, analysisSrv).RegisterRoutes(router)
	return router
}

func doJSON(router chi.Router, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeFabric(resp *httptest.ResponseRecorder) v1alpha1.Fabric {
	var fabric v1alpha1.Fabric
	Expect(json.NewDecoder(resp.Body).Decode(&fabric)).To(Succeed())
	return fabric
}

var _ = Describe("fabric handler", Ordered, func() {
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

	Context("create", func() {
		It("creates a fabric and applies defaults", func() {
			resp := doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "dc-east"})
			Expect(resp.Code).To(Equal(http.StatusCreated))

			fabric := decodeFabric(resp)
			Expect(fabric.Name).To(Equal("dc-east"))
			Expect(fabric.UplinkSpeed).To(Equal("100G"))
			Expect(fabric.ClusterSize).To(Equal(3))
		})

		It("rejects an invalid name", func() {
			resp := doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "has space"})
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an out-of-range uplink count", func() {
			uplinks := 65
			resp := doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "dc-east", UplinksPerLeaf: &uplinks})
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a duplicate name", func() {
			resp := doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "dc-east"})
			Expect(resp.Code).To(Equal(http.StatusCreated))

			resp = doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "dc-east"})
			Expect(resp.Code).To(Equal(http.StatusConflict))

			var apiErr v1alpha1.Error
			Expect(json.NewDecoder(resp.Body).Decode(&apiErr)).To(Succeed())
			Expect(apiErr.Message).ToNot(BeEmpty())
		})
	})

	Context("list", func() {
		It("lists registered fabrics", func() {
			for _, name := range []string{"dc-east", "dc-west"} {
				resp := doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: name})
				Expect(resp.Code).To(Equal(http.StatusCreated))
			}

			resp := doJSON(router, http.MethodGet, "/api/v1/fabrics/", nil)
			Expect(resp.Code).To(Equal(http.StatusOK))

			var fabrics v1alpha1.FabricList
			Expect(json.NewDecoder(resp.Body).Decode(&fabrics)).To(Succeed())
			Expect(fabrics).To(HaveLen(2))
		})

		It("filters by name", func() {
			for _, name := range []string{"dc-east", "dc-west", "lab"} {
				resp := doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: name})
				Expect(resp.Code).To(Equal(http.StatusCreated))
			}

			resp := doJSON(router, http.MethodGet, "/api/v1/fabrics/?name=dc", nil)
			Expect(resp.Code).To(Equal(http.StatusOK))

			var fabrics v1alpha1.FabricList
			Expect(json.NewDecoder(resp.Body).Decode(&fabrics)).To(Succeed())
			Expect(fabrics).To(HaveLen(2))
		})

		It("rejects a non-numeric limit", func() {
			resp := doJSON(router, http.MethodGet, "/api/v1/fabrics/?limit=ten", nil)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("get", func() {
		It("returns 404 for an unknown id", func() {
			resp := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/fabrics/%s/", uuid.New()), nil)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			resp := doJSON(router, http.MethodGet, "/api/v1/fabrics/not-a-uuid/", nil)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("update", func() {
		It("applies a partial update", func() {
			created := decodeFabric(doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "dc-east"}))

			release := "6.0"
			resp := doJSON(router, http.MethodPut, fmt.Sprintf("/api/v1/fabrics/%s/", created.Id), v1alpha1.FabricUpdate{PlatformRelease: &release})
			Expect(resp.Code).To(Equal(http.StatusOK))

			fabric := decodeFabric(resp)
			Expect(fabric.PlatformRelease).To(Equal("6.0"))
			Expect(fabric.Name).To(Equal("dc-east"))
		})
	})

	Context("delete", func() {
		It("removes the fabric", func() {
			created := decodeFabric(doJSON(router, http.MethodPost, "/api/v1/fabrics/", v1alpha1.FabricForm{Name: "dc-east"}))

			resp := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/fabrics/%s/", created.Id), nil)
			Expect(resp.Code).To(Equal(http.StatusNoContent))

			resp = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/fabrics/%s/", created.Id), nil)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})
	})
})
