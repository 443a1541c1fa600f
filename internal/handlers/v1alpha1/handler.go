package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/netfabric/capacity-planner/api/v1alpha1"
	"github.com/netfabric/capacity-planner/internal/handlers/validator"
	"github.com/netfabric/capacity-planner/internal/service"
	"github.com/netfabric/capacity-planner/pkg/requestid"
)

// ServiceHandler is the HTTP face of the service layer.
type ServiceHandler struct {
	fabricSrv   *service.FabricService
	analysisSrv *service.AnalysisService
}

func NewServiceHandler(fabricSrv *service.FabricService, analysisSrv *service.AnalysisService) *ServiceHandler {
	return &ServiceHandler{
		fabricSrv:   fabricSrv,
		analysisSrv: analysisSrv,
	}
}

// RegisterRoutes mounts the v1 API onto the router.
func (h *ServiceHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/v1/fabrics", func(r chi.Router) {
		r.Get("/", h.ListFabrics)
		r.Post("/", h.CreateFabric)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetFabric)
			r.Put("/", h.UpdateFabric)
			r.Delete("/", h.DeleteFabric)
			r.Post("/ingest", h.IngestDataset)
			r.Get("/analysis", h.GetAnalysis)
			r.Post("/cache/rebuild", h.RebuildCache)
		})
	})
}

func respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	render.Status(r, status)
	render.JSON(w, r, body)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, v1alpha1.Error{
		Message:   message,
		RequestId: requestid.FromContextPtr(r.Context()),
	})
}

func validateFabricData(data any) error {
	v := validator.NewValidator()
	v.Register(validator.NewFabricValidationRules()...)
	return v.Struct(data)
}
