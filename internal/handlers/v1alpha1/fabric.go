package v1alpha1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/netfabric/capacity-planner/api/v1alpha1"
	"github.com/netfabric/capacity-planner/internal/handlers/v1alpha1/mappers"
	"github.com/netfabric/capacity-planner/internal/service"
	"github.com/netfabric/capacity-planner/pkg/log"
)

// (GET /api/v1/fabrics)
func (h *ServiceHandler) ListFabrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("fabric_handler").
		WithContext(ctx).
		Operation("list_fabrics").
		Build()

	filter := service.FabricFilter{
		NameLike: r.URL.Query().Get("name"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit: %s", v))
			return
		}
		filter.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid offset: %s", v))
			return
		}
		filter.Offset = offset
	}

	fabrics, err := h.fabricSrv.ListFabrics(ctx, filter)
	if err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to list fabrics: %v", err))
		return
	}

	logger.Success().WithInt("count", len(fabrics)).Log()
	respond(w, r, http.StatusOK, mappers.FabricListToApi(fabrics))
}

// (POST /api/v1/fabrics)
func (h *ServiceHandler) CreateFabric(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("fabric_handler").
		WithContext(ctx).
		Operation("create_fabric").
		Build()

	var form v1alpha1.FabricForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if err := validateFabricData(form); err != nil {
		logger.Error(err).WithString("step", "validation").Log()
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	fabric, err := h.fabricSrv.CreateFabric(ctx, mappers.FabricFormToCreateForm(form))
	if err != nil {
		switch err.(type) {
		case *service.ErrFabricDuplicateName:
			logger.Error(err).WithString("step", "uniqueness").Log()
			respondError(w, r, http.StatusConflict, err.Error())
		default:
			logger.Error(err).Log()
			respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Success().WithUUID("fabric_id", fabric.ID).WithString("fabric_name", fabric.Name).Log()
	respond(w, r, http.StatusCreated, mappers.FabricToApi(*fabric))
}

// (GET /api/v1/fabrics/{id})
func (h *ServiceHandler) GetFabric(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("fabric_handler").
		WithContext(ctx).
		Operation("get_fabric").
		Build()

	id, err := fabricID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	fabric, err := h.fabricSrv.GetFabric(ctx, id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		default:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to get fabric: %v", err))
		}
		return
	}

	logger.Success().WithString("fabric_name", fabric.Name).Log()
	respond(w, r, http.StatusOK, mappers.FabricToApi(*fabric))
}

// (PUT /api/v1/fabrics/{id})
func (h *ServiceHandler) UpdateFabric(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("fabric_handler").
		WithContext(ctx).
		Operation("update_fabric").
		Build()

	id, err := fabricID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var update v1alpha1.FabricUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if err := validateFabricData(update); err != nil {
		logger.Error(err).WithString("step", "validation").Log()
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	fabric, err := h.fabricSrv.UpdateFabric(ctx, id, mappers.FabricUpdateToUpdateForm(update))
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrFabricDuplicateName:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusConflict, err.Error())
		default:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Success().WithString("fabric_name", fabric.Name).Log()
	respond(w, r, http.StatusOK, mappers.FabricToApi(*fabric))
}

// (DELETE /api/v1/fabrics/{id})
func (h *ServiceHandler) DeleteFabric(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("fabric_handler").
		WithContext(ctx).
		Operation("delete_fabric").
		Build()

	id, err := fabricID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.fabricSrv.DeleteFabric(ctx, id); err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		default:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Success().WithUUID("fabric_id", id).Log()
	w.WriteHeader(http.StatusNoContent)
}

func fabricID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid fabric id %q", raw)
	}
	return id, nil
}
