package v1alpha1

import (
	"fmt"
	"io"
	"net/http"

	"github.com/netfabric/capacity-planner/api/v1alpha1"
	"github.com/netfabric/capacity-planner/internal/handlers/v1alpha1/mappers"
	"github.com/netfabric/capacity-planner/internal/service"
	"github.com/netfabric/capacity-planner/pkg/log"
)

// uploads larger than this are rejected before parsing
const maxDatasetBytes = 256 << 20

// (POST /api/v1/fabrics/{id}/ingest)
func (h *ServiceHandler) IngestDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("analysis_handler").
		WithContext(ctx).
		Operation("ingest_dataset").
		Build()

	id, err := fabricID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	mode := v1alpha1.StringToIngestMode(r.URL.Query().Get("mode"))
	logger.Step("resolved_mode").WithString("mode", string(mode)).Log()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDatasetBytes+1))
	if err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return
	}
	if len(body) > maxDatasetBytes {
		respondError(w, r, http.StatusRequestEntityTooLarge, "dataset exceeds maximum size")
		return
	}
	if len(body) == 0 {
		respondError(w, r, http.StatusBadRequest, "empty body")
		return
	}

	outcome, err := h.analysisSrv.Ingest(ctx, id, body, mode == v1alpha1.IngestModeFull)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrDatasetCorrupted:
			logger.Error(err).WithUUID("fabric_id", id).WithString("step", "parse").Log()
			respondError(w, r, http.StatusBadRequest, err.Error())
		default:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Success().
		WithUUID("fabric_id", id).
		WithInt("objects", outcome.Record.Objects.Len()).
		Log()
	respond(w, r, http.StatusOK, v1alpha1.IngestResult{
		FabricId:           id,
		Mode:               mode,
		DatasetFingerprint: mappers.FingerprintToApi(outcome.Record.DatasetFingerprint),
		Diff:               mappers.DiffToApi(outcome.Diff),
		Analysis:           outcome.Result,
	})
}

// (GET /api/v1/fabrics/{id}/analysis)
func (h *ServiceHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("analysis_handler").
		WithContext(ctx).
		Operation("get_analysis").
		Build()

	id, err := fabricID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	record, result, err := h.analysisSrv.GetAnalysis(ctx, id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrFabricHasNoDataset:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		default:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Success().WithUUID("fabric_id", id).WithInt("objects", record.Objects.Len()).Log()
	respond(w, r, http.StatusOK, v1alpha1.AnalysisReport{
		FabricId:           id,
		DatasetFingerprint: mappers.FingerprintToApi(record.DatasetFingerprint),
		LastMergedAt:       record.LastMergedAt,
		Analysis:           *result,
	})
}

// (POST /api/v1/fabrics/{id}/cache/rebuild)
func (h *ServiceHandler) RebuildCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.NewDebugLogger("analysis_handler").
		WithContext(ctx).
		Operation("rebuild_cache").
		Build()

	id, err := fabricID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.analysisSrv.RebuildCache(ctx, id)
	if err != nil {
		switch err.(type) {
		case *service.ErrResourceNotFound:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrFabricHasNoDataset:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusNotFound, err.Error())
		default:
			logger.Error(err).WithUUID("fabric_id", id).Log()
			respondError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Success().WithUUID("fabric_id", id).WithInt("objects", record.Objects.Len()).Log()
	respond(w, r, http.StatusOK, map[string]string{
		"fabricId":           id.String(),
		"datasetFingerprint": mappers.FingerprintToApi(record.DatasetFingerprint),
	})
}
