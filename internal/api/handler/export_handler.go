package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"go-triage-pipeline/internal/model"
	"go-triage-pipeline/internal/pipeline"
	"go-triage-pipeline/internal/store"
	"go-triage-pipeline/pkg/utils"
)

// ExportStore is the export history the handlers read and write
type ExportStore interface {
	SaveExport(result *model.ExportResult) error
	ListExports() ([]model.ExportResult, error)
	ListExportsByEcosystem(ecosystem string) ([]model.ExportResult, error)
	GetExport(id string) (*model.ExportResult, error)
}

// DestinationResolver returns the destination for a requested kind
type DestinationResolver func(kind model.DestinationKind) (pipeline.Destination, error)

// ExportHandler serves the export endpoints
type ExportHandler struct {
	Store        ExportStore
	Destinations DestinationResolver
	Logger       *zap.Logger
	outputs      *utils.OutputManager
}

// NewExportHandler wires the export endpoints
func NewExportHandler(st ExportStore, resolve DestinationResolver, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{
		Store:        st,
		Destinations: resolve,
		Logger:       logger,
		outputs:      utils.NewOutputManager(""),
	}
}

type exportResponse struct {
	*model.ExportResult
	DownloadURL string `json:"download_url,omitempty"`
}

func (h *ExportHandler) response(r *model.ExportResult) exportResponse {
	resp := exportResponse{ExportResult: r}
	if r.Success && r.Destination == model.DestinationLocal {
		resp.DownloadURL = h.outputs.GetDownloadURL(r.ID)
	}
	return resp
}

// CreateExport runs a triage export
// @Summary Export triage results
// @Description Filter a triage result CSV, stamp its ecosystem and write it to the selected destination
// @Tags exports
// @Accept json
// @Produce json
// @Param export body model.ExportRequest true "Export request"
// @Success 201 {object} model.ExportResult "Export written"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 502 {object} model.ExportResult "Destination write failed"
// @Router /exports [post]
func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	var req model.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	kind, err := model.ParseDestinationKind(string(req.Destination))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dest, err := h.Destinations(kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := pipeline.ReadCSVFile(req.Input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	em := pipeline.NewExportManager(dest, h.Logger)
	em.Recorder = h.Store

	result, err := em.Export(r.Context(), req, table)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, h.response(result))
	case result != nil:
		writeJSON(w, http.StatusBadGateway, h.response(result))
	case isRequestError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error("Export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func isRequestError(err error) bool {
	return errors.Is(err, pipeline.ErrInvalidRequest) ||
		errors.Is(err, model.ErrMissingColumn) ||
		errors.Is(err, model.ErrUnknownModel) ||
		errors.Is(err, pipeline.ErrNoBaseDir)
}

// ListExports lists recorded exports
// @Summary List exports
// @Description List recorded triage exports, newest first, optionally for one ecosystem
// @Tags exports
// @Produce json
// @Param ecosystem query string false "Ecosystem filter"
// @Success 200 {array} model.ExportResult "Exports"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports [get]
func (h *ExportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	var (
		results []model.ExportResult
		err     error
	)
	if eco := r.URL.Query().Get("ecosystem"); eco != "" {
		results, err = h.Store.ListExportsByEcosystem(eco)
	} else {
		results, err = h.Store.ListExports()
	}
	if err != nil {
		h.Logger.Error("Failed to list exports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch exports")
		return
	}

	resp := make([]exportResponse, 0, len(results))
	for i := range results {
		resp = append(resp, h.response(&results[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetExport retrieves a single export
// @Summary Get export
// @Description Retrieve one recorded export
// @Tags exports
// @Produce json
// @Param id path string true "Export ID"
// @Success 200 {object} model.ExportResult "Export"
// @Failure 404 {object} map[string]interface{} "Export not found"
// @Router /exports/{id} [get]
func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lookup(w, r, "")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.response(result))
}

// DownloadExport streams the CSV of a local export
// @Summary Download export
// @Description Download the CSV of a local export
// @Tags exports
// @Produce text/csv
// @Param id path string true "Export ID"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} map[string]interface{} "Export not found"
// @Failure 409 {object} map[string]interface{} "Export is not stored locally"
// @Router /exports/{id}/download [get]
func (h *ExportHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lookup(w, r, "/download")
	if !ok {
		return
	}
	if result.Destination != model.DestinationLocal || !result.Success {
		writeError(w, http.StatusConflict, "Export is not available locally")
		return
	}

	file, err := os.Open(result.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Export file is gone")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+info.Name()+`"`)
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}

// ListModels lists accepted model names
// @Summary List models
// @Description List accepted inference model names and their file labels
// @Tags models
// @Produce json
// @Success 200 {array} map[string]interface{} "Models"
// @Router /models [get]
func (h *ExportHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models := make([]map[string]string, 0)
	for _, name := range model.ModelNames() {
		label, _ := model.ModelLabel(name)
		models = append(models, map[string]string{"name": name, "label": label})
	}
	writeJSON(w, http.StatusOK, models)
}

// lookup extracts the export id from /api/v1/exports/{id}{suffix} and loads it
func (h *ExportHandler) lookup(w http.ResponseWriter, r *http.Request, suffix string) (*model.ExportResult, bool) {
	const prefix = "/api/v1/exports/"
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return nil, false
	}

	id := strings.Trim(strings.TrimSuffix(path[len(prefix):], suffix), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "Export ID is required")
		return nil, false
	}

	result, err := h.Store.GetExport(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Export not found")
		return nil, false
	}
	if err != nil {
		h.Logger.Error("Failed to fetch export", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch export")
		return nil, false
	}
	return result, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}
