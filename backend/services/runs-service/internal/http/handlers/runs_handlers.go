package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"hotfire/backend/services/runs-service/internal/service"
	"hotfire/backend/services/runs-service/internal/source"
)

// RunsHandlers serves the run archive.
type RunsHandlers struct {
	service *service.RunsService
	logger  *zap.Logger
}

// NewRunsHandlers returns handler.
func NewRunsHandlers(service *service.RunsService, logger *zap.Logger) *RunsHandlers {
	return &RunsHandlers{service: service, logger: logger}
}

// List handles GET /runs.
func (h *RunsHandlers) List(w http.ResponseWriter, r *http.Request) {
	r = withCaller(r)
	runs, err := h.service.ListRuns(r.Context())
	if err != nil {
		h.logger.Error("failed to list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error reading data runs directory.")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// Records handles GET /run/{name}.
func (h *RunsHandlers) Records(w http.ResponseWriter, r *http.Request) {
	r = withCaller(r)
	name := r.PathValue("name")
	records, err := h.service.Records(r.Context(), name)
	if err != nil {
		h.writeRunError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Charts handles GET /charts/{name}.
func (h *RunsHandlers) Charts(w http.ResponseWriter, r *http.Request) {
	r = withCaller(r)
	name := r.PathValue("name")
	charts, err := h.service.Charts(r.Context(), name)
	if err != nil {
		h.writeRunError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, charts)
}

// Download handles GET /download/{name}.
func (h *RunsHandlers) Download(w http.ResponseWriter, r *http.Request) {
	r = withCaller(r)
	name := r.PathValue("name")
	rc, info, err := h.service.Open(r.Context(), name)
	if err != nil {
		h.writeRunError(w, name, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.FileName()}))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, info.FileName(), info.ModTime, rs)
		return
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("download interrupted", zap.String("run", info.Name), zap.Error(err))
	}
}

// AccessLog handles GET /access-log.
func (h *RunsHandlers) AccessLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	events, err := h.service.RecentAccess(r.Context(), limit)
	if errors.Is(err, service.ErrAccessLogDisabled) {
		writeError(w, http.StatusNotFound, "access log is not enabled")
		return
	}
	if err != nil {
		h.logger.Error("failed to read access log", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read access log")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *RunsHandlers) writeRunError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, source.ErrNotFound) {
		writeError(w, http.StatusNotFound, "File not found.")
		return
	}
	h.logger.Error("failed to read run", zap.String("run", name), zap.Error(err))
	writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error reading run %q.", name))
}
