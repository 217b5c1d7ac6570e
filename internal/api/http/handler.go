package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/accio-dl/accio-downloader/internal/domain"
	errs "github.com/accio-dl/accio-downloader/internal/errors"
)

// VideoServiceI defines the interface for video task business logic.
type VideoServiceI interface {
	Probe(ctx context.Context, rawURL string) (*domain.ProbeResponse, error)
	Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.TaskView, error)
	AuthStatus() domain.AuthStatus
}

// VideoHandler handles HTTP requests for probes and download tasks.
type VideoHandler struct {
	service   VideoServiceI
	validator *validator.Validate
	logger    *slog.Logger
}

// NewVideoHandler creates a new VideoHandler with the provided service and logger.
func NewVideoHandler(service VideoServiceI, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Parse handles POST /parse: probe a URL for downloadable formats.
func (h *VideoHandler) Parse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.ProbeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Probe(ctx, req.URL)
	if err != nil {
		// Probe failures carry the engine's message to the client.
		h.logger.Warn("probe failed", "url", req.URL, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Download handles POST /download: create a task and hand it to the
// lifecycle workers.
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	task, err := h.service.Submit(ctx, &req)
	if err != nil {
		var verr *errs.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.Error("failed to create task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("task created", "task_id", task.ID, "url", task.URL)

	writeJSON(w, http.StatusOK, domain.SubmitResponse{
		TaskID: task.ID,
		Status: task.Status,
	})
}

// Tasks handles GET /tasks: list the most recent tasks.
func (h *VideoHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListTasks(r.Context())
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// AuthStatus handles GET /auth-status: advisory cookie report.
func (h *VideoHandler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.AuthStatus())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
