package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/hh-vacancies/internal/job"
	"github.com/maauso/hh-vacancies/internal/storage"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service            *job.HarvestService
	validator          *validator.Validate
	logger             *slog.Logger
	enableAsyncProcess bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithAsyncProcessing enables or disables background processing.
// When disabled, CreateHarvest only queues the job and returns immediately
// without starting the harvest.
func WithAsyncProcessing(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.enableAsyncProcess = enabled
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *job.HarvestService, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:            service,
		validator:          validator.New(),
		logger:             logger,
		enableAsyncProcess: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CreateHarvest handles POST /harvests requests.
func (h *Handlers) CreateHarvest(w http.ResponseWriter, r *http.Request) {
	var req CreateHarvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	createdJob, err := h.service.CreateJob(r.Context(), req.Keyword)
	if err != nil {
		h.logger.Error("failed to create job",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create job", "JOB_CREATION_FAILED")
		return
	}

	// The harvest outlives the request.
	if h.enableAsyncProcess {
		go func(ctx context.Context, jobID string) {
			_, processErr := h.service.ProcessExistingJob(ctx, jobID)
			if processErr != nil {
				h.logger.Error("background harvest failed",
					slog.String("job_id", jobID),
					slog.String("error", processErr.Error()),
				)
			}
		}(context.WithoutCancel(r.Context()), createdJob.ID)
	}

	writeJSON(w, http.StatusAccepted, CreateHarvestResponse{
		ID:     createdJob.ID,
		Status: string(createdJob.Status),
	})
}

// GetHarvest handles GET /harvests/{id} requests.
func (h *Handlers) GetHarvest(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job ID is required", "MISSING_JOB_ID")
		return
	}

	foundJob, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get job", "JOB_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(foundJob))
}

// ListHarvests handles GET /harvests requests.
func (h *Handlers) ListHarvests(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("failed to list jobs",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list jobs", "JOB_FETCH_FAILED")
		return
	}

	resp := JobListResponse{Jobs: make([]JobResponse, 0, len(jobs))}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, toJobResponse(j))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetVacancies handles GET /vacancies requests. The body is the stored
// document: a JSON array of records.
func (h *Handlers) GetVacancies(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Vacancies(r.Context())
	if err != nil {
		h.writeStorageError(w, "load", err)
		return
	}

	writeJSON(w, http.StatusOK, records.NonNil())
}

// DeleteVacancies handles DELETE /vacancies requests.
func (h *Handlers) DeleteVacancies(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVacancies(r.Context()); err != nil {
		h.writeStorageError(w, "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeStorageError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "vacancy document not found", "DOCUMENT_NOT_FOUND")
	case errors.Is(err, storage.ErrParse):
		h.logger.Error("stored document is corrupt",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "vacancy document is corrupt", "DOCUMENT_CORRUPT")
	default:
		h.logger.Error("document store failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to "+op+" vacancy document", "DOCUMENT_STORE_FAILED")
	}
}

func toJobResponse(j *job.Job) JobResponse {
	return JobResponse{
		ID:          j.ID,
		Keyword:     j.Keyword,
		Status:      string(j.Status),
		Records:     j.Records,
		Error:       j.Error,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		StartedAt:   optionalTime(j.StartedAt),
		CompletedAt: optionalTime(j.CompletedAt),
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
