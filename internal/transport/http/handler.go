package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"social-automation-service/internal/entity"
	"social-automation-service/internal/service"
)

// AutomationService is implemented by *service.AutomationClient.
type AutomationService interface {
	CreateJob(ctx context.Context, req service.CreateJobRequest) (*service.CreateJobResult, error)
	GetJobStatus(ctx context.Context, jobID string) (*entity.Job, error)
}

type Handler struct {
	svc AutomationService
}

func NewHandler(svc AutomationService) *Handler {
	return &Handler{svc: svc}
}

// maxRequestBody bounds POST /jobs; a prompt is at most 1000 characters.
const maxRequestBody = 64 << 10

type createJobDTO struct {
	UserID       string     `json:"userId"`
	Prompt       string     `json:"prompt"`
	Platform     string     `json:"platform"` // instagram|twitter|linkedin|tiktok
	Type         string     `json:"type"`
	Caption      *string    `json:"caption,omitempty"`
	ScheduleTime *time.Time `json:"scheduleTime,omitempty"`
}

type createJobResp struct {
	Success bool             `json:"success"`
	JobID   string           `json:"jobId"`
	Status  entity.JobStatus `json:"status"`
}

type jobResp struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Status    entity.JobStatus `json:"status"`
	Type      string           `json:"type"`
	Prompt    string           `json:"prompt"`
	CreatedAt string           `json:"created_at"`
}

// CreateJob godoc
// @Summary Create an automation job
// @Description Validates the request, resolves the user's platform credentials, submits the job to the automation webhook and records it as pending.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body createJobDTO true "job request"
// @Success 201 {object} createJobResp
// @Failure 400 {object} apiError
// @Failure 413 {object} apiError
// @Failure 422 {object} apiError
// @Failure 502 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs [post]
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var dto createJobDTO
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.svc.CreateJob(r.Context(), service.CreateJobRequest{
		UserID:       dto.UserID,
		Prompt:       dto.Prompt,
		Platform:     dto.Platform,
		Type:         dto.Type,
		Caption:      dto.Caption,
		ScheduleTime: dto.ScheduleTime,
	})
	if err != nil {
		status, msg := mapServiceError(err)
		writeErr(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, createJobResp{
		Success: res.Success,
		JobID:   res.JobID,
		Status:  res.Status,
	})
}

// GetJob godoc
// @Summary Get job status by id
// @Tags jobs
// @Produce json
// @Param id path string true "job id (assigned by the webhook)"
// @Success 200 {object} jobResp
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /jobs/{id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	j, err := h.svc.GetJobStatus(r.Context(), id)
	if err != nil {
		status, msg := mapServiceError(err)
		writeErr(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, jobResp{
		ID:        j.ID,
		UserID:    j.UserID,
		Status:    j.Status,
		Type:      j.Type,
		Prompt:    j.Prompt,
		CreatedAt: j.CreatedAt.UTC().Format(time.RFC3339),
	})
}
