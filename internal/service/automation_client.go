package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"social-automation-service/internal/entity"
	"social-automation-service/internal/repository"
)

// Credential store port (implementations: postgresql.CredentialRepository, sqlite.Store).
// Returns repository.ErrNotFound when no row exists for the pair.
type CredentialStore interface {
	GetCredentials(ctx context.Context, userID string, platform entity.Platform) (*entity.Credentials, error)
}

// Job store port (implementations: postgresql.JobRepository, sqlite.Store, rediscache.JobCache).
type JobStore interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
}

// WebhookSubmitter posts a payload to the automation webhook and returns the remote job id.
type WebhookSubmitter interface {
	Submit(ctx context.Context, payload entity.SubmissionPayload) (string, error)
}

type TokenRefresher interface {
	Refresh(ctx context.Context, userID string, platform entity.Platform, refreshToken string) error
}

type AutomationClientConfig struct {
	Credentials CredentialStore
	Jobs        JobStore
	Webhook     WebhookSubmitter
	Refresher   TokenRefresher // default: LogRefresher
	Logger      *slog.Logger   // default: slog.Default()
	Now         func() time.Time
}

type AutomationClient struct {
	credentials CredentialStore
	jobs        JobStore
	webhook     WebhookSubmitter
	refresher   TokenRefresher
	logger      *slog.Logger
	now         func() time.Time
}

func NewAutomationClient(cfg AutomationClientConfig) *AutomationClient {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Refresher == nil {
		cfg.Refresher = NewLogRefresher(cfg.Logger)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AutomationClient{
		credentials: cfg.Credentials,
		jobs:        cfg.Jobs,
		webhook:     cfg.Webhook,
		refresher:   cfg.Refresher,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}
}

type CreateJobResult struct {
	Success bool             `json:"success"`
	JobID   string           `json:"jobId"`
	Status  entity.JobStatus `json:"status"`
}

// CreateJob validates the request, resolves credentials, submits the payload
// to the webhook and records the job as pending. Steps run strictly in that
// order; a failure after submission leaves the remote job unrecorded.
func (c *AutomationClient) CreateJob(ctx context.Context, req CreateJobRequest) (*CreateJobResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	platform := entity.Platform(req.Platform)

	log := c.logger.With(
		slog.String("user_id", req.UserID),
		slog.String("platform", req.Platform),
		slog.String("type", req.Type),
	)

	creds, err := c.resolveCredentials(ctx, log, req.UserID, platform)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	jobID, err := c.webhook.Submit(ctx, entity.SubmissionPayload{
		UserID:       req.UserID,
		Prompt:       req.Prompt,
		Platform:     platform,
		Caption:      req.Caption,
		AccessToken:  creds.AccessToken,
		ScheduleTime: req.ScheduleTime,
	})
	if err == nil && jobID == "" {
		err = errors.New("response has no jobId")
	}
	if err != nil {
		log.ErrorContext(ctx, "webhook submission failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("create job: %w: %w", ErrSubmission, err)
	}

	job := &entity.Job{
		ID:        jobID,
		UserID:    req.UserID,
		Status:    entity.StatusPending,
		Type:      req.Type,
		Prompt:    req.Prompt,
		CreatedAt: c.now().UTC(),
	}
	if err := c.jobs.Create(ctx, job); err != nil {
		// the remote job already exists at this point
		log.ErrorContext(ctx, "store job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("create job: %w: %w", ErrPersistence, err)
	}

	log.InfoContext(ctx, "job created", slog.String("job_id", jobID))

	return &CreateJobResult{Success: true, JobID: jobID, Status: entity.StatusPending}, nil
}

// resolveCredentials reads the credentials and, if expired, refreshes and
// reads them exactly once more.
func (c *AutomationClient) resolveCredentials(ctx context.Context, log *slog.Logger, userID string, platform entity.Platform) (*entity.Credentials, error) {
	creds, err := c.readCredentials(ctx, log, userID, platform)
	if err != nil {
		return nil, err
	}
	if !creds.Expired(c.now()) {
		return creds, nil
	}

	log.InfoContext(ctx, "credentials expired, refreshing")
	if err := c.refresher.Refresh(ctx, userID, platform, creds.RefreshToken); err != nil {
		log.ErrorContext(ctx, "token refresh failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrTokenRefresh, err)
	}

	creds, err = c.readCredentials(ctx, log, userID, platform)
	if err != nil {
		return nil, err
	}
	if creds.Expired(c.now()) {
		log.ErrorContext(ctx, "credentials still expired after refresh",
			slog.Time("expires_at", *creds.ExpiresAt),
		)
		return nil, fmt.Errorf("%w: user %s on %s", ErrCredentialsExpired, userID, platform)
	}
	return creds, nil
}

func (c *AutomationClient) readCredentials(ctx context.Context, log *slog.Logger, userID string, platform entity.Platform) (*entity.Credentials, error) {
	creds, err := c.credentials.GetCredentials(ctx, userID, platform)
	if errors.Is(err, repository.ErrNotFound) {
		log.ErrorContext(ctx, "no credentials found")
		return nil, fmt.Errorf("%w: no credentials for user %s on %s", ErrCredentialsNotFound, userID, platform)
	}
	if err != nil {
		log.ErrorContext(ctx, "get credentials failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	return creds, nil
}

// GetJobStatus returns the stored job. It never writes.
func (c *AutomationClient) GetJobStatus(ctx context.Context, jobID string) (*entity.Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("get job status: %w: empty id", ErrJobNotFound)
	}

	job, err := c.jobs.GetByID(ctx, jobID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get job status: %w: %s", ErrJobNotFound, jobID)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "get job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("get job status: %w", err)
	}
	return job, nil
}
