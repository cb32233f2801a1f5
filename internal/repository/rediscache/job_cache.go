package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"social-automation-service/internal/entity"
)

// JobStore mirrors service.JobStore; keep the two method sets identical.
type JobStore interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
}

// JobCache is a read-through cache in front of a JobStore. The automation
// backend advances job status after creation, so only jobs in a terminal
// status are cached; pending and processing rows are always read from the store.
// Redis failures are logged and fall back to the underlying store.
type JobCache struct {
	next   JobStore
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewJobCache(next JobStore, rdb redis.Cmdable, prefix string, ttl time.Duration, logger *slog.Logger) *JobCache {
	if prefix == "" {
		prefix = "jobs:"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JobCache{next: next, rdb: rdb, prefix: prefix, ttl: ttl, logger: logger}
}

func (c *JobCache) key(id string) string {
	return c.prefix + id
}

func (c *JobCache) Create(ctx context.Context, job *entity.Job) error {
	return c.next.Create(ctx, job)
}

func (c *JobCache) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var job entity.Job
		if uErr := json.Unmarshal(raw, &job); uErr == nil && job.Status.Terminal() {
			return &job, nil
		}
		c.logger.WarnContext(ctx, "job cache: bad entry", slog.String("job_id", id))
	case errors.Is(err, redis.Nil):
		// miss
	default:
		c.logger.WarnContext(ctx, "job cache: get failed",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
	}

	job, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		c.set(ctx, job)
	}
	return job, nil
}

func (c *JobCache) set(ctx context.Context, job *entity.Job) {
	raw, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(job.ID), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "job cache: set failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	}
}
