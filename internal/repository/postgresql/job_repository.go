package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"social-automation-service/internal/entity"
	"social-automation-service/internal/repository"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	const q = `
INSERT INTO jobs (id, user_id, status, type, prompt, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.pool.Exec(ctx, q,
		job.ID,
		job.UserID,
		string(job.Status),
		job.Type,
		job.Prompt,
		job.CreatedAt,
	)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	const q = `
SELECT id, user_id, status, type, prompt, created_at
FROM jobs
WHERE id = $1;
`

	var (
		job        entity.Job
		statusText string
	)

	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&job.ID,
		&job.UserID,
		&statusText,
		&job.Type,
		&job.Prompt,
		&job.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	job.Status = entity.JobStatus(statusText)
	job.CreatedAt = job.CreatedAt.UTC()

	return &job, nil
}
