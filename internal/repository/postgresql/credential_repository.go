package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"social-automation-service/internal/entity"
	"social-automation-service/internal/repository"
)

// CredentialRepository reads user_credentials. Rows are written by the
// account-linking flow elsewhere; this service only reads them.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

func (r *CredentialRepository) GetCredentials(ctx context.Context, userID string, platform entity.Platform) (*entity.Credentials, error) {
	const q = `
SELECT access_token, refresh_token, expires_at
FROM user_credentials
WHERE user_id = $1 AND provider = $2
LIMIT 1;
`

	var (
		creds     entity.Credentials
		refresh   *string    // NULL => ""
		expiresAt *time.Time // NULL => never expires
	)

	if err := r.pool.QueryRow(ctx, q, userID, string(platform)).Scan(
		&creds.AccessToken,
		&refresh,
		&expiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if refresh != nil {
		creds.RefreshToken = *refresh
	}
	creds.ExpiresAt = expiresAt

	return &creds, nil
}
