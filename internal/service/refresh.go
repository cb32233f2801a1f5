package service

import (
	"context"
	"log/slog"

	"social-automation-service/internal/entity"
)

// LogRefresher records refresh attempts without contacting the platform.
// Token exchange differs per platform and is not wired yet, so expired
// credentials stay expired and CreateJob reports ErrCredentialsExpired.
type LogRefresher struct {
	logger *slog.Logger
}

func NewLogRefresher(logger *slog.Logger) *LogRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRefresher{logger: logger}
}

func (r *LogRefresher) Refresh(ctx context.Context, userID string, platform entity.Platform, refreshToken string) error {
	r.logger.InfoContext(ctx, "refreshing token",
		slog.String("user_id", userID),
		slog.String("platform", string(platform)),
		slog.Bool("has_refresh_token", refreshToken != ""),
	)
	return nil
}
