// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "social-automation-service/docs"
	"social-automation-service/internal/config"
	"social-automation-service/internal/repository/postgresql"
	"social-automation-service/internal/repository/rediscache"
	"social-automation-service/internal/service"
	httptransport "social-automation-service/internal/transport/http"
	"social-automation-service/internal/webhook"
)

// @title Social Automation API
// @version 1.0
// @description Submits AI content jobs to the automation webhook and tracks them.
// @BasePath /
func main() {
	// .env is optional; real deployments set the environment directly
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file loaded", slog.String("error", envErr.Error()))
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres
	pool, err := postgresql.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Error("failed to connect to postgres",
			slog.String("dsn", config.RedactDSN(cfg.Postgres.DSN)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer pool.Close()

	// DI
	var jobs service.JobStore = postgresql.NewJobRepository(pool)

	// Redis (optional job cache)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", slog.String("addr", cfg.Redis.Addr), slog.String("error", err.Error()))
			os.Exit(1)
		}
		jobs = rediscache.NewJobCache(jobs, rdb, cfg.Redis.JobPrefix, cfg.Redis.JobCacheTTL, logger)
		logger.Info("job cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.JobCacheTTL))
	}

	client := service.NewAutomationClient(service.AutomationClientConfig{
		Credentials: postgresql.NewCredentialRepository(pool),
		Jobs:        jobs,
		Webhook:     webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.APIKey, cfg.Webhook.Timeout),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httptransport.Routes(httptransport.NewHandler(client), logger),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("starting server",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("postgres_dsn", config.RedactDSN(cfg.Postgres.DSN)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	logger.Info("server exited")
}
