package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/app"
	"github.com/Sekyls/job-recruitment-backend/internal/config"
	"github.com/Sekyls/job-recruitment-backend/internal/database"
	"github.com/Sekyls/job-recruitment-backend/internal/logging"
	"github.com/Sekyls/job-recruitment-backend/internal/redis"
	"github.com/Sekyls/job-recruitment-backend/internal/server"
	"github.com/Sekyls/job-recruitment-backend/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/Sekyls/job-recruitment-backend/internal/auth"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

// setupRedis connects to Redis when configured. Redis only backs the
// credential rate limiter, so running without it is allowed.
func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	if cfg.RedisURL == "" {
		slog.Warn("REDIS_URL not set, credential rate limiting disabled")
		return nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var limiter *redis.RateLimiter
	if redisClient != nil {
		limiter = redis.NewRateLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.TokenTTL, clock)

	objectStore := storage.NewCloudinaryClient(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, clock)
	policy := storage.NewAdmissionPolicy(cfg.MaxUploadBytes)

	users := database.NewUserRepo(pool)
	jobs := database.NewJobRepo(pool)
	applications := database.NewApplicationRepo(pool)

	accounts := app.NewAuthService(users, verifier, clock)
	jobService := app.NewJobService(jobs)
	applicationService := app.NewApplicationService(applications, jobs, objectStore, policy, cfg.CloudinaryFolder)

	srv := server.NewServer(cfg, verifier, accounts, jobService, applicationService, pool, redisClient, limiter, clock)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Application stopped")
}
