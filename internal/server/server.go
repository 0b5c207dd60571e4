package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/app"
	"github.com/Sekyls/job-recruitment-backend/internal/auth"
	"github.com/Sekyls/job-recruitment-backend/internal/config"
	apperrors "github.com/Sekyls/job-recruitment-backend/internal/errors"
	"github.com/Sekyls/job-recruitment-backend/internal/redis"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
)

// postgresHealthChecker is the slice of the pgx pool the readiness probe
// needs.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	verifier  *auth.Verifier
	accounts  *app.AuthService
	jobs      *app.JobService
	apps      *app.ApplicationService
	db        postgresHealthChecker
	redis     *goredis.Client
	limiter   *redis.RateLimiter
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, verifier *auth.Verifier, accounts *app.AuthService, jobs *app.JobService, apps *app.ApplicationService, db postgresHealthChecker, redisClient *goredis.Client, limiter *redis.RateLimiter, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware)
	e.Use(requestLogger)
	e.Use(apperrors.Middleware(!cfg.IsProduction()))

	srv := &Server{
		echo:      e,
		config:    cfg,
		verifier:  verifier,
		accounts:  accounts,
		jobs:      jobs,
		apps:      apps,
		db:        db,
		redis:     redisClient,
		limiter:   limiter,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
