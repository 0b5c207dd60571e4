package server

import (
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	// Credential endpoints (rate limited, no auth)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister, s.rateLimit)
	authGroup.POST("/login", s.handleLogin, s.rateLimit)

	// Job postings: reads are public, writes are employer-only
	jobs := api.Group("/jobs")
	jobs.GET("/search", s.handleSearchJobs)
	jobs.GET("/:jobId", s.handleGetJob)
	jobs.POST("/post-job", s.handlePostJob, s.requireAuth, s.requireRole(domain.RoleEmployer))
	jobs.PUT("/:jobId", s.handleUpdateJob, s.requireAuth, s.requireRole(domain.RoleEmployer))
	jobs.DELETE("/:jobId", s.handleDeleteJob, s.requireAuth, s.requireRole(domain.RoleEmployer))

	// Applications: verification always runs before the role gate, so a
	// bad token is reported as 401 even when the role would not match.
	apps := api.Group("/applications")
	apps.POST("/apply/:jobId", s.handleApply, s.requireAuth, s.requireRole(domain.RoleSeeker))
	apps.GET("/employer/applications/:jobId", s.handleEmployerApplications, s.requireAuth, s.requireRole(domain.RoleEmployer))
	apps.GET("/user/applications/:userId", s.handleApplicantApplications, s.requireAuth, s.requireRole(domain.RoleSeeker))
	apps.PATCH("/:applicationId/status", s.handleUpdateApplicationStatus, s.requireAuth, s.requireRole(domain.RoleEmployer))
}
