package server

import (
	"net/http"

	"github.com/Sekyls/job-recruitment-backend/internal/app"
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	apperrors "github.com/Sekyls/job-recruitment-backend/internal/errors"
	"github.com/labstack/echo/v4"
)

type postJobRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Location     string   `json:"location"`
	Industry     string   `json:"industry"`
	Skills       []string `json:"skills"`
}

type updateJobRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Requirements *string  `json:"requirements"`
	Location     *string  `json:"location"`
	Industry     *string  `json:"industry"`
	Skills       []string `json:"skills"`
}

func (s *Server) handlePostJob(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req postJobRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	job, err := s.jobs.Post(c.Request().Context(), p.UserID, app.PostJobRequest{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Industry:     req.Industry,
		Skills:       req.Skills,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, toJobResponse(job))
}

func (s *Server) handleSearchJobs(c echo.Context) error {
	jobs, err := s.jobs.Search(c.Request().Context(), domain.JobFilter{
		Title:    c.QueryParam("title"),
		Location: c.QueryParam("location"),
		Industry: c.QueryParam("industry"),
		Skill:    c.QueryParam("skill"),
	})
	if err != nil {
		return mapServiceError(err)
	}

	result := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		result = append(result, toJobResponse(&jobs[i]))
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetJob(c echo.Context) error {
	id, err := pathUUID(c, "jobId")
	if err != nil {
		return err
	}

	job, err := s.jobs.Get(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}

func (s *Server) handleUpdateJob(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := pathUUID(c, "jobId")
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	job, err := s.jobs.Update(c.Request().Context(), p.UserID, id, domain.JobUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Industry:     req.Industry,
		Skills:       req.Skills,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}

func (s *Server) handleDeleteJob(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := pathUUID(c, "jobId")
	if err != nil {
		return err
	}

	if err := s.jobs.Delete(c.Request().Context(), p.UserID, id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
