package server

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Sekyls/job-recruitment-backend/internal/app"
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	apperrors "github.com/Sekyls/job-recruitment-backend/internal/errors"
	"github.com/labstack/echo/v4"
)

// fileField is the multipart field carrying the documents.
const fileField = "file"

func (s *Server) handleApply(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	jobID, err := pathUUID(c, "jobId")
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.ValidationError("request must be multipart/form-data with at least one file")
	}

	coverLetter := c.FormValue("coverLetter")
	files := toUploadedFiles(form.File[fileField])

	application, err := s.apps.Submit(c.Request().Context(), p.UserID, jobID, coverLetter, files)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, toApplicationResponse(application))
}

func toUploadedFiles(headers []*multipart.FileHeader) []app.UploadedFile {
	files := make([]app.UploadedFile, 0, len(headers))
	for _, header := range headers {
		header := header
		files = append(files, app.UploadedFile{
			Filename: header.Filename,
			Size:     header.Size,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		})
	}
	return files
}

func (s *Server) handleEmployerApplications(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	jobID, err := pathUUID(c, "jobId")
	if err != nil {
		return err
	}

	applications, err := s.apps.ListForEmployer(c.Request().Context(), p.UserID, &jobID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, toApplicationResponses(applications))
}

// handleApplicantApplications lists the caller's own applications. The
// path carries a user id for URL compatibility, but the caller's verified
// identity wins: asking for someone else's list is forbidden.
func (s *Server) handleApplicantApplications(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	userID, err := pathUUID(c, "userId")
	if err != nil {
		return err
	}
	if userID != p.UserID {
		return apperrors.ForbiddenError("cannot list another user's applications")
	}

	applications, err := s.apps.ListForApplicant(c.Request().Context(), p.UserID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, toApplicationResponses(applications))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateApplicationStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	applicationID, err := pathUUID(c, "applicationId")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	status, ok := domain.ParseApplicationStatus(req.Status)
	if !ok {
		return apperrors.ValidationError("status must be one of pending, reviewed, accepted, rejected")
	}

	application, err := s.apps.UpdateStatus(c.Request().Context(), p.UserID, applicationID, status)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, toApplicationResponse(application))
}
