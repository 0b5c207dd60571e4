package server

import (
	"errors"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/app"
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	apperrors "github.com/Sekyls/job-recruitment-backend/internal/errors"
	"github.com/Sekyls/job-recruitment-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// mapServiceError translates service and domain errors into structured
// errors so the error middleware picks the right status code.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, app.ErrNoFiles),
		errors.Is(err, app.ErrMissingFields),
		errors.Is(err, app.ErrInvalidTransition),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrFileTooLarge):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		return apperrors.UnauthorizedError(err.Error())
	case errors.Is(err, app.ErrNotJobOwner):
		return apperrors.ForbiddenError(err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrApplicationNotFound):
		return apperrors.NotFoundError(err.Error())
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAlreadyApplied):
		return apperrors.ConflictError(err.Error())
	case errors.Is(err, app.ErrUploadFailed):
		return apperrors.ExternalError("document upload failed", err)
	default:
		return apperrors.InternalError("internal server error", err)
	}
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid " + name + " in path")
	}
	return id, nil
}

// Response DTOs. The password hash and the raw storage ids of other
// people's documents never leave the service.

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		DateOfBirth: u.DateOfBirth,
		CreatedAt:   u.CreatedAt,
	}
}

type jobResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location"`
	Industry     string    `json:"industry"`
	Skills       []string  `json:"skills"`
	EmployerID   uuid.UUID `json:"employerId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Description:  j.Description,
		Requirements: j.Requirements,
		Location:     j.Location,
		Industry:     j.Industry,
		Skills:       j.Skills,
		EmployerID:   j.EmployerID,
		CreatedAt:    j.CreatedAt,
	}
}

type applicationResponse struct {
	ID          uuid.UUID            `json:"id"`
	JobID       uuid.UUID            `json:"jobId"`
	ApplicantID uuid.UUID            `json:"applicantId"`
	CoverLetter string               `json:"coverLetter"`
	Documents   []domain.DocumentRef `json:"documents"`
	Status      string               `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func toApplicationResponse(a *domain.Application) applicationResponse {
	return applicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		CoverLetter: a.CoverLetter,
		Documents:   a.Documents,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

func toApplicationResponses(apps []domain.Application) []applicationResponse {
	result := make([]applicationResponse, 0, len(apps))
	for i := range apps {
		result = append(result, toApplicationResponse(&apps[i]))
	}
	return result
}
