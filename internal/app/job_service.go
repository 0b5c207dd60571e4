package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/google/uuid"
)

// PostJobRequest bundles the fields of a new job posting.
type PostJobRequest struct {
	Title        string
	Description  string
	Requirements string
	Location     string
	Industry     string
	Skills       []string
}

// JobService handles job postings and search.
type JobService struct {
	jobs domain.JobRepository
}

func NewJobService(jobs domain.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) Post(ctx context.Context, employerID uuid.UUID, req PostJobRequest) (*domain.Job, error) {
	for field, value := range map[string]string{
		"title":        req.Title,
		"description":  req.Description,
		"requirements": req.Requirements,
		"location":     req.Location,
		"industry":     req.Industry,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}
	if len(req.Skills) == 0 {
		return nil, fmt.Errorf("%w: at least one skill is required", ErrInvalidInput)
	}

	return s.jobs.Create(ctx, &domain.Job{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Industry:     req.Industry,
		Skills:       req.Skills,
		EmployerID:   employerID,
	})
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *JobService) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	return s.jobs.Search(ctx, filter)
}

// Update modifies a job after checking the caller owns it.
func (s *JobService) Update(ctx context.Context, employerID, jobID uuid.UUID, upd domain.JobUpdate) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, ErrNotJobOwner
	}
	return s.jobs.Update(ctx, jobID, upd)
}

// Delete removes a job after checking the caller owns it.
func (s *JobService) Delete(ctx context.Context, employerID, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.EmployerID != employerID {
		return ErrNotJobOwner
	}
	return s.jobs.Delete(ctx, jobID)
}
