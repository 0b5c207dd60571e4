package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/Sekyls/job-recruitment-backend/internal/metrics"
	"github.com/Sekyls/job-recruitment-backend/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrNoFiles means the submission carried no documents at all.
	ErrNoFiles = errors.New("no files uploaded")
	// ErrMissingFields means the job id or cover letter is absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrUploadFailed means the object store rejected or lost an upload.
	ErrUploadFailed = errors.New("document upload failed")
	// ErrNotJobOwner means an employer touched an application for a job
	// they do not own.
	ErrNotJobOwner = errors.New("application belongs to another employer's job")
	// ErrInvalidTransition means the requested status change is not
	// allowed from the application's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// UploadedFile is one document from the multipart request. Open hands out
// a fresh reader for the file's content.
type UploadedFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// ApplicationService coordinates application submission and the read
// paths. Submission is all-or-nothing from the caller's perspective: on
// any failure every document already uploaded for that submission is
// deleted again before the error is returned.
type ApplicationService struct {
	apps   domain.ApplicationRepository
	jobs   domain.JobRepository
	store  domain.ObjectStore
	policy storage.AdmissionPolicy
	folder string
}

func NewApplicationService(apps domain.ApplicationRepository, jobs domain.JobRepository, store domain.ObjectStore, policy storage.AdmissionPolicy, folder string) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, store: store, policy: policy, folder: folder}
}

// Submit runs one application submission: validation, duplicate pre-check,
// sequential per-file admission and upload, then record creation.
//
// Files are processed one at a time in caller order so a failure at file k
// only ever needs to undo the known-complete prefix 1..k-1. The duplicate
// pre-check is a fast path; the store's unique constraint is what actually
// guarantees at most one application per (job, applicant) under
// concurrent submissions.
func (s *ApplicationService) Submit(ctx context.Context, applicantID, jobID uuid.UUID, coverLetter string, files []UploadedFile) (*domain.Application, error) {
	if len(files) == 0 {
		metrics.SubmissionsTotal.WithLabelValues("no_files").Inc()
		return nil, ErrNoFiles
	}
	if jobID == uuid.Nil || strings.TrimSpace(coverLetter) == "" {
		metrics.SubmissionsTotal.WithLabelValues("missing_fields").Inc()
		return nil, ErrMissingFields
	}

	exists, err := s.apps.Exists(ctx, jobID, applicantID)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("store_failed").Inc()
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if exists {
		metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrAlreadyApplied
	}

	var uploaded []domain.DocumentRef

	for _, file := range files {
		fileType, err := s.policy.Admit(file.Filename, file.Size)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("rejected_file").Inc()
			s.cleanup(ctx, uploaded)
			return nil, err
		}

		obj, err := s.uploadOne(ctx, file)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("upload_failed").Inc()
			s.cleanup(ctx, uploaded)
			return nil, fmt.Errorf("%w: %s: %v", ErrUploadFailed, file.Filename, err)
		}

		uploaded = append(uploaded, domain.DocumentRef{
			URL:       obj.URL,
			StorageID: obj.StorageID,
			FileType:  fileType,
		})
	}

	created, err := s.apps.Create(ctx, &domain.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		CoverLetter: coverLetter,
		Documents:   uploaded,
		Status:      domain.StatusPending,
	})
	if err != nil {
		// Includes the unique constraint losing a race with a concurrent
		// submission, which surfaces as ErrAlreadyApplied.
		if errors.Is(err, domain.ErrAlreadyApplied) {
			metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.SubmissionsTotal.WithLabelValues("store_failed").Inc()
		}
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	metrics.SubmissionDocuments.Observe(float64(len(created.Documents)))
	return created, nil
}

func (s *ApplicationService) uploadOne(ctx context.Context, file UploadedFile) (*domain.StoredObject, error) {
	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = content.Close() }()

	return s.store.Upload(ctx, content, s.folder, file.Filename)
}

// cleanup deletes every object uploaded so far in this submission. Best
// effort: delete failures are logged and counted, never propagated, so the
// original error stays visible to the caller. Runs detached from the
// request's cancellation so an aborted request still gets cleaned up.
func (s *ApplicationService) cleanup(ctx context.Context, uploaded []domain.DocumentRef) {
	if len(uploaded) == 0 {
		return
	}

	metrics.SubmissionCleanupsTotal.Inc()
	cleanupCtx := context.WithoutCancel(ctx)

	for _, doc := range uploaded {
		if err := s.store.Delete(cleanupCtx, doc.StorageID); err != nil {
			metrics.SubmissionCleanupFailures.Inc()
			slog.Error("Failed to delete uploaded document during cleanup",
				"storage_id", doc.StorageID, "error", err)
		}
	}
}

// ListForEmployer returns applications for the employer's own jobs, newest
// first. The query is always scoped through the employer's job-id set, so
// a job filter outside that set yields nothing rather than leaking another
// employer's applications.
func (s *ApplicationService) ListForEmployer(ctx context.Context, employerID uuid.UUID, jobFilter *uuid.UUID) ([]domain.Application, error) {
	jobIDs, err := s.jobs.IDsByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employer jobs: %w", err)
	}
	if len(jobIDs) == 0 {
		return []domain.Application{}, nil
	}
	return s.apps.ListByJobIDs(ctx, jobIDs, jobFilter)
}

// ListForApplicant returns the applicant's own applications, newest first.
func (s *ApplicationService) ListForApplicant(ctx context.Context, applicantID uuid.UUID) ([]domain.Application, error) {
	return s.apps.ListByApplicant(ctx, applicantID)
}

// UpdateStatus moves an application to a new review status on behalf of
// the employer owning its job. Accepted and rejected are final.
func (s *ApplicationService) UpdateStatus(ctx context.Context, employerID, applicationID uuid.UUID, next domain.ApplicationStatus) (*domain.Application, error) {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job for application: %w", err)
	}
	if job.EmployerID != employerID {
		return nil, ErrNotJobOwner
	}

	if !app.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, app.Status, next)
	}

	return s.apps.UpdateStatus(ctx, applicationID, next)
}
