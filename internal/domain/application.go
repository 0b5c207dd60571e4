package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of a job application. Applications
// are created as pending and only move forward through Transitions.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus maps a raw string to a known status.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return ApplicationStatus(s), true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether a reviewing employer may move an
// application from its current status to next. Accepted and rejected are
// final.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusReviewed || next == StatusAccepted || next == StatusRejected
	case StatusReviewed:
		return next == StatusAccepted || next == StatusRejected
	default:
		return false
	}
}

// FileType is the normalized document type tag. It is derived by the
// admission policy from the filename extension, never taken from the
// uploader's content-type claim.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOC  FileType = "doc"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// DocumentRef points at one uploaded document in the object store.
type DocumentRef struct {
	URL       string   `db:"url" json:"url"`
	StorageID string   `db:"storage_id" json:"storageId"`
	FileType  FileType `db:"file_type" json:"fileType"`
}

type Application struct {
	ID          uuid.UUID         `db:"id"`
	JobID       uuid.UUID         `db:"job_id"`
	ApplicantID uuid.UUID         `db:"applicant_id"`
	CoverLetter string            `db:"cover_letter"`
	Documents   []DocumentRef     `db:"-"`
	Status      ApplicationStatus `db:"status"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
}

type ApplicationRepository interface {
	// Exists is the fast-path duplicate pre-check. The UNIQUE
	// (job_id, applicant_id) constraint enforced by Create remains the
	// authoritative guard under concurrency.
	Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error)

	// Create inserts the application together with its document rows.
	// A uniqueness violation surfaces as ErrAlreadyApplied.
	Create(ctx context.Context, app *Application) (*Application, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)

	// ListByJobIDs returns applications for the given job-id set, newest
	// first. jobFilter further restricts the result to a single job.
	ListByJobIDs(ctx context.Context, jobIDs []uuid.UUID, jobFilter *uuid.UUID) ([]Application, error)

	// ListByApplicant returns the applicant's applications, newest first.
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]Application, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus) (*Application, error)
}
