package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID           uuid.UUID `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Requirements string    `db:"requirements"`
	Location     string    `db:"location"`
	Industry     string    `db:"industry"`
	Skills       []string  `db:"skills"`
	EmployerID   uuid.UUID `db:"employer_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// JobFilter carries the optional search filters. Empty fields match
// everything.
type JobFilter struct {
	Title    string
	Location string
	Industry string
	Skill    string
}

// JobUpdate carries the mutable job fields for an update. Nil fields are
// left unchanged.
type JobUpdate struct {
	Title        *string
	Description  *string
	Requirements *string
	Location     *string
	Industry     *string
	Skills       []string
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) (*Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	Search(ctx context.Context, filter JobFilter) ([]Job, error)
	Update(ctx context.Context, id uuid.UUID, upd JobUpdate) (*Job, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// IDsByEmployer resolves the set of job ids owned by an employer.
	// The employer-facing application queries are always scoped through
	// this set.
	IDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error)
}
