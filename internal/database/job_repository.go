package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = `id, title, description, requirements, location, industry, skills, employer_id, created_at, updated_at`

// JobRepo implements domain.JobRepository backed by PostgreSQL.
type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

var _ domain.JobRepository = (*JobRepo)(nil)

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Description, &job.Requirements,
		&job.Location, &job.Industry, &job.Skills, &job.EmployerID,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepo) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	created, err := scanJob(r.pool.QueryRow(ctx, `
		INSERT INTO jobs (title, description, requirements, location, industry, skills, employer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+jobColumns,
		job.Title, job.Description, job.Requirements, job.Location,
		job.Industry, job.Skills, job.EmployerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}
	return created, nil
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := scanJob(r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return job, nil
}

func (r *JobRepo) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	var conditions []string
	var args []any

	addCondition := func(clause string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.Title != "" {
		addCondition("title ILIKE '%' || ? || '%'", filter.Title)
	}
	if filter.Location != "" {
		addCondition("location ILIKE '%' || ? || '%'", filter.Location)
	}
	if filter.Industry != "" {
		addCondition("industry ILIKE '%' || ? || '%'", filter.Industry)
	}
	if filter.Skill != "" {
		addCondition("? = ANY(skills)", filter.Skill)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("job search iteration failed: %w", err)
	}
	return jobs, nil
}

func (r *JobRepo) Update(ctx context.Context, id uuid.UUID, upd domain.JobUpdate) (*domain.Job, error) {
	job, err := scanJob(r.pool.QueryRow(ctx, `
		UPDATE jobs SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			requirements = COALESCE($4, requirements),
			location = COALESCE($5, location),
			industry = COALESCE($6, industry),
			skills = COALESCE($7, skills),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+jobColumns,
		id, upd.Title, upd.Description, upd.Requirements, upd.Location, upd.Industry, upd.Skills,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepo) IDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM jobs WHERE employer_id = $1`, employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load employer job ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("employer job id iteration failed: %w", err)
	}
	return ids, nil
}
