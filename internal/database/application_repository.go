package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `id, job_id, applicant_id, cover_letter, status, created_at, updated_at`

// ApplicationRepo implements domain.ApplicationRepository backed by
// PostgreSQL. The application row and its document rows are written in one
// transaction so a stored application always carries its documents.
type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

var _ domain.ApplicationRepository = (*ApplicationRepo)(nil)

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID, &app.JobID, &app.ApplicantID, &app.CoverLetter,
		&app.Status, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepo) Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, applicantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing application: %w", err)
	}
	return exists, nil
}

func (r *ApplicationRepo) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

	created, err := scanApplication(tx.QueryRow(ctx, `
		INSERT INTO applications (job_id, applicant_id, cover_letter, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+applicationColumns,
		app.JobID, app.ApplicantID, app.CoverLetter, app.Status,
	))
	if isUniqueViolation(err) {
		return nil, domain.ErrAlreadyApplied
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}

	for _, doc := range app.Documents {
		_, err := tx.Exec(ctx, `
			INSERT INTO application_documents (application_id, url, storage_id, file_type)
			VALUES ($1, $2, $3, $4)`,
			created.ID, doc.URL, doc.StorageID, doc.FileType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert application document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit application: %w", err)
	}

	created.Documents = app.Documents
	return created, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	apps := []domain.Application{*app}
	if err := r.attachDocuments(ctx, apps); err != nil {
		return nil, err
	}
	return &apps[0], nil
}

func (r *ApplicationRepo) ListByJobIDs(ctx context.Context, jobIDs []uuid.UUID, jobFilter *uuid.UUID) ([]domain.Application, error) {
	if len(jobIDs) == 0 {
		return []domain.Application{}, nil
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = ANY($1)`
	args := []any{jobIDs}
	if jobFilter != nil {
		query += ` AND job_id = $2`
		args = append(args, *jobFilter)
	}
	query += ` ORDER BY created_at DESC`

	return r.list(ctx, query, args...)
}

func (r *ApplicationRepo) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]domain.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE applicant_id = $1 ORDER BY created_at DESC`,
		applicantID,
	)
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, `
		UPDATE applications SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+applicationColumns,
		id, status,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	apps := []domain.Application{*app}
	if err := r.attachDocuments(ctx, apps); err != nil {
		return nil, err
	}
	return &apps[0], nil
}

func (r *ApplicationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("application list iteration failed: %w", err)
	}

	if err := r.attachDocuments(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// attachDocuments loads the document rows for all given applications in
// one query and fills the Documents slices in place.
func (r *ApplicationRepo) attachDocuments(ctx context.Context, apps []domain.Application) error {
	if len(apps) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(apps))
	index := make(map[uuid.UUID]*domain.Application, len(apps))
	for i := range apps {
		ids[i] = apps[i].ID
		index[apps[i].ID] = &apps[i]
	}

	rows, err := r.pool.Query(ctx, `
		SELECT application_id, url, storage_id, file_type
		FROM application_documents
		WHERE application_id = ANY($1)
		ORDER BY id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load application documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var appID uuid.UUID
		var doc domain.DocumentRef
		if err := rows.Scan(&appID, &doc.URL, &doc.StorageID, &doc.FileType); err != nil {
			return fmt.Errorf("failed to scan document row: %w", err)
		}
		if app, ok := index[appID]; ok {
			app.Documents = append(app.Documents, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("document iteration failed: %w", err)
	}
	return nil
}
