package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/google/uuid"
)

// fakeObjectStore records uploads and deletes so tests can assert what a
// submission left behind.
type fakeObjectStore struct {
	mu        sync.Mutex
	uploads   []string // filenames in upload order
	objects   map[string]bool
	nextID    int
	failAfter int // fail uploads once this many succeeded; -1 disables
	deleteErr error
	deleted   []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]bool), failAfter: -1}
}

func (f *fakeObjectStore) Upload(ctx context.Context, content io.Reader, folder, filename string) (*domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAfter >= 0 && len(f.uploads) >= f.failAfter {
		return nil, fmt.Errorf("store unavailable")
	}

	f.nextID++
	id := fmt.Sprintf("%s/obj-%d", folder, f.nextID)
	f.uploads = append(f.uploads, filename)
	f.objects[id] = true
	return &domain.StoredObject{URL: "https://store.example/" + id, StorageID: id}, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, storageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, storageID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, storageID)
	return nil
}

func (f *fakeObjectStore) remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeApplicationRepo keeps applications in memory and enforces the
// (job, applicant) uniqueness the real store's constraint provides.
type fakeApplicationRepo struct {
	mu        sync.Mutex
	apps      map[uuid.UUID]*domain.Application
	createErr error
	existsErr error
	// skipPrecheck makes Exists always report false, simulating the race
	// where two submissions both pass the pre-check.
	skipPrecheck bool
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[uuid.UUID]*domain.Application)}
}

func (f *fakeApplicationRepo) Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.skipPrecheck {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(jobID, applicantID) != nil, nil
}

func (f *fakeApplicationRepo) find(jobID, applicantID uuid.UUID) *domain.Application {
	for _, app := range f.apps {
		if app.JobID == jobID && app.ApplicantID == applicantID {
			return app
		}
	}
	return nil
}

func (f *fakeApplicationRepo) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.find(app.JobID, app.ApplicantID) != nil {
		return nil, domain.ErrAlreadyApplied
	}

	created := *app
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.apps[created.ID] = &created
	return &created, nil
}

func (f *fakeApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (f *fakeApplicationRepo) ListByJobIDs(ctx context.Context, jobIDs []uuid.UUID, jobFilter *uuid.UUID) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	allowed := make(map[uuid.UUID]bool, len(jobIDs))
	for _, id := range jobIDs {
		allowed[id] = true
	}

	result := make([]domain.Application, 0)
	for _, app := range f.apps {
		if !allowed[app.JobID] {
			continue
		}
		if jobFilter != nil && app.JobID != *jobFilter {
			continue
		}
		result = append(result, *app)
	}
	return result, nil
}

func (f *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]domain.Application, 0)
	for _, app := range f.apps {
		if app.ApplicantID == applicantID {
			result = append(result, *app)
		}
	}
	return result, nil
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	app, ok := f.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	app.Status = status
	copied := *app
	return &copied, nil
}

func (f *fakeApplicationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.apps)
}

// fakeJobRepo serves jobs from a fixed map.
type fakeJobRepo struct {
	jobs map[uuid.UUID]*domain.Job
}

func newFakeJobRepo(jobs ...*domain.Job) *fakeJobRepo {
	m := make(map[uuid.UUID]*domain.Job, len(jobs))
	for _, job := range jobs {
		m[job.ID] = job
	}
	return &fakeJobRepo{jobs: m}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	created := *job
	created.ID = uuid.New()
	f.jobs[created.ID] = &created
	return &created, nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	result := make([]domain.Job, 0)
	for _, job := range f.jobs {
		if filter.Title != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Title)) {
			continue
		}
		result = append(result, *job)
	}
	return result, nil
}

func (f *fakeJobRepo) Update(ctx context.Context, id uuid.UUID, upd domain.JobUpdate) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if upd.Title != nil {
		job.Title = *upd.Title
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobRepo) IDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	for _, job := range f.jobs {
		if job.EmployerID == employerID {
			ids = append(ids, job.ID)
		}
	}
	return ids, nil
}

// fakeUserRepo keeps users in memory with a unique email check.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}

	created := *user
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.users[created.ID] = &created
	return &created, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// textFile builds an UploadedFile with in-memory content.
func textFile(name, content string) UploadedFile {
	return UploadedFile{
		Filename: name,
		Size:     int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}
