package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sekyls/job-recruitment-backend/internal/app"
	"github.com/Sekyls/job-recruitment-backend/internal/auth"
	"github.com/Sekyls/job-recruitment-backend/internal/config"
	"github.com/Sekyls/job-recruitment-backend/internal/domain"
	"github.com/Sekyls/job-recruitment-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

// --- In-memory fakes ---

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.users[created.ID] = &created
	return &created, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[uuid.UUID]*domain.Job)}
}

func (r *memJobRepo) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *job
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.jobs[created.ID] = &created
	return &created, nil
}

func (r *memJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *memJobRepo) Search(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Job, 0)
	for _, job := range r.jobs {
		if filter.Title != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Title)) {
			continue
		}
		result = append(result, *job)
	}
	return result, nil
}

func (r *memJobRepo) Update(ctx context.Context, id uuid.UUID, upd domain.JobUpdate) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if upd.Title != nil {
		job.Title = *upd.Title
	}
	if upd.Skills != nil {
		job.Skills = upd.Skills
	}
	copied := *job
	return &copied, nil
}

func (r *memJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *memJobRepo) IDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0)
	for _, job := range r.jobs {
		if job.EmployerID == employerID {
			ids = append(ids, job.ID)
		}
	}
	return ids, nil
}

type memApplicationRepo struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*domain.Application
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{apps: make(map[uuid.UUID]*domain.Application)}
}

func (r *memApplicationRepo) Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.JobID == jobID && app.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memApplicationRepo) Create(ctx context.Context, application *domain.Application) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == application.JobID && existing.ApplicantID == application.ApplicantID {
			return nil, domain.ErrAlreadyApplied
		}
	}
	created := *application
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.apps[created.ID] = &created
	return &created, nil
}

func (r *memApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *memApplicationRepo) ListByJobIDs(ctx context.Context, jobIDs []uuid.UUID, jobFilter *uuid.UUID) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := make(map[uuid.UUID]bool, len(jobIDs))
	for _, id := range jobIDs {
		allowed[id] = true
	}
	result := make([]domain.Application, 0)
	for _, app := range r.apps {
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

func (r *memApplicationRepo) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Application, 0)
	for _, app := range r.apps {
		if app.ApplicantID == applicantID {
			result = append(result, *app)
		}
	}
	return result, nil
}

func (r *memApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	app.Status = status
	copied := *app
	return &copied, nil
}

// memObjectStore records uploads so tests can check what a failed
// submission left behind.
type memObjectStore struct {
	mu      sync.Mutex
	nextID  int
	objects map[string]bool
	uploads int
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string]bool)}
}

func (s *memObjectStore) Upload(ctx context.Context, content io.Reader, folder, filename string) (*domain.StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.uploads++
	id := fmt.Sprintf("%s/obj-%d", folder, s.nextID)
	s.objects[id] = true
	return &domain.StoredObject{URL: "https://store.example/" + id, StorageID: id}, nil
}

func (s *memObjectStore) Delete(ctx context.Context, storageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageID)
	return nil
}

func (s *memObjectStore) remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *memObjectStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// --- Test server ---

type testEnv struct {
	srv      *Server
	verifier *auth.Verifier
	clock    *clockwork.FakeClock
	users    *memUserRepo
	jobs     *memJobRepo
	apps     *memApplicationRepo
	store    *memObjectStore
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		Port:           "0",
		MaxUploadBytes: config.DefaultMaxUploadBytes,
	}

	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	verifier := auth.NewVerifier(testJWTSecret, time.Hour, clock)

	users := newMemUserRepo()
	jobs := newMemJobRepo()
	apps := newMemApplicationRepo()
	store := newMemObjectStore()

	accounts := app.NewAuthService(users, verifier, clock)
	jobService := app.NewJobService(jobs)
	appService := app.NewApplicationService(apps, jobs, store,
		storage.NewAdmissionPolicy(cfg.MaxUploadBytes), "applications")

	srv := NewServer(cfg, verifier, accounts, jobService, appService, nil, nil, nil, clock)

	return &testEnv{
		srv:      srv,
		verifier: verifier,
		clock:    clock,
		users:    users,
		jobs:     jobs,
		apps:     apps,
		store:    store,
	}
}

// token mints a valid bearer token for a fresh user of the given role.
func (env *testEnv) token(t *testing.T, role domain.Role) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, err := env.verifier.Issue(userID, role)
	require.NoError(t, err)
	return userID, token
}

func (env *testEnv) seedJob(t *testing.T, employerID uuid.UUID) *domain.Job {
	t.Helper()
	job, err := env.jobs.Create(context.Background(), &domain.Job{
		Title:        "Backend Engineer",
		Description:  "Build and run our services.",
		Requirements: "3+ years of Go",
		Location:     "Accra",
		Industry:     "Software",
		Skills:       []string{"go"},
		EmployerID:   employerID,
	})
	require.NoError(t, err)
	return job
}

// doJSON runs a request through the full middleware chain.
func (env *testEnv) doJSON(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) newUserID() string {
	return uuid.New().String()
}

func (env *testEnv) doJSONWithHeader(method, path, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)
	return rec
}

// multipartBody builds a multipart form with a cover letter and files
// given as filename/content pairs.
func multipartBody(t *testing.T, coverLetter string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if coverLetter != "" {
		require.NoError(t, writer.WriteField("coverLetter", coverLetter))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func (env *testEnv) doMultipart(path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)
	return rec
}
