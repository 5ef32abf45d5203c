package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
)

// In-memory repositories backing the service tests. All of them are
// mutex-guarded because the evaluator tests hit them from worker goroutines.

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*models.Application

	// jobOwner resolves job ownership for ListByRecruiter without a join.
	jobOwner func(jobID uuid.UUID) uuid.UUID
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[uuid.UUID]*models.Application)}
}

func (r *fakeApplicationRepo) CreateUnique(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.apps {
		if existing.StudentID == app.StudentID && existing.JobID == app.JobID &&
			existing.Status != models.StatusWithdrawn {
			return apperrors.Conflict("an application for this job already exists")
		}
	}
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, apperrors.NotFound("application")
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Application
	for _, app := range r.apps {
		if app.StudentID == studentID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Application
	for _, app := range r.apps {
		if app.JobID == jobID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByRecruiter(_ context.Context, recruiterID uuid.UUID) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Application
	for _, app := range r.apps {
		if r.jobOwner != nil && r.jobOwner(app.JobID) == recruiterID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByStatus(_ context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Application
	for _, app := range r.apps {
		if app.Status == status {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountByJob(_ context.Context, jobID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, app := range r.apps {
		if app.JobID == jobID && app.Status != models.StatusWithdrawn {
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicationRepo) UpdateDecision(_ context.Context, id uuid.UUID, status models.ApplicationStatus, feedback string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return apperrors.NotFound("application")
	}
	app.Status = status
	if feedback != "" {
		app.Feedback = &feedback
	}
	return nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return apperrors.NotFound("application")
	}
	app.Status = status
	return nil
}

func (r *fakeApplicationRepo) UpdateEvaluation(_ context.Context, id uuid.UUID, result *models.EvaluationResult, markReviewed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return apperrors.NotFound("application")
	}
	score := result.Score
	feedback := result.Feedback
	strengths := result.Strengths
	weaknesses := result.Weaknesses
	app.Score = &score
	app.Feedback = &feedback
	app.Strengths = &strengths
	app.Weaknesses = &weaknesses
	if markReviewed && app.Status == models.StatusPending {
		app.Status = models.StatusReviewed
	}
	return nil
}

func (r *fakeApplicationRepo) put(app *models.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *app
	r.apps[app.ID] = &clone
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*models.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, apperrors.NotFound("job")
	}
	clone := *job
	return &clone, nil
}

func (r *fakeJobRepo) ListActive(_ context.Context, offset, limit int) ([]models.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Job
	for _, job := range r.jobs {
		if job.IsActive {
			out = append(out, *job)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeJobRepo) ListByRecruiter(_ context.Context, recruiterID uuid.UUID) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Job
	for _, job := range r.jobs {
		if job.RecruiterID == recruiterID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) UpdateActive(_ context.Context, id uuid.UUID, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return apperrors.NotFound("job")
	}
	job.IsActive = isActive
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return apperrors.NotFound("job")
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) CountActiveByRecruiter(_ context.Context, recruiterID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, job := range r.jobs {
		if job.RecruiterID == recruiterID && job.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeCVRepo struct {
	mu  sync.Mutex
	cvs map[uuid.UUID]*models.CV
}

func newFakeCVRepo() *fakeCVRepo {
	return &fakeCVRepo{cvs: make(map[uuid.UUID]*models.CV)}
}

func (r *fakeCVRepo) CreateWithinCap(_ context.Context, cv *models.CV, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, existing := range r.cvs {
		if existing.StudentID == cv.StudentID {
			count++
		}
	}
	if count >= limit {
		return apperrors.Conflict(fmt.Sprintf("maximum %d CVs allowed per student", limit))
	}

	clone := *cv
	r.cvs[cv.ID] = &clone
	return nil
}

func (r *fakeCVRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cv, ok := r.cvs[id]
	if !ok {
		return nil, apperrors.NotFound("cv")
	}
	clone := *cv
	return &clone, nil
}

func (r *fakeCVRepo) FindForStudent(_ context.Context, id, studentID uuid.UUID) (*models.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cv, ok := r.cvs[id]
	if !ok || cv.StudentID != studentID {
		return nil, apperrors.NotFound("cv")
	}
	clone := *cv
	return &clone, nil
}

func (r *fakeCVRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]models.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.CV
	for _, cv := range r.cvs {
		if cv.StudentID == studentID {
			out = append(out, *cv)
		}
	}
	return out, nil
}

func (r *fakeCVRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cvs[id]; !ok {
		return apperrors.NotFound("cv")
	}
	delete(r.cvs, id)
	return nil
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results map[string]*models.EvaluationResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[string]*models.EvaluationResult)}
}

func (r *fakeResultRepo) FindByFingerprint(_ context.Context, fingerprint string) (*models.EvaluationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, ok := r.results[fingerprint]
	if !ok {
		return nil, nil
	}
	clone := *result
	return &clone, nil
}

func (r *fakeResultRepo) Save(_ context.Context, result *models.EvaluationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[result.Fingerprint]; ok {
		return nil
	}
	clone := *result
	r.results[result.Fingerprint] = &clone
	return nil
}

// stubScoring counts calls and can be told to fail for chosen CV texts.
type stubScoring struct {
	mu      sync.Mutex
	calls   int
	report  ScoreReport
	failFor map[string]error
}

func newStubScoring(score float64) *stubScoring {
	return &stubScoring{
		report: ScoreReport{
			Score:      score,
			Feedback:   "solid candidate",
			Strengths:  "relevant experience",
			Weaknesses: "limited production exposure",
		},
		failFor: make(map[string]error),
	}
}

func (s *stubScoring) Evaluate(_ context.Context, _ *models.Job, cvText string) (*ScoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if err, ok := s.failFor[cvText]; ok {
		return nil, err
	}
	report := s.report
	return &report, nil
}

func (s *stubScoring) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeStorage keeps blobs in memory and records deletes.
type fakeStorage struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
	seq     int
	failOps bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string][]byte)}
}

func (s *fakeStorage) Store(content []byte, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOps {
		return "", apperrors.Storage("store failed", nil)
	}
	s.seq++
	reference := fmt.Sprintf("%s_%d.pdf", prefix, s.seq)
	s.blobs[reference] = content
	return reference, nil
}

func (s *fakeStorage) Path(reference string) string {
	return "/blobs/" + reference
}

func (s *fakeStorage) Delete(reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOps {
		return apperrors.Storage("delete failed", nil)
	}
	delete(s.blobs, reference)
	s.deleted = append(s.deleted, reference)
	return nil
}

func (s *fakeStorage) EnsureUploadDir() error { return nil }

// fakePDFParser maps blob paths to extracted text.
type fakePDFParser struct {
	mu    sync.Mutex
	texts map[string]string
}

func newFakePDFParser() *fakePDFParser {
	return &fakePDFParser{texts: make(map[string]string)}
}

func (p *fakePDFParser) setText(path, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts[path] = text
}

func (p *fakePDFParser) ExtractText(filepath string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text, ok := p.texts[filepath]
	if !ok {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return text, nil
}
