package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/config"
	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/repositories"
)

// EvaluationOutcome is the result of evaluating a single application.
type EvaluationOutcome struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Score         float64   `json:"score"`
	Feedback      string    `json:"feedback"`
	Strengths     string    `json:"strengths"`
	Weaknesses    string    `json:"weaknesses"`
	// Cached is true when the outcome was served from a previous evaluation
	// with the same content fingerprint.
	Cached bool `json:"cached"`
}

// EvaluatorService coordinates scoring-service calls across one or many
// applications with fingerprint-based idempotency and bounded concurrency.
type EvaluatorService interface {
	EvaluateOne(ctx context.Context, applicationID uuid.UUID) (*EvaluationOutcome, error)
	EvaluateAll(ctx context.Context) (*models.EvaluationRun, error)
}

type evaluatorService struct {
	appRepo    repositories.ApplicationRepository
	jobRepo    repositories.JobRepository
	cvRepo     repositories.CVRepository
	resultRepo repositories.EvaluationResultRepository
	scoring    ScoringService
	storage    BlobStorage
	pdfParser  PDFParserService
	locks      *applicationLocks

	concurrency       int
	retryMaxAttempts  int
	retryInitialDelay time.Duration

	guard runGuard
}

func NewEvaluatorService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	cvRepo repositories.CVRepository,
	resultRepo repositories.EvaluationResultRepository,
	scoring ScoringService,
	storage BlobStorage,
	pdfParser PDFParserService,
	locks *applicationLocks,
	cfg config.EvaluatorConfig,
) EvaluatorService {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &evaluatorService{
		appRepo:           appRepo,
		jobRepo:           jobRepo,
		cvRepo:            cvRepo,
		resultRepo:        resultRepo,
		scoring:           scoring,
		storage:           storage,
		pdfParser:         pdfParser,
		locks:             locks,
		concurrency:       concurrency,
		retryMaxAttempts:  cfg.RetryMaxAttempts,
		retryInitialDelay: cfg.RetryInitialDelay,
		guard:             runGuard{ttl: cfg.InFlightTTL},
	}
}

// runGuard is the server-side in-flight marker for batch evaluation. A
// screen-level "already running" flag does not survive reloads or multiple
// clients, so the guard lives here. The TTL bounds staleness: a marker left
// behind by a crashed run never blocks batches forever. Acquire hands out an
// owner token so a superseded run finishing late cannot clear the marker of
// the run that took over its stale slot.
type runGuard struct {
	mu        sync.Mutex
	running   bool
	owner     uint64
	startedAt time.Time
	ttl       time.Duration
}

func (g *runGuard) tryAcquire() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running && (g.ttl <= 0 || time.Since(g.startedAt) < g.ttl) {
		return 0, apperrors.Conflict("a batch evaluation is already running")
	}
	g.owner++
	g.running = true
	g.startedAt = time.Now()
	return g.owner, nil
}

func (g *runGuard) release(token uint64) {
	g.mu.Lock()
	if g.owner == token {
		g.running = false
	}
	g.mu.Unlock()
}

// fingerprint derives the identity of an evaluation from the job description
// text and the CV blob reference. Unchanged inputs produce the same
// fingerprint and are served from cache.
func fingerprint(jobDescription, cvReference string) string {
	h := sha256.New()
	h.Write([]byte(jobDescription))
	h.Write([]byte{0})
	h.Write([]byte(cvReference))
	return hex.EncodeToString(h.Sum(nil))
}

// EvaluateOne implements EvaluatorService.
func (e *evaluatorService) EvaluateOne(ctx context.Context, applicationID uuid.UUID) (*EvaluationOutcome, error) {
	e.locks.Lock(applicationID)
	defer e.locks.Unlock(applicationID)

	return e.evaluateLocked(ctx, applicationID)
}

// evaluateLocked runs the cached-or-score path. Callers must hold the
// per-application lock.
func (e *evaluatorService) evaluateLocked(ctx context.Context, applicationID uuid.UUID) (*EvaluationOutcome, error) {
	app, err := e.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status.Terminal() {
		return nil, apperrors.StateTransition("application is in a terminal status")
	}

	job, err := e.jobRepo.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	cv, err := e.cvRepo.FindByID(ctx, app.CVID)
	if err != nil {
		return nil, err
	}

	fp := fingerprint(job.Description, cv.FileReference)

	cached, err := e.resultRepo.FindByFingerprint(ctx, fp)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		// Serve from cache; still fold the result onto the application in
		// case the earlier write did not land.
		if err := e.appRepo.UpdateEvaluation(ctx, applicationID, cached, true); err != nil {
			return nil, err
		}
		return &EvaluationOutcome{
			ApplicationID: applicationID,
			Score:         cached.Score,
			Feedback:      cached.Feedback,
			Strengths:     cached.Strengths,
			Weaknesses:    cached.Weaknesses,
			Cached:        true,
		}, nil
	}

	cvText, err := e.pdfParser.ExtractText(e.storage.Path(cv.FileReference))
	if err != nil {
		return nil, apperrors.Storage("failed to read CV content", err)
	}

	report, err := e.scoring.Evaluate(ctx, job, CleanText(cvText))
	if err != nil {
		return nil, err
	}

	result := &models.EvaluationResult{
		ID:            uuid.New(),
		Fingerprint:   fp,
		ApplicationID: applicationID,
		Score:         report.Score,
		Feedback:      report.Feedback,
		Strengths:     report.Strengths,
		Weaknesses:    report.Weaknesses,
		CreatedAt:     time.Now(),
	}

	if err := e.resultRepo.Save(ctx, result); err != nil {
		return nil, err
	}
	if err := e.appRepo.UpdateEvaluation(ctx, applicationID, result, true); err != nil {
		return nil, err
	}

	return &EvaluationOutcome{
		ApplicationID: applicationID,
		Score:         report.Score,
		Feedback:      report.Feedback,
		Strengths:     report.Strengths,
		Weaknesses:    report.Weaknesses,
	}, nil
}

// EvaluateAll implements EvaluatorService. Every pending application is
// evaluated through the cached path on a bounded worker pool. A failure on
// one application is recorded in the run report and never aborts the rest.
func (e *evaluatorService) EvaluateAll(ctx context.Context) (*models.EvaluationRun, error) {
	token, err := e.guard.tryAcquire()
	if err != nil {
		return nil, err
	}
	defer e.guard.release(token)

	pending, err := e.appRepo.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}

	run := &models.EvaluationRun{
		ID:          uuid.New(),
		RequestedAt: time.Now(),
	}

	log.Printf("🚀 Starting batch evaluation of %d pending applications (concurrency %d)\n",
		len(pending), e.concurrency)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		jobQueue = make(chan uuid.UUID)
	)

	for i := 0; i < e.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for appID := range jobQueue {
				outcome, err := e.evaluateWithRetry(ctx, appID)

				mu.Lock()
				switch {
				case err != nil:
					run.Failed++
					run.Failures = append(run.Failures, models.EvaluationFailure{
						ApplicationID: appID,
						Reason:        err.Error(),
					})
				case outcome.Cached:
					run.Cached++
				default:
					run.Scored++
				}
				mu.Unlock()
			}
		}()
	}

	// Feed the pool. On cancellation no new evaluations start; the ones
	// already picked up are allowed to finish so their cost is not wasted.
feed:
	for _, app := range pending {
		select {
		case <-ctx.Done():
			break feed
		case jobQueue <- app.ID:
		}
	}
	close(jobQueue)
	wg.Wait()

	// Deterministic report for a fixed input set regardless of worker
	// scheduling.
	sort.Slice(run.Failures, func(i, j int) bool {
		return run.Failures[i].ApplicationID.String() < run.Failures[j].ApplicationID.String()
	})
	run.CompletedAt = time.Now()

	log.Printf("✅ Batch evaluation completed: %d scored, %d cached, %d failed\n",
		run.Scored, run.Cached, run.Failed)

	return run, nil
}

// evaluateWithRetry retries only scoring-service failures, with doubling
// backoff. Domain failures (missing entities, terminal status) are final on
// the first attempt.
func (e *evaluatorService) evaluateWithRetry(ctx context.Context, applicationID uuid.UUID) (*EvaluationOutcome, error) {
	e.locks.Lock(applicationID)
	defer e.locks.Unlock(applicationID)

	var lastErr error
	delay := e.retryInitialDelay

	for attempt := 0; attempt <= e.retryMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(delay):
			}
			delay *= 2
		}

		outcome, err := e.evaluateLocked(ctx, applicationID)
		if err == nil {
			return outcome, nil
		}
		lastErr = err

		if !apperrors.Is(err, apperrors.CodeScoringUnavailable) {
			return nil, err
		}
	}

	return nil, lastErr
}
