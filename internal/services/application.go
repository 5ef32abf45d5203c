package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/repositories"
)

// ApplicationService governs the application lifecycle: apply, recruiter
// decision, student withdrawal.
type ApplicationService interface {
	Apply(ctx context.Context, studentID, jobID, cvID uuid.UUID) (*models.Application, error)
	Decide(ctx context.Context, applicationID, recruiterID uuid.UUID, newStatus models.ApplicationStatus, feedback string) (*models.Application, error)
	Withdraw(ctx context.Context, applicationID, studentID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID, recruiterID uuid.UUID) ([]models.Application, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Application, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}

type applicationService struct {
	appRepo repositories.ApplicationRepository
	jobRepo repositories.JobRepository
	cvRepo  repositories.CVRepository
	locks   *applicationLocks
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	cvRepo repositories.CVRepository,
	locks *applicationLocks,
) ApplicationService {
	return &applicationService{
		appRepo: appRepo,
		jobRepo: jobRepo,
		cvRepo:  cvRepo,
		locks:   locks,
	}
}

// Apply implements ApplicationService.
func (s *applicationService) Apply(ctx context.Context, studentID, jobID, cvID uuid.UUID) (*models.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, apperrors.Validation("job is no longer accepting applications", "job_id")
	}

	// The CV must belong to the applying student.
	if _, err := s.cvRepo.FindForStudent(ctx, cvID, studentID); err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.Validation("cv does not belong to this student", "cv_id")
		}
		return nil, err
	}

	app := &models.Application{
		ID:        uuid.New(),
		StudentID: studentID,
		JobID:     jobID,
		CVID:      cvID,
		Status:    models.StatusPending,
		AppliedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.appRepo.CreateUnique(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// Decide implements ApplicationService. Re-applying the same
// (status, feedback) pair is a no-op, not an error, so a retried request
// never trips the transition check.
func (s *applicationService) Decide(ctx context.Context, applicationID, recruiterID uuid.UUID, newStatus models.ApplicationStatus, feedback string) (*models.Application, error) {
	if !newStatus.Valid() || newStatus == models.StatusWithdrawn || newStatus == models.StatusPending {
		return nil, apperrors.Validation("status must be reviewed, shortlisted, or rejected", "status")
	}

	s.locks.Lock(applicationID)
	defer s.locks.Unlock(applicationID)

	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if job.RecruiterID != recruiterID {
		return nil, apperrors.Authorization("application belongs to another recruiter's job")
	}

	if app.Status == newStatus {
		current := ""
		if app.Feedback != nil {
			current = *app.Feedback
		}
		if feedback == "" || feedback == current {
			return app, nil
		}
	}

	if !app.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.StateTransition(
			"cannot move application from " + string(app.Status) + " to " + string(newStatus))
	}

	if err := s.appRepo.UpdateDecision(ctx, applicationID, newStatus, feedback); err != nil {
		return nil, err
	}

	return s.appRepo.FindByID(ctx, applicationID)
}

// Withdraw implements ApplicationService. Legal only from pending and only
// by the owning student. The row stays behind as withdrawn for audit.
func (s *applicationService) Withdraw(ctx context.Context, applicationID, studentID uuid.UUID) error {
	s.locks.Lock(applicationID)
	defer s.locks.Unlock(applicationID)

	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.StudentID != studentID {
		return apperrors.Authorization("application belongs to another student")
	}
	if app.Status != models.StatusPending {
		return apperrors.StateTransition("only pending applications can be withdrawn")
	}

	return s.appRepo.UpdateStatus(ctx, applicationID, models.StatusWithdrawn)
}

// Get implements ApplicationService.
func (s *applicationService) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return s.appRepo.FindByID(ctx, id)
}

// ListByStudent implements ApplicationService.
func (s *applicationService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Application, error) {
	return s.appRepo.ListByStudent(ctx, studentID)
}

// ListByJob implements ApplicationService. Only the recruiter who owns the
// job may see its applications.
func (s *applicationService) ListByJob(ctx context.Context, jobID, recruiterID uuid.UUID) ([]models.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.RecruiterID != recruiterID {
		return nil, apperrors.Authorization("job belongs to another recruiter")
	}
	return s.appRepo.ListByJob(ctx, jobID)
}

// ListByRecruiter implements ApplicationService.
func (s *applicationService) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Application, error) {
	return s.appRepo.ListByRecruiter(ctx, recruiterID)
}

// CountByJob implements ApplicationService. The count excludes withdrawn
// applications and is public on job details.
func (s *applicationService) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	return s.appRepo.CountByJob(ctx, jobID)
}
