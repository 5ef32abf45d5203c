package services

import (
	"context"

	"github.com/google/uuid"

	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/repositories"
)

// DashboardService derives read-only analytics from the authoritative
// entity collections at call time. It holds no state of its own.
type DashboardService interface {
	RecruiterView(ctx context.Context, recruiterID uuid.UUID) (*models.RecruiterDashboard, error)
	StudentView(ctx context.Context, studentID uuid.UUID) (*models.StudentDashboard, error)
}

type dashboardService struct {
	appRepo repositories.ApplicationRepository
	jobRepo repositories.JobRepository
}

func NewDashboardService(appRepo repositories.ApplicationRepository, jobRepo repositories.JobRepository) DashboardService {
	return &dashboardService{
		appRepo: appRepo,
		jobRepo: jobRepo,
	}
}

// RecruiterView implements DashboardService.
func (s *dashboardService) RecruiterView(ctx context.Context, recruiterID uuid.UUID) (*models.RecruiterDashboard, error) {
	activeJobs, err := s.jobRepo.CountActiveByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	view := &models.RecruiterDashboard{
		ActiveJobCount:    int(activeJobs),
		TotalApplications: len(apps),
	}
	for _, app := range apps {
		switch app.Status {
		case models.StatusShortlisted:
			view.ShortlistedCount++
		case models.StatusPending:
			view.PendingCount++
		}
	}

	return view, nil
}

// StudentView implements DashboardService. average_score is the mean over
// applications that carry a score; success_rate is shortlisted over
// non-withdrawn applications. Both are 0 when the denominator is empty.
func (s *dashboardService) StudentView(ctx context.Context, studentID uuid.UUID) (*models.StudentDashboard, error) {
	apps, err := s.appRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	view := &models.StudentDashboard{
		TotalApplications: len(apps),
	}

	var scoreSum float64
	var scored, shortlisted, live int
	for _, app := range apps {
		if app.Score != nil {
			scoreSum += *app.Score
			scored++
		}
		if app.Status != models.StatusWithdrawn {
			live++
		}
		if app.Status == models.StatusShortlisted {
			shortlisted++
		}
	}

	if scored > 0 {
		view.AverageScore = scoreSum / float64(scored)
	}
	if live > 0 {
		view.SuccessRate = float64(shortlisted) / float64(live)
	}

	return view, nil
}
