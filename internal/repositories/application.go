package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
)

type ApplicationRepository interface {
	// CreateUnique inserts the application only if no non-withdrawn
	// application exists for the same (student, job) pair. The check and the
	// insert commit atomically; the partial unique index is the backstop for
	// races the transaction-level check cannot see.
	CreateUnique(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Application, error)
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
	UpdateDecision(ctx context.Context, id uuid.UUID, status models.ApplicationStatus, feedback string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error
	UpdateEvaluation(ctx context.Context, id uuid.UUID, result *models.EvaluationResult, markReviewed bool) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// CreateUnique implements ApplicationRepository.
func (r *applicationRepository) CreateUnique(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Application{}).
			Where("student_id = ? AND job_id = ? AND status <> ?",
				app.StudentID, app.JobID, models.StatusWithdrawn).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check existing application: %w", err)
		}
		if count > 0 {
			return apperrors.Conflict("an application for this job already exists")
		}

		if err := tx.Create(app).Error; err != nil {
			if strings.Contains(err.Error(), "idx_applications_live_pair") {
				return apperrors.Conflict("an application for this job already exists")
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		return nil
	})
}

// FindByID implements ApplicationRepository.
func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application")
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

// ListByStudent implements ApplicationRepository.
func (r *applicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list student applications: %w", err)
	}
	return apps, nil
}

// ListByJob implements ApplicationRepository.
func (r *applicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	return apps, nil
}

// ListByRecruiter implements ApplicationRepository.
func (r *applicationRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.recruiter_id = ?", recruiterID).
		Order("applications.applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recruiter applications: %w", err)
	}
	return apps, nil
}

// ListByStatus implements ApplicationRepository.
func (r *applicationRepository) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("applied_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by status: %w", err)
	}
	return apps, nil
}

// CountByJob implements ApplicationRepository. Withdrawn applications stay
// out of the public count.
func (r *applicationRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND status <> ?", jobID, models.StatusWithdrawn).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count job applications: %w", err)
	}
	return count, nil
}

// UpdateDecision implements ApplicationRepository.
func (r *applicationRepository) UpdateDecision(ctx context.Context, id uuid.UUID, status models.ApplicationStatus, feedback string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_at": now,
		"updated_at":  now,
	}
	if feedback != "" {
		updates["feedback"] = feedback
	}

	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update decision: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("application")
	}
	return nil
}

// UpdateStatus implements ApplicationRepository.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("application")
	}
	return nil
}

// UpdateEvaluation implements ApplicationRepository. The status moves to
// reviewed only when the application is still pending; a recruiter decision
// that already landed wins.
func (r *applicationRepository) UpdateEvaluation(ctx context.Context, id uuid.UUID, result *models.EvaluationResult, markReviewed bool) error {
	now := time.Now()
	updates := map[string]interface{}{
		"score":      result.Score,
		"feedback":   result.Feedback,
		"strengths":  result.Strengths,
		"weaknesses": result.Weaknesses,
		"updated_at": now,
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update evaluation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("application")
		}

		if markReviewed {
			res = tx.Model(&models.Application{}).
				Where("id = ? AND status = ?", id, models.StatusPending).
				Updates(map[string]interface{}{
					"status":      models.StatusReviewed,
					"reviewed_at": now,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to mark application reviewed: %w", res.Error)
			}
		}
		return nil
	})
}
