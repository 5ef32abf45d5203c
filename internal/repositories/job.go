package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListActive(ctx context.Context, offset, limit int) ([]models.Job, int64, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Job, error)
	UpdateActive(ctx context.Context, id uuid.UUID, isActive bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveByRecruiter(ctx context.Context, recruiterID uuid.UUID) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("job")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// ListActive implements JobRepository.
func (r *jobRepository) ListActive(ctx context.Context, offset, limit int) ([]models.Job, int64, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("is_active = ?", true).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return jobs, total, nil
}

// ListByRecruiter implements JobRepository.
func (r *jobRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recruiter jobs: %w", err)
	}
	return jobs, nil
}

// UpdateActive implements JobRepository.
func (r *jobRepository) UpdateActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Update("is_active", isActive)
	if result.Error != nil {
		return fmt.Errorf("failed to update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("job")
	}
	return nil
}

// Delete implements JobRepository.
func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("job")
	}
	return nil
}

// CountActiveByRecruiter implements JobRepository.
func (r *jobRepository) CountActiveByRecruiter(ctx context.Context, recruiterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("recruiter_id = ? AND is_active = ?", recruiterID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active jobs: %w", err)
	}
	return count, nil
}
