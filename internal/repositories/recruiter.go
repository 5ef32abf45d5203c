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

type RecruiterRepository interface {
	Create(ctx context.Context, recruiter *models.Recruiter) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Recruiter, error)
}

type recruiterRepository struct {
	db *gorm.DB
}

func NewRecruiterRepository(db *gorm.DB) RecruiterRepository {
	return &recruiterRepository{db: db}
}

// Create implements RecruiterRepository.
func (r *recruiterRepository) Create(ctx context.Context, recruiter *models.Recruiter) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recruiter{}).
		Where("email = ?", recruiter.Email).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check recruiter email: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict("recruiter with this email already exists")
	}

	if err := r.db.WithContext(ctx).Create(recruiter).Error; err != nil {
		return fmt.Errorf("failed to create recruiter: %w", err)
	}
	return nil
}

// FindByID implements RecruiterRepository.
func (r *recruiterRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Recruiter, error) {
	var recruiter models.Recruiter
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recruiter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("recruiter")
		}
		return nil, fmt.Errorf("failed to find recruiter: %w", err)
	}
	return &recruiter, nil
}
