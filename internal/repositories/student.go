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

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// Create implements StudentRepository.
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("email = ?", student.Email).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check student email: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict("student with this email already exists")
	}

	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// FindByID implements StudentRepository.
func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("student")
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &student, nil
}
