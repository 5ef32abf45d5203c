package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
)

type CVRepository interface {
	// CreateWithinCap inserts the CV only if the owning student currently
	// holds fewer than limit live CVs. The check and the insert commit
	// atomically.
	CreateWithinCap(ctx context.Context, cv *models.CV, limit int) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CV, error)
	FindForStudent(ctx context.Context, id, studentID uuid.UUID) (*models.CV, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.CV, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type cvRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) CVRepository {
	return &cvRepository{db: db}
}

// CreateWithinCap implements CVRepository. The student row is locked for the
// duration of the transaction so two concurrent uploads cannot both pass the
// cap check.
func (r *cvRepository) CreateWithinCap(ctx context.Context, cv *models.CV, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", cv.StudentID).
			First(&student).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("student")
			}
			return fmt.Errorf("failed to lock student row: %w", err)
		}

		var count int64
		if err := tx.Model(&models.CV{}).
			Where("student_id = ?", cv.StudentID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count CVs: %w", err)
		}
		if count >= int64(limit) {
			return apperrors.Conflict(fmt.Sprintf("maximum %d CVs allowed per student", limit))
		}

		if err := tx.Create(cv).Error; err != nil {
			return fmt.Errorf("failed to create CV: %w", err)
		}
		return nil
	})
}

// FindByID implements CVRepository.
func (r *cvRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CV, error) {
	var cv models.CV
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cv")
		}
		return nil, fmt.Errorf("failed to find CV: %w", err)
	}
	return &cv, nil
}

// FindForStudent implements CVRepository. Not-found covers both a missing CV
// and a CV owned by a different student, so ownership is never leaked.
func (r *cvRepository) FindForStudent(ctx context.Context, id, studentID uuid.UUID) (*models.CV, error) {
	var cv models.CV
	err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", id, studentID).
		First(&cv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cv")
		}
		return nil, fmt.Errorf("failed to find CV: %w", err)
	}
	return &cv, nil
}

// ListByStudent implements CVRepository.
func (r *cvRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.CV, error) {
	var cvs []models.CV
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("uploaded_at ASC").
		Find(&cvs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list CVs: %w", err)
	}
	return cvs, nil
}

// Delete implements CVRepository.
func (r *cvRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CV{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete CV: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("cv")
	}
	return nil
}
