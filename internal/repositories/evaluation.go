package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campushire/recruiting-api/internal/models"
)

type EvaluationResultRepository interface {
	FindByFingerprint(ctx context.Context, fingerprint string) (*models.EvaluationResult, error)
	// Save is idempotent on fingerprint: a concurrent writer that got there
	// first wins and the stored row is returned.
	Save(ctx context.Context, result *models.EvaluationResult) error
}

type evaluationResultRepository struct {
	db *gorm.DB
}

func NewEvaluationResultRepository(db *gorm.DB) EvaluationResultRepository {
	return &evaluationResultRepository{db: db}
}

// FindByFingerprint implements EvaluationResultRepository. A nil result with
// nil error means no cached evaluation exists.
func (r *evaluationResultRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*models.EvaluationResult, error) {
	var result models.EvaluationResult
	err := r.db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find evaluation result: %w", err)
	}
	return &result, nil
}

// Save implements EvaluationResultRepository.
func (r *evaluationResultRepository) Save(ctx context.Context, result *models.EvaluationResult) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoNothing: true,
		}).
		Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to save evaluation result: %w", err)
	}
	return nil
}
