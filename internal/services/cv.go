package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/repositories"
)

var pdfMagic = []byte("%PDF")

// CVService owns CV creation and removal against the per-student slot cap.
type CVService interface {
	Upload(ctx context.Context, studentID uuid.UUID, displayName, filename string, content []byte) (*models.CV, error)
	Remove(ctx context.Context, studentID, cvID uuid.UUID) error
	List(ctx context.Context, studentID uuid.UUID) ([]models.CV, error)
}

type cvService struct {
	cvRepo      repositories.CVRepository
	storage     BlobStorage
	maxFileSize int64
	slotLimit   int
}

func NewCVService(cvRepo repositories.CVRepository, storage BlobStorage, maxFileSize int64) CVService {
	return &cvService{
		cvRepo:      cvRepo,
		storage:     storage,
		maxFileSize: maxFileSize,
		slotLimit:   models.MaxCVsPerStudent,
	}
}

// Upload implements CVService.
func (s *cvService) Upload(ctx context.Context, studentID uuid.UUID, displayName, filename string, content []byte) (*models.CV, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, apperrors.Validation("display name is required", "display_name")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, apperrors.Validation("only PDF files are allowed", "file")
	}
	if !bytes.HasPrefix(content, pdfMagic) {
		return nil, apperrors.Validation("file content is not a PDF", "file")
	}
	if int64(len(content)) > s.maxFileSize {
		return nil, apperrors.Validation(
			fmt.Sprintf("file too large, max size is %d bytes", s.maxFileSize), "file")
	}

	reference, err := s.storage.Store(content, "cv")
	if err != nil {
		return nil, err
	}

	cv := &models.CV{
		ID:            uuid.New(),
		StudentID:     studentID,
		DisplayName:   displayName,
		FileReference: reference,
		UploadedAt:    time.Now(),
	}

	if err := s.cvRepo.CreateWithinCap(ctx, cv, s.slotLimit); err != nil {
		// Cleanup the stored blob if the record insert fails
		if delErr := s.storage.Delete(reference); delErr != nil {
			log.Printf("⚠️  Failed to clean up blob %s: %v\n", reference, delErr)
		}
		return nil, err
	}

	return cv, nil
}

// Remove implements CVService. The domain delete commits first; freeing the
// blob is best-effort and a storage failure is logged, not returned.
func (s *cvService) Remove(ctx context.Context, studentID, cvID uuid.UUID) error {
	cv, err := s.cvRepo.FindForStudent(ctx, cvID, studentID)
	if err != nil {
		return err
	}

	if err := s.cvRepo.Delete(ctx, cv.ID); err != nil {
		return err
	}

	if err := s.storage.Delete(cv.FileReference); err != nil {
		log.Printf("⚠️  Failed to free blob %s for deleted CV %s: %v\n", cv.FileReference, cv.ID, err)
	}

	return nil
}

// List implements CVService.
func (s *cvService) List(ctx context.Context, studentID uuid.UUID) ([]models.CV, error) {
	return s.cvRepo.ListByStudent(ctx, studentID)
}
