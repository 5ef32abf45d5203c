package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
)

// BlobStorage is the contract with the external binary store. References are
// opaque handles; callers never interpret them.
type BlobStorage interface {
	Store(content []byte, prefix string) (string, error)
	Path(reference string) string
	Delete(reference string) error
	EnsureUploadDir() error
}

type localBlobStorage struct {
	uploadPath string
}

func NewLocalBlobStorage(uploadPath string) BlobStorage {
	return &localBlobStorage{
		uploadPath: uploadPath,
	}
}

func (s *localBlobStorage) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// Store implements BlobStorage. The reference is a generated filename so
// uploads with identical display names never collide.
func (s *localBlobStorage) Store(content []byte, prefix string) (string, error) {
	reference := fmt.Sprintf("%s_%s.pdf", prefix, uuid.New().String())
	filePath := filepath.Join(s.uploadPath, reference)

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return "", apperrors.Storage("failed to store file", err)
	}

	return reference, nil
}

func (s *localBlobStorage) Path(reference string) string {
	return filepath.Join(s.uploadPath, reference)
}

func (s *localBlobStorage) Delete(reference string) error {
	filePath := s.Path(reference)
	if err := os.Remove(filePath); err != nil {
		return apperrors.Storage("failed to delete file", err)
	}
	return nil
}
