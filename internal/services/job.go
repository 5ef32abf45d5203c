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

// JobService owns recruiter job postings, including indexing the job
// description text for retrieval-augmented scoring.
type JobService interface {
	Create(ctx context.Context, recruiterID uuid.UUID, job *models.Job, descriptionPDF []byte) (*models.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListActive(ctx context.Context, offset, limit int) ([]models.Job, int64, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Job, error)
	SetActive(ctx context.Context, jobID, recruiterID uuid.UUID, isActive bool) error
	Delete(ctx context.Context, jobID, recruiterID uuid.UUID) error
}

type jobService struct {
	jobRepo       repositories.JobRepository
	recruiterRepo repositories.RecruiterRepository
	storage       BlobStorage
	pdfParser     PDFParserService
	chunker       TextChunker
	gemini        GeminiService
	qdrant        QdrantService
	maxFileSize   int64
}

func NewJobService(
	jobRepo repositories.JobRepository,
	recruiterRepo repositories.RecruiterRepository,
	storage BlobStorage,
	pdfParser PDFParserService,
	chunker TextChunker,
	gemini GeminiService,
	qdrant QdrantService,
	maxFileSize int64,
) JobService {
	return &jobService{
		jobRepo:       jobRepo,
		recruiterRepo: recruiterRepo,
		storage:       storage,
		pdfParser:     pdfParser,
		chunker:       chunker,
		gemini:        gemini,
		qdrant:        qdrant,
		maxFileSize:   maxFileSize,
	}
}

// Create implements JobService. The description PDF is optional; when
// present it is stored, its text merged into the job description, and its
// chunks indexed for retrieval.
func (s *jobService) Create(ctx context.Context, recruiterID uuid.UUID, job *models.Job, descriptionPDF []byte) (*models.Job, error) {
	if strings.TrimSpace(job.Title) == "" {
		return nil, apperrors.Validation("job title is required", "title")
	}
	if strings.TrimSpace(job.Company) == "" {
		return nil, apperrors.Validation("company name is required", "company")
	}
	if strings.TrimSpace(job.Description) == "" && len(descriptionPDF) == 0 {
		return nil, apperrors.Validation("a description or a description PDF is required", "description")
	}

	if _, err := s.recruiterRepo.FindByID(ctx, recruiterID); err != nil {
		return nil, err
	}

	job.ID = uuid.New()
	job.RecruiterID = recruiterID
	job.JobType = models.NormalizeJobType(job.JobType)
	job.IsActive = true
	job.CreatedAt = time.Now()

	if len(descriptionPDF) > 0 {
		if !bytes.HasPrefix(descriptionPDF, pdfMagic) {
			return nil, apperrors.Validation("job description must be a PDF file", "description_file")
		}
		if int64(len(descriptionPDF)) > s.maxFileSize {
			return nil, apperrors.Validation(
				fmt.Sprintf("file too large, max size is %d bytes", s.maxFileSize), "description_file")
		}

		reference, err := s.storage.Store(descriptionPDF, "jd")
		if err != nil {
			return nil, err
		}
		job.DescriptionFileRef = reference

		text, err := s.pdfParser.ExtractText(s.storage.Path(reference))
		if err != nil {
			return nil, apperrors.Validation("could not extract text from the job description PDF", "description_file")
		}
		text = CleanText(text)
		if strings.TrimSpace(job.Description) == "" {
			job.Description = text
		} else {
			job.Description = job.Description + "\n\n" + text
		}
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		if job.DescriptionFileRef != "" {
			if delErr := s.storage.Delete(job.DescriptionFileRef); delErr != nil {
				log.Printf("⚠️  Failed to clean up blob %s: %v\n", job.DescriptionFileRef, delErr)
			}
		}
		return nil, err
	}

	s.indexDescription(ctx, job)

	return job, nil
}

// indexDescription chunks, embeds and upserts the description text. Indexing
// is best-effort: the posting exists either way and scoring degrades to the
// raw description.
func (s *jobService) indexDescription(ctx context.Context, job *models.Job) {
	chunks := s.chunker.ChunkText(job.Description, 1000, 200)
	for i, chunk := range chunks {
		embedding, err := s.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Printf("⚠️  Failed to embed chunk %d of job %s: %v\n", i+1, job.ID, err)
			continue
		}
		if err := s.qdrant.UpsertChunk(ctx, job.ID.String(), chunk, embedding); err != nil {
			log.Printf("⚠️  Failed to index chunk %d of job %s: %v\n", i+1, job.ID, err)
		}
	}
}

// Get implements JobService.
func (s *jobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.jobRepo.FindByID(ctx, id)
}

// ListActive implements JobService.
func (s *jobService) ListActive(ctx context.Context, offset, limit int) ([]models.Job, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.jobRepo.ListActive(ctx, offset, limit)
}

// ListByRecruiter implements JobService.
func (s *jobService) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Job, error) {
	return s.jobRepo.ListByRecruiter(ctx, recruiterID)
}

// SetActive implements JobService. Toggles are recruiter-owned.
func (s *jobService) SetActive(ctx context.Context, jobID, recruiterID uuid.UUID, isActive bool) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.RecruiterID != recruiterID {
		return apperrors.Authorization("job belongs to another recruiter")
	}
	return s.jobRepo.UpdateActive(ctx, jobID, isActive)
}

// Delete implements JobService. Only the owning recruiter may delete; the
// JD blob and its index entries are freed best-effort.
func (s *jobService) Delete(ctx context.Context, jobID, recruiterID uuid.UUID) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.RecruiterID != recruiterID {
		return apperrors.Authorization("job belongs to another recruiter")
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return err
	}

	if job.DescriptionFileRef != "" {
		if err := s.storage.Delete(job.DescriptionFileRef); err != nil {
			log.Printf("⚠️  Failed to free blob %s for deleted job %s: %v\n", job.DescriptionFileRef, jobID, err)
		}
	}
	if err := s.qdrant.DeleteJob(ctx, jobID.String()); err != nil {
		log.Printf("⚠️  Failed to drop index entries for deleted job %s: %v\n", jobID, err)
	}

	return nil
}
