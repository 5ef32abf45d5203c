package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
)

// ScoreReport is the outcome of one scoring-service call.
type ScoreReport struct {
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
	Strengths  string  `json:"strengths"`
	Weaknesses string  `json:"weaknesses"`
}

// ScoringService maps a CV and a job description to a score and narrative
// feedback. Every call is treated as potentially slow and potentially
// failing; failures carry the scoring_unavailable code.
type ScoringService interface {
	Evaluate(ctx context.Context, job *models.Job, cvText string) (*ScoreReport, error)
}

type geminiScoringService struct {
	gemini        GeminiService
	qdrant        QdrantService
	promptBuilder *PromptBuilder
	llmRetries    int
}

func NewGeminiScoringService(gemini GeminiService, qdrant QdrantService, llmRetries int) ScoringService {
	return &geminiScoringService{
		gemini:        gemini,
		qdrant:        qdrant,
		promptBuilder: NewPromptBuilder(),
		llmRetries:    llmRetries,
	}
}

// Evaluate implements ScoringService.
func (s *geminiScoringService) Evaluate(ctx context.Context, job *models.Job, cvText string) (*ScoreReport, error) {
	relevantContext := s.retrieveContext(ctx, job.ID.String(), cvText)

	prompt := s.promptBuilder.BuildCVEvaluationPrompt(
		cvText,
		job.Title,
		job.Company,
		job.Description,
		relevantContext,
	)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, s.llmRetries)
	if err != nil {
		return nil, apperrors.ScoringUnavailable("scoring service call failed", err)
	}

	report, err := parseScoreReport(response)
	if err != nil {
		return nil, apperrors.ScoringUnavailable("scoring service returned an unparseable response", err)
	}

	return report, nil
}

// retrieveContext embeds the CV text and pulls the closest job-description
// chunks. Retrieval is best-effort: a failure degrades the prompt, it never
// fails the evaluation.
func (s *geminiScoringService) retrieveContext(ctx context.Context, jobID, cvText string) string {
	embedding, err := s.gemini.GenerateEmbedding(ctx, cvText)
	if err != nil {
		log.Printf("⚠️  Failed to embed CV text for retrieval: %v\n", err)
		return ""
	}

	results, err := s.qdrant.SearchSimilar(ctx, embedding, jobID, 3)
	if err != nil {
		log.Printf("⚠️  Failed to retrieve job description chunks: %v\n", err)
		return ""
	}

	return FormatRetrievedContext(results)
}

func parseScoreReport(response string) (*ScoreReport, error) {
	jsonStr := extractJSON(response)

	var report ScoreReport
	if err := json.Unmarshal([]byte(jsonStr), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	if report.Score < 0 || report.Score > 100 {
		return nil, fmt.Errorf("score %.2f out of range 0-100", report.Score)
	}

	return &report, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
