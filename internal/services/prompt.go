package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVEvaluationPrompt creates the prompt scoring a candidate CV against a
// job posting.
func (pb *PromptBuilder) BuildCVEvaluationPrompt(cvText, jobTitle, company, jobDescription, relevantContext string) string {
	return fmt.Sprintf(`You are an expert HR recruiter evaluating a candidate's CV for a %s position at %s.

JOB DESCRIPTION:
%s

MOST RELEVANT JOB REQUIREMENTS (retrieved):
%s

CANDIDATE CV:
%s

Your task is to evaluate how well the candidate's CV matches the job description.

Score the candidate from 0 to 100 where 0 means no overlap with the requirements and 100 means an ideal match. Consider technical skill alignment, experience level, relevant achievements, and education.

Return your response in the following JSON format:
{
  "score": <integer 0-100>,
  "feedback": "<overall recommendation in 2-4 sentences>",
  "strengths": "<specific strengths aligned with the role, 2-4 sentences>",
  "weaknesses": "<gaps or areas of mismatch, 2-4 sentences>"
}

Be objective and thorough. Provide specific examples from the CV to justify your score.`,
		jobTitle, company, jobDescription, relevantContext, cvText)
}

// FormatRetrievedContext flattens retrieval hits into prompt text.
func FormatRetrievedContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No additional context retrieved."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Passage %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
