package models

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationResult caches one scoring-service outcome keyed by the content
// fingerprint of (job description, CV reference). A repeat evaluation with an
// unchanged fingerprint is served from here instead of re-invoking the
// scoring service.
type EvaluationResult struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Fingerprint   string    `gorm:"type:text;not null;uniqueIndex" json:"fingerprint"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`
	Score         float64   `gorm:"type:decimal(5,2);not null" json:"score"`
	Feedback      string    `gorm:"type:text" json:"feedback"`
	Strengths     string    `gorm:"type:text" json:"strengths"`
	Weaknesses    string    `gorm:"type:text" json:"weaknesses"`
	CreatedAt     time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (EvaluationResult) TableName() string {
	return "evaluation_results"
}

// EvaluationRun is the transient audit record of one orchestration
// invocation. It is returned to the caller, never persisted.
type EvaluationRun struct {
	ID          uuid.UUID           `json:"id"`
	RequestedAt time.Time           `json:"requested_at"`
	CompletedAt time.Time           `json:"completed_at"`
	Scored      int                 `json:"scored"`
	Cached      int                 `json:"cached"`
	Failed      int                 `json:"failed"`
	Failures    []EvaluationFailure `json:"failures,omitempty"`
}

type EvaluationFailure struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Reason        string    `json:"reason"`
}
