package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusWithdrawn   ApplicationStatus = "withdrawn"
)

// Valid reports whether s is one of the closed set of statuses. New statuses
// are a deliberate state-machine change, never an incidental string.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// Terminal statuses admit no further transition.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusShortlisted || s == StatusRejected || s == StatusWithdrawn
}

// CanTransitionTo encodes the legal moves:
// pending -> reviewed | shortlisted | rejected | withdrawn,
// reviewed -> shortlisted | rejected.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusReviewed || next == StatusShortlisted ||
			next == StatusRejected || next == StatusWithdrawn
	case StatusReviewed:
		return next == StatusShortlisted || next == StatusRejected
	default:
		return false
	}
}

type Application struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID         `gorm:"type:uuid;not null;index" json:"student_id"`
	JobID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"job_id"`
	CVID      uuid.UUID         `gorm:"type:uuid;not null" json:"cv_id"`
	Status    ApplicationStatus `gorm:"type:text;not null;default:'pending'" json:"status"`

	// Score and the narrative fields stay absent until an evaluation or a
	// recruiter decision has occurred.
	Score      *float64   `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	Feedback   *string    `gorm:"type:text" json:"feedback,omitempty"`
	Strengths  *string    `gorm:"type:text" json:"strengths,omitempty"`
	Weaknesses *string    `gorm:"type:text" json:"weaknesses,omitempty"`
	AppliedAt  time.Time  `gorm:"type:timestamp;default:now()" json:"applied_at"`
	ReviewedAt *time.Time `gorm:"type:timestamp" json:"reviewed_at,omitempty"`
	UpdatedAt  time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`

	Student Student `gorm:"foreignKey:StudentID" json:"-"`
	Job     Job     `gorm:"foreignKey:JobID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}
