package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecruiterID uuid.UUID `gorm:"type:uuid;not null;index" json:"recruiter_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Company     string    `gorm:"type:text;not null" json:"company"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:text" json:"location"`
	JobType     string    `gorm:"type:text;default:'Full-time'" json:"job_type"`
	// DescriptionFileRef is the blob reference of the job description PDF.
	DescriptionFileRef string         `gorm:"type:text" json:"description_file_ref,omitempty"`
	RequiredSkills     pq.StringArray `gorm:"type:text[]" json:"required_skills"`
	IsActive           bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time      `gorm:"type:timestamp;default:now()" json:"created_at"`

	Recruiter Recruiter `gorm:"foreignKey:RecruiterID" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

var validJobTypes = map[string]bool{
	"Full-time":  true,
	"Part-time":  true,
	"Contract":   true,
	"Internship": true,
	"Remote":     true,
}

// NormalizeJobType falls back to Full-time for unknown values, matching how
// postings are categorized on the dashboards.
func NormalizeJobType(jobType string) string {
	if validJobTypes[jobType] {
		return jobType
	}
	return "Full-time"
}
