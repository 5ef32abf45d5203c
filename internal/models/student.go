package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Student struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string         `gorm:"type:text;not null" json:"name"`
	Email          string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Phone          string         `gorm:"type:text" json:"phone,omitempty"`
	University     string         `gorm:"type:text" json:"university,omitempty"`
	GraduationYear *int           `json:"graduation_year,omitempty"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills"`
	CreatedAt      time.Time      `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}
