package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCVsPerStudent caps how many live CVs a student may hold at once.
const MaxCVsPerStudent = 3

type CV struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	DisplayName string    `gorm:"type:text;not null" json:"display_name"`
	// FileReference is an opaque handle into blob storage.
	FileReference string    `gorm:"type:text;not null" json:"file_reference"`
	UploadedAt    time.Time `gorm:"type:timestamp;default:now()" json:"uploaded_at"`

	Student Student `gorm:"foreignKey:StudentID" json:"-"`
}

func (CV) TableName() string {
	return "cvs"
}
