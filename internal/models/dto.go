package models

// Request and response shapes for the HTTP surface. Transport encoding only;
// the services work on the entity types.

type RegisterStudentRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	University     string   `json:"university"`
	GraduationYear *int     `json:"graduation_year"`
	Skills         []string `json:"skills"`
}

type RegisterRecruiterRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

type ApplyRequest struct {
	JobID string `json:"job_id"`
	CVID  string `json:"cv_id"`
}

type DecisionRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

type JobStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type CVResponse struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	FileReference string `json:"file_reference"`
	UploadedAt    string `json:"uploaded_at"`
}

type RecruiterDashboard struct {
	ActiveJobCount    int `json:"active_job_count"`
	TotalApplications int `json:"total_applications"`
	ShortlistedCount  int `json:"shortlisted_count"`
	PendingCount      int `json:"pending_count"`
}

type StudentDashboard struct {
	TotalApplications int     `json:"total_applications"`
	AverageScore      float64 `json:"average_score"`
	SuccessRate       float64 `json:"success_rate"`
}
