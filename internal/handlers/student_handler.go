package handlers

import (
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/repositories"
	"campushire/recruiting-api/internal/services"
)

type StudentHandler struct {
	studentRepo repositories.StudentRepository
	cvService   services.CVService
	appService  services.ApplicationService
	dashboard   services.DashboardService
}

func NewStudentHandler(
	studentRepo repositories.StudentRepository,
	cvService services.CVService,
	appService services.ApplicationService,
	dashboard services.DashboardService,
) *StudentHandler {
	return &StudentHandler{
		studentRepo: studentRepo,
		cvService:   cvService,
		appService:  appService,
		dashboard:   dashboard,
	}
}

// HandleRegister handles POST /students
func (h *StudentHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.Validation("invalid request payload", "body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return writeError(c, apperrors.Validation("name is required", "name"))
	}
	if !strings.Contains(req.Email, "@") {
		return writeError(c, apperrors.Validation("a valid email is required", "email"))
	}

	student := &models.Student{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		University:     req.University,
		GraduationYear: req.GraduationYear,
		Skills:         req.Skills,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.studentRepo.Create(c.Context(), student); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(student)
}

// HandleGetProfile handles GET /students/:id
func (h *StudentHandler) HandleGetProfile(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	student, err := h.studentRepo.FindByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(student)
}

// HandleUploadCV handles POST /students/:id/cvs
func (h *StudentHandler) HandleUploadCV(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if principalFrom(c).ID != studentID {
		return writeError(c, apperrors.Authorization("cannot upload a CV for another student"))
	}

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		return writeError(c, apperrors.Validation("a 'cv' file is required", "cv"))
	}
	displayName := c.FormValue("display_name")

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, apperrors.Validation("failed to read uploaded file", "cv"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return writeError(c, apperrors.Validation("failed to read uploaded file", "cv"))
	}

	cv, err := h.cvService.Upload(c.Context(), studentID, displayName, fileHeader.Filename, content)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.CVResponse{
		ID:            cv.ID.String(),
		DisplayName:   cv.DisplayName,
		FileReference: cv.FileReference,
		UploadedAt:    cv.UploadedAt.Format(time.RFC3339),
	})
}

// HandleListCVs handles GET /students/:id/cvs
func (h *StudentHandler) HandleListCVs(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	cvs, err := h.cvService.List(c.Context(), studentID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"cvs":      cvs,
		"cv_count": len(cvs),
	})
}

// HandleRemoveCV handles DELETE /students/:id/cvs/:cvID
func (h *StudentHandler) HandleRemoveCV(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if principalFrom(c).ID != studentID {
		return writeError(c, apperrors.Authorization("cannot remove another student's CV"))
	}

	cvID, err := parseUUIDParam(c, "cvID")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.cvService.Remove(c.Context(), studentID, cvID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "CV deleted successfully"})
}

// HandleListApplications handles GET /students/:id/applications
func (h *StudentHandler) HandleListApplications(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	apps, err := h.appService.ListByStudent(c.Context(), studentID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"applications": apps})
}

// HandleDashboard handles GET /students/:id/dashboard
func (h *StudentHandler) HandleDashboard(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	view, err := h.dashboard.StudentView(c.Context(), studentID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(view)
}
