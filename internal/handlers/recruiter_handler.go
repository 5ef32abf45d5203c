package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/repositories"
	"campushire/recruiting-api/internal/services"
)

type RecruiterHandler struct {
	recruiterRepo repositories.RecruiterRepository
	appService    services.ApplicationService
	dashboard     services.DashboardService
}

func NewRecruiterHandler(
	recruiterRepo repositories.RecruiterRepository,
	appService services.ApplicationService,
	dashboard services.DashboardService,
) *RecruiterHandler {
	return &RecruiterHandler{
		recruiterRepo: recruiterRepo,
		appService:    appService,
		dashboard:     dashboard,
	}
}

// HandleRegister handles POST /recruiters
func (h *RecruiterHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRecruiterRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.Validation("invalid request payload", "body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return writeError(c, apperrors.Validation("name is required", "name"))
	}
	if !strings.Contains(req.Email, "@") {
		return writeError(c, apperrors.Validation("a valid email is required", "email"))
	}
	if strings.TrimSpace(req.Company) == "" {
		return writeError(c, apperrors.Validation("company is required", "company"))
	}

	recruiter := &models.Recruiter{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.recruiterRepo.Create(c.Context(), recruiter); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(recruiter)
}

// HandleGetProfile handles GET /recruiters/:id
func (h *RecruiterHandler) HandleGetProfile(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	recruiter, err := h.recruiterRepo.FindByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(recruiter)
}

// HandleListApplications handles GET /recruiters/:id/applications
func (h *RecruiterHandler) HandleListApplications(c *fiber.Ctx) error {
	recruiterID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if principalFrom(c).ID != recruiterID {
		return writeError(c, apperrors.Authorization("cannot view another recruiter's applications"))
	}

	apps, err := h.appService.ListByRecruiter(c.Context(), recruiterID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"applications":       apps,
		"total_applications": len(apps),
	})
}

// HandleDashboard handles GET /recruiters/:id/dashboard
func (h *RecruiterHandler) HandleDashboard(c *fiber.Ctx) error {
	recruiterID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if principalFrom(c).ID != recruiterID {
		return writeError(c, apperrors.Authorization("cannot view another recruiter's dashboard"))
	}

	view, err := h.dashboard.RecruiterView(c.Context(), recruiterID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(view)
}
